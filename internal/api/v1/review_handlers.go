package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/devtrail/bootcamp-api/internal/auth"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/store"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

type ReviewStore interface {
	ListReviews(ctx context.Context, opts store.ListOptions) ([]models.Review, int64, error)
	GetReviewByID(ctx context.Context, id string) (*models.Review, error)
	CreateReview(ctx context.Context, rv *models.Review) error
	UpdateReview(ctx context.Context, id string, set bson.M) (*models.Review, error)
	DeleteReview(ctx context.Context, id string) error
	GetBootcampByID(ctx context.Context, id string) (*models.Bootcamp, error)
}

type ReviewHandler struct {
	store ReviewStore
}

func NewReviewHandler(s ReviewStore) *ReviewHandler {
	return &ReviewHandler{store: s}
}

// List serves GET /reviews and GET /bootcamps/{bootcampID}/reviews.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := ParseListOptions(r.URL.Query())
	if bootcampID := chi.URLParam(r, "bootcampID"); bootcampID != "" {
		parent, err := h.store.GetBootcampByID(r.Context(), bootcampID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		opts.Filter["bootcamp"] = parent.ID
	}
	reviews, total, err := h.store.ListReviews(r.Context(), opts)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteList(w, len(reviews), paginationFor(opts, total), reviews)
}

// GET /reviews/{id}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	rv, err := h.store.GetReviewByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rv)
}

type createReviewReq struct {
	Title  string `json:"title" validate:"required,max=100"`
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=10"`
}

// POST /bootcamps/{bootcampID}/reviews. User or admin role; one review per
// account per bootcamp; a duplicate gets a 400.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	parent, err := h.store.GetBootcampByID(r.Context(), chi.URLParam(r, "bootcampID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var req createReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	current := auth.GetUserFromCtx(r.Context())
	rv := &models.Review{
		Title:    req.Title,
		Text:     req.Text,
		Rating:   req.Rating,
		Bootcamp: parent.ID,
		User:     current.ID,
	}
	if err := h.store.CreateReview(r.Context(), rv); err != nil {
		if store.IsDuplicateKey(err) {
			utils.WriteError(w, http.StatusBadRequest, "you have already reviewed this bootcamp")
			return
		}
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, rv)
}

type updateReviewReq struct {
	Title  *string `json:"title" validate:"omitempty,max=100"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=10"`
}

func (r updateReviewReq) set() bson.M {
	set := bson.M{}
	if r.Title != nil {
		set["title"] = *r.Title
	}
	if r.Text != nil {
		set["text"] = *r.Text
	}
	if r.Rating != nil {
		set["rating"] = *r.Rating
	}
	return set
}

func canManageReview(u *models.User, rv *models.Review) bool {
	return u.IsAdmin() || rv.User == u.ID
}

// PUT /reviews/{id}. Author or admin.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	existing, err := h.store.GetReviewByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	if !canManageReview(current, existing) {
		utils.WriteError(w, http.StatusForbidden, "not authorized to update this review")
		return
	}

	rv, err := h.store.UpdateReview(r.Context(), id, req.set())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rv)
}

// DELETE /reviews/{id}. Author or admin.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.store.GetReviewByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	if !canManageReview(current, existing) {
		utils.WriteError(w, http.StatusForbidden, "not authorized to delete this review")
		return
	}

	if err := h.store.DeleteReview(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{})
}
