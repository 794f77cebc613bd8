package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devtrail/bootcamp-api/internal/auth"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/store"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

type BootcampStore interface {
	ListBootcamps(ctx context.Context, opts store.ListOptions) ([]models.Bootcamp, int64, error)
	GetBootcampByID(ctx context.Context, id string) (*models.Bootcamp, error)
	CreateBootcamp(ctx context.Context, b *models.Bootcamp) error
	UpdateBootcamp(ctx context.Context, id string, set bson.M) (*models.Bootcamp, error)
	DeleteBootcampCascade(ctx context.Context, id string) error
	CountBootcampsByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error)
	BootcampsInRadius(ctx context.Context, zipcode string, miles float64) ([]models.Bootcamp, error)
	UpdateBootcampPhoto(ctx context.Context, id string, key string) error
}

type BootcampHandler struct {
	store     BootcampStore
	photos    utils.PhotoStorage
	maxUpload int64
}

func NewBootcampHandler(s BootcampStore, photos utils.PhotoStorage, maxUpload int64) *BootcampHandler {
	return &BootcampHandler{store: s, photos: photos, maxUpload: maxUpload}
}

type createBootcampReq struct {
	Name          string           `json:"name" validate:"required,max=50"`
	Description   string           `json:"description" validate:"required,max=500"`
	Website       string           `json:"website" validate:"omitempty,url"`
	Phone         string           `json:"phone" validate:"omitempty,max=20"`
	Email         string           `json:"email" validate:"omitempty,email"`
	Address       string           `json:"address"`
	Location      *models.Location `json:"location"`
	Careers       []string         `json:"careers" validate:"required,dive,oneof='Web Development' 'Mobile Development' 'UI/UX' 'Data Science' 'Business' 'Other'"`
	Housing       bool             `json:"housing"`
	JobAssistance bool             `json:"jobAssistance"`
	JobGuarantee  bool             `json:"jobGuarantee"`
	AcceptGi      bool             `json:"acceptGi"`
}

// GET /bootcamps
func (h *BootcampHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := ParseListOptions(r.URL.Query())
	bootcamps, total, err := h.store.ListBootcamps(r.Context(), opts)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteList(w, len(bootcamps), paginationFor(opts, total), bootcamps)
}

// GET /bootcamps/{bootcampID}
func (h *BootcampHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.GetBootcampByID(r.Context(), chi.URLParam(r, "bootcampID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, b)
}

// POST /bootcamps. Publisher or admin; a publisher may own one bootcamp.
func (h *BootcampHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBootcampReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	current := auth.GetUserFromCtx(r.Context())
	if !current.IsAdmin() {
		n, err := h.store.CountBootcampsByOwner(r.Context(), current.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if n > 0 {
			utils.WriteError(w, http.StatusBadRequest, "the user has already published a bootcamp")
			return
		}
	}

	b := &models.Bootcamp{
		Name:          req.Name,
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Location:      req.Location,
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGi:      req.AcceptGi,
		User:          current.ID,
	}
	if err := h.store.CreateBootcamp(r.Context(), b); err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, b)
}

type updateBootcampReq struct {
	Name          *string          `json:"name" validate:"omitempty,max=50"`
	Description   *string          `json:"description" validate:"omitempty,max=500"`
	Website       *string          `json:"website" validate:"omitempty,url"`
	Phone         *string          `json:"phone" validate:"omitempty,max=20"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	Address       *string          `json:"address"`
	Location      *models.Location `json:"location"`
	Careers       *[]string        `json:"careers"`
	Housing       *bool            `json:"housing"`
	JobAssistance *bool            `json:"jobAssistance"`
	JobGuarantee  *bool            `json:"jobGuarantee"`
	AcceptGi      *bool            `json:"acceptGi"`
}

func (r updateBootcampReq) set() bson.M {
	set := bson.M{}
	if r.Name != nil {
		set["name"] = *r.Name
	}
	if r.Description != nil {
		set["description"] = *r.Description
	}
	if r.Website != nil {
		set["website"] = *r.Website
	}
	if r.Phone != nil {
		set["phone"] = *r.Phone
	}
	if r.Email != nil {
		set["email"] = *r.Email
	}
	if r.Address != nil {
		set["address"] = *r.Address
	}
	if r.Location != nil {
		set["location"] = *r.Location
	}
	if r.Careers != nil {
		set["careers"] = *r.Careers
	}
	if r.Housing != nil {
		set["housing"] = *r.Housing
	}
	if r.JobAssistance != nil {
		set["jobAssistance"] = *r.JobAssistance
	}
	if r.JobGuarantee != nil {
		set["jobGuarantee"] = *r.JobGuarantee
	}
	if r.AcceptGi != nil {
		set["acceptGi"] = *r.AcceptGi
	}
	return set
}

// canManageBootcamp: owner or admin.
func canManageBootcamp(u *models.User, b *models.Bootcamp) bool {
	return u.IsAdmin() || b.User == u.ID
}

// PUT /bootcamps/{bootcampID}. Owner or admin.
func (h *BootcampHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bootcampID")

	var req updateBootcampReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	existing, err := h.store.GetBootcampByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	if !canManageBootcamp(current, existing) {
		utils.WriteError(w, http.StatusForbidden, "not authorized to update this bootcamp")
		return
	}

	b, err := h.store.UpdateBootcamp(r.Context(), id, req.set())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, b)
}

// DELETE /bootcamps/{bootcampID}. Owner or admin; cascades to courses and
// reviews.
func (h *BootcampHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bootcampID")

	existing, err := h.store.GetBootcampByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	if !canManageBootcamp(current, existing) {
		utils.WriteError(w, http.StatusForbidden, "not authorized to delete this bootcamp")
		return
	}

	if err := h.store.DeleteBootcampCascade(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{})
}

// GET /bootcamps/radius/{zipcode}/{distance}. Distance in miles.
func (h *BootcampHandler) InRadius(w http.ResponseWriter, r *http.Request) {
	zipcode := chi.URLParam(r, "zipcode")
	miles, err := strconv.ParseFloat(chi.URLParam(r, "distance"), 64)
	if err != nil || miles <= 0 {
		utils.WriteError(w, http.StatusBadRequest, "distance must be a positive number of miles")
		return
	}
	bootcamps, err := h.store.BootcampsInRadius(r.Context(), zipcode, miles)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteList(w, len(bootcamps), nil, bootcamps)
}

// PUT /bootcamps/{bootcampID}/photo. Multipart "file" field, images only.
func (h *BootcampHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "bootcampID")

	existing, err := h.store.GetBootcampByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	if !canManageBootcamp(current, existing) {
		utils.WriteError(w, http.StatusForbidden, "not authorized to update this bootcamp")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "please upload a file smaller than "+strconv.FormatInt(h.maxUpload, 10)+" bytes")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "please upload a file")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		utils.WriteError(w, http.StatusBadRequest, "please upload an image file")
		return
	}

	key, err := h.photos.SaveFile(r.Context(), "bootcamp-photos", header.Filename, file)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "problem with file upload")
		return
	}
	if err := h.store.UpdateBootcampPhoto(r.Context(), id, key); err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"photo": key})
}
