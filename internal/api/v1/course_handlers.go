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

type CourseStore interface {
	ListCourses(ctx context.Context, opts store.ListOptions) ([]models.Course, int64, error)
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	CreateCourse(ctx context.Context, c *models.Course) error
	UpdateCourse(ctx context.Context, id string, set bson.M) (*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	GetBootcampByID(ctx context.Context, id string) (*models.Bootcamp, error)
}

type CourseHandler struct {
	store CourseStore
}

func NewCourseHandler(s CourseStore) *CourseHandler {
	return &CourseHandler{store: s}
}

// List serves GET /courses and GET /bootcamps/{bootcampID}/courses; the
// nested form scopes the filter to the parent.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := ParseListOptions(r.URL.Query())
	if bootcampID := chi.URLParam(r, "bootcampID"); bootcampID != "" {
		parent, err := h.store.GetBootcampByID(r.Context(), bootcampID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		opts.Filter["bootcamp"] = parent.ID
	}
	courses, total, err := h.store.ListCourses(r.Context(), opts)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteList(w, len(courses), paginationFor(opts, total), courses)
}

// GET /courses/{id}
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCourseByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, c)
}

type createCourseReq struct {
	Title                string  `json:"title" validate:"required,max=100"`
	Description          string  `json:"description" validate:"required"`
	Weeks                int     `json:"weeks" validate:"required,min=1"`
	Tuition              float64 `json:"tuition" validate:"required,min=0"`
	MinimumSkill         string  `json:"minimumSkill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
}

// POST /bootcamps/{bootcampID}/courses. Owner of the parent bootcamp or
// admin.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	parent, err := h.store.GetBootcampByID(r.Context(), chi.URLParam(r, "bootcampID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	if !canManageBootcamp(current, parent) {
		utils.WriteError(w, http.StatusForbidden, "not authorized to add a course to this bootcamp")
		return
	}

	var req createCourseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	c := &models.Course{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
		Bootcamp:             parent.ID,
		User:                 current.ID,
	}
	if err := h.store.CreateCourse(r.Context(), c); err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, c)
}

type updateCourseReq struct {
	Title                *string  `json:"title" validate:"omitempty,max=100"`
	Description          *string  `json:"description"`
	Weeks                *int     `json:"weeks" validate:"omitempty,min=1"`
	Tuition              *float64 `json:"tuition" validate:"omitempty,min=0"`
	MinimumSkill         *string  `json:"minimumSkill" validate:"omitempty,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

func (r updateCourseReq) set() bson.M {
	set := bson.M{}
	if r.Title != nil {
		set["title"] = *r.Title
	}
	if r.Description != nil {
		set["description"] = *r.Description
	}
	if r.Weeks != nil {
		set["weeks"] = *r.Weeks
	}
	if r.Tuition != nil {
		set["tuition"] = *r.Tuition
	}
	if r.MinimumSkill != nil {
		set["minimumSkill"] = *r.MinimumSkill
	}
	if r.ScholarshipAvailable != nil {
		set["scholarshipAvailable"] = *r.ScholarshipAvailable
	}
	return set
}

func canManageCourse(u *models.User, c *models.Course) bool {
	return u.IsAdmin() || c.User == u.ID
}

// PUT /courses/{id}. Owner or admin.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateCourseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	existing, err := h.store.GetCourseByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	if !canManageCourse(current, existing) {
		utils.WriteError(w, http.StatusForbidden, "not authorized to update this course")
		return
	}

	c, err := h.store.UpdateCourse(r.Context(), id, req.set())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, c)
}

// DELETE /courses/{id}. Owner or admin.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.store.GetCourseByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	current := auth.GetUserFromCtx(r.Context())
	if !canManageCourse(current, existing) {
		utils.WriteError(w, http.StatusForbidden, "not authorized to delete this course")
		return
	}

	if err := h.store.DeleteCourse(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{})
}
