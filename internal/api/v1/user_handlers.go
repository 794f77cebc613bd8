package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/service"
	"github.com/devtrail/bootcamp-api/internal/store"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

type UserStore interface {
	ListUsers(ctx context.Context, opts store.ListOptions) ([]models.User, int64, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, set bson.M) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UserHandler is the admin-only account CRUD surface.
type UserHandler struct {
	store UserStore
	svc   *service.UserService
}

func NewUserHandler(s UserStore, svc *service.UserService) *UserHandler {
	return &UserHandler{store: s, svc: svc}
}

// GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := ParseListOptions(r.URL.Query())
	users, total, err := h.store.ListUsers(r.Context(), opts)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteList(w, len(users), paginationFor(opts, total), users)
}

// GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, u)
}

type createUserReq struct {
	Name     string      `json:"name" validate:"required,max=50"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

// POST /users. Admins may create accounts with any role.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	u, err := h.svc.CreateUser(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if store.IsDuplicateKey(err) {
			utils.WriteError(w, http.StatusBadRequest, "an account with that email already exists")
			return
		}
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, u)
}

type updateUserReq struct {
	Name     *string      `json:"name" validate:"omitempty,max=50"`
	Email    *string      `json:"email" validate:"omitempty,email"`
	Password *string      `json:"password" validate:"omitempty,min=6"`
	Role     *models.Role `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

// PUT /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Role != nil {
		set["role"] = *req.Role
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "server error")
			return
		}
		set["password"] = hash
	}

	u, err := h.store.UpdateUser(r.Context(), id, set)
	if err != nil {
		if store.IsDuplicateKey(err) {
			utils.WriteError(w, http.StatusBadRequest, "an account with that email already exists")
			return
		}
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, u)
}

// DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{})
}
