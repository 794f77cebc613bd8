package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/devtrail/bootcamp-api/internal/auth"
	"github.com/devtrail/bootcamp-api/internal/config"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/service"
	"github.com/devtrail/bootcamp-api/internal/store"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

type AuthHandler struct {
	cfg *config.Config
	svc *service.UserService
}

func NewAuthHandler(cfg *config.Config, svc *service.UserService) *AuthHandler {
	return &AuthHandler{cfg: cfg, svc: svc}
}

type registerReq struct {
	Name     string      `json:"name" validate:"required,max=50"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=user publisher"`
}

// POST /auth/register. Self-service signup; admin accounts are created by
// admins through /users.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
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
	h.sendTokenResponse(w, http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	h.sendTokenResponse(w, http.StatusOK, u)
}

// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	current := auth.GetUserFromCtx(r.Context())
	utils.WriteSuccess(w, http.StatusOK, current)
}

// sendTokenResponse issues the JWT both in the body and as an httpOnly
// cookie so browser and API clients work the same way.
func (h *AuthHandler) sendTokenResponse(w http.ResponseWriter, status int, u *models.User) {
	token, err := auth.GenerateAccessToken(h.cfg, u.ID.Hex(), string(u.Role))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "server error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.cfg.AccessTokenTTL),
	})
	utils.WriteSuccess(w, status, map[string]interface{}{"token": token, "user": u})
}
