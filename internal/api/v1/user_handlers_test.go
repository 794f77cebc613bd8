package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devtrail/bootcamp-api/internal/auth"
	"github.com/devtrail/bootcamp-api/internal/config"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/service"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", AccessTokenTTL: time.Hour}
}

// userRouter wires the admin-only account routes through the real access
// gate, exactly as routes.go does.
func userRouter(f *fakeStore, cfg *config.Config) *chi.Mux {
	h := NewUserHandler(f, service.NewUserService(f))
	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Use(auth.Middleware(cfg, f), auth.RequireRoles(models.RoleAdmin))
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func bearerRequest(t *testing.T, cfg *config.Config, method, target string, body []byte, u *models.User) *http.Request {
	t.Helper()
	req := authedRequest(method, target, body, nil)
	if u != nil {
		token, err := auth.GenerateAccessToken(cfg, u.ID.Hex(), string(u.Role))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestUsersRouteWithoutToken(t *testing.T) {
	cfg := testConfig()
	r := userRouter(newFakeStore(), cfg)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
}

func TestUsersRouteWithNonAdminToken(t *testing.T) {
	cfg := testConfig()
	f := newFakeStore()
	publisher := f.addUser(models.RolePublisher)
	r := userRouter(f, cfg)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, bearerRequest(t, cfg, http.MethodGet, "/users", nil, publisher))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCreatesUser(t *testing.T) {
	cfg := testConfig()
	f := newFakeStore()
	admin := f.addUser(models.RoleAdmin)
	r := userRouter(f, cfg)

	body := []byte(`{"name":"New Person","email":"new@example.com","password":"hunter22","role":"publisher"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, bearerRequest(t, cfg, http.MethodPost, "/users", body, admin))

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	var created models.User
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.RolePublisher, created.Role)
	assert.False(t, created.ID.IsZero())
	// the hash must never serialize
	assert.NotContains(t, rec.Body.String(), "hunter22")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAdminCreatesDuplicateEmail(t *testing.T) {
	cfg := testConfig()
	f := newFakeStore()
	admin := f.addUser(models.RoleAdmin)
	r := userRouter(f, cfg)

	body := []byte(`{"name":"A","email":"dup@example.com","password":"hunter22"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, bearerRequest(t, cfg, http.MethodPost, "/users", body, admin))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, bearerRequest(t, cfg, http.MethodPost, "/users", body, admin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Error, "already exists")
}

func TestAdminDeletesUser(t *testing.T) {
	cfg := testConfig()
	f := newFakeStore()
	admin := f.addUser(models.RoleAdmin)
	victim := f.addUser(models.RoleUser)
	r := userRouter(f, cfg)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, bearerRequest(t, cfg, http.MethodDelete, "/users/"+victim.ID.Hex(), nil, admin))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.JSONEq(t, "{}", string(env.Data))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, bearerRequest(t, cfg, http.MethodGet, "/users/"+victim.ID.Hex(), nil, admin))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminUpdatesUserRole(t *testing.T) {
	cfg := testConfig()
	f := newFakeStore()
	admin := f.addUser(models.RoleAdmin)
	target := f.addUser(models.RoleUser)
	r := userRouter(f, cfg)

	body := []byte(`{"role":"publisher"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, bearerRequest(t, cfg, http.MethodPut, "/users/"+target.ID.Hex(), body, admin))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	var got models.User
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, models.RolePublisher, got.Role)
}

func TestUpdateUnknownUser(t *testing.T) {
	cfg := testConfig()
	f := newFakeStore()
	admin := f.addUser(models.RoleAdmin)
	r := userRouter(f, cfg)

	body := []byte(`{"name":"Ghost"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, bearerRequest(t, cfg, http.MethodPut, "/users/"+primitive.NewObjectID().Hex(), body, admin))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
