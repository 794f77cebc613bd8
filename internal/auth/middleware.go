package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/devtrail/bootcamp-api/internal/config"
	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

type ctxKey string

const ctxUserKey ctxKey = "currentUser"

// UserGetter is the slice of the store the middleware needs to resolve a
// token's account.
type UserGetter interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

func GetUserFromCtx(ctx context.Context) *models.User {
	if u, ok := ctx.Value(ctxUserKey).(*models.User); ok {
		return u
	}
	return nil
}

// WithUser returns ctx carrying u; handler tests use it to simulate an
// authenticated request.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

// tokenFromRequest reads the bearer token from the Authorization header,
// falling back to the "token" cookie.
func tokenFromRequest(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}

// Middleware validates the JWT, loads the account and sets it in context.
func Middleware(cfg *config.Config, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				utils.WriteError(w, http.StatusUnauthorized, "not authorized to access this route")
				return
			}
			claims, err := ParseAndValidateToken(cfg, token)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "not authorized to access this route")
				return
			}
			u, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "not authorized to access this route")
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles allows only accounts whose role is in the given set; usage:
// RequireRoles(models.RolePublisher, models.RoleAdmin).
func RequireRoles(allowed ...models.Role) func(http.Handler) http.Handler {
	set := map[models.Role]struct{}{}
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := GetUserFromCtx(r.Context())
			if u == nil {
				utils.WriteError(w, http.StatusUnauthorized, "not authorized to access this route")
				return
			}
			if _, ok := set[u.Role]; !ok {
				utils.WriteError(w, http.StatusForbidden, "user role "+string(u.Role)+" is not authorized to access this route")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
