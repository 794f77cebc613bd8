package v1

import (
	"context"
	"net/http"

	"github.com/devtrail/bootcamp-api/internal/utils"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and the state of the mongo connection.
func HealthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.Ping(r.Context()); err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "database unreachable")
			return
		}
		utils.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
