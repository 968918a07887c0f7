package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Service identity reported by the health probe. Version is the API contract
// version, distinct from the build version injected via ldflags.
const (
	ServiceName    = "stackguide-go-backend"
	ServiceVersion = "1.0.0"
)

// healthResponse is the fixed liveness payload.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// health reports static service status. No inputs, no side effects,
// cannot fail.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: ServiceVersion,
	})
}

const readinessPingTimeout = 2 * time.Second

// readiness reports whether the service can do useful work: the upload
// directory state and, when a pool is configured, database connectivity with
// pool statistics. A missing upload directory is not a failure (upload
// creates it on demand).
func readiness(uploadDir string, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"status":     "ready",
			"upload_dir": uploadDir,
		}

		if _, err := os.Stat(uploadDir); err != nil {
			body["upload_dir_exists"] = false
		} else {
			body["upload_dir_exists"] = true
		}

		if pool == nil {
			body["database"] = "disabled"
			writeJSON(w, http.StatusOK, body)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readinessPingTimeout)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}

		stats := pool.Stat()
		body["database"] = map[string]any{
			"total_conns":    stats.TotalConns(),
			"idle_conns":     stats.IdleConns(),
			"acquired_conns": stats.AcquiredConns(),
		}
		writeJSON(w, http.StatusOK, body)
	}
}
