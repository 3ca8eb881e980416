// AngelaMos | 2026
// handler.go

package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/billforge/internal/core"
)

type Handler struct {
	db      *core.Database
	redis   *core.Redis
	started time.Time
	version string
}

func NewHandler(db *core.Database, redis *core.Redis, version string) *Handler {
	return &Handler{
		db:      db,
		redis:   redis,
		started: time.Now(),
		version: version,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Liveness)
	r.Get("/health/ready", h.Readiness)
}

type status struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	core.OK(w, status{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}

// Readiness checks the dependencies a request actually needs. Any
// failing probe flips the whole endpoint to 503.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, 2)
	healthy := true

	if err := h.db.Ping(r.Context()); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if err := h.redis.Ping(r.Context()); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	body := status{
		Status:  "ready",
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Checks:  checks,
	}

	if !healthy {
		body.Status = "degraded"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		//nolint:errcheck // best-effort response write
		_ = json.NewEncoder(w).Encode(body)
		return
	}

	core.OK(w, body)
}
