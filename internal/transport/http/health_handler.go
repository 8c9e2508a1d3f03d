package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler handles liveness requests
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a health handler reporting the given version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Timestamp: time.Now().UTC(),
	})
}
