package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/utils"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	db      HealthChecker
	version string
	logger  *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker, version string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
		logger:  logger,
	}
}

// HealthResponse is the response body for the health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// HandleHealthz handles GET /healthz; it only says the process is up
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// HandleReadyz handles GET /readyz; it checks the database too
func (h *HealthHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.HealthCheck(r.Context()); err != nil {
			h.logger.Warn("readiness check failed", zap.Error(err))
			_ = utils.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "degraded",
			})
			return
		}
	}
	_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "ready",
		Version: h.version,
	})
}
