package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/utils"
)

// AuditService defines the audit trail reads the handler needs
type AuditService interface {
	List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
	ListBySubject(ctx context.Context, subject string, limit, offset int) ([]*models.AuditLog, error)
}

// AuditHandler handles audit trail HTTP requests
type AuditHandler struct {
	svc    AuditService
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(svc AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		svc:    svc,
		logger: logger,
	}
}

// HandleList handles GET /api/v1/audit-logs. An optional subject query
// parameter narrows the trail to a single account.
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parsePositiveInt(query.Get("limit"), 100)
	offset := parsePositiveInt(query.Get("offset"), 0)

	var (
		entries []*models.AuditLog
		err     error
	)
	if subject := query.Get("subject"); subject != "" {
		entries, err = h.svc.ListBySubject(r.Context(), subject, limit, offset)
	} else {
		entries, err = h.svc.List(r.Context(), limit, offset)
	}
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, entries)
}

func parsePositiveInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
