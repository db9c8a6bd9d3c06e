package handlers

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/middleware"
	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/repositories"
	"github.com/fleetdeskhq/fleetdesk/services/issues"
	"github.com/fleetdeskhq/fleetdesk/utils"
)

// IssueService defines the issue operations the handler needs
type IssueService interface {
	List(ctx context.Context, filter repositories.ListFilter) ([]*models.Issue, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	Create(ctx context.Context, reportedBy uuid.UUID, input issues.CreateIssueInput) (*models.Issue, error)
	Update(ctx context.Context, id uuid.UUID, input issues.UpdateIssueInput) (*models.Issue, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IssueHandler handles issue tracking HTTP requests
type IssueHandler struct {
	svc    IssueService
	audit  Auditor
	logger *zap.Logger
}

// NewIssueHandler creates a new IssueHandler
func NewIssueHandler(svc IssueService, audit Auditor, logger *zap.Logger) *IssueHandler {
	return &IssueHandler{
		svc:    svc,
		audit:  audit,
		logger: logger,
	}
}

// HandleList handles GET /api/v1/issues
func (h *IssueHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), parseListFilter(r))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, list)
}

// HandleGet handles GET /api/v1/issues/{id}
func (h *IssueHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	issue, err := h.svc.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, issue)
}

// HandleCreate handles POST /api/v1/issues. The reporter is always the
// authenticated caller, never taken from the request body.
func (h *IssueHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input issues.CreateIssueInput
	if err := decodeJSON(r, &input); err != nil {
		handleDecodeError(w, err)
		return
	}

	ctx := r.Context()
	session := middleware.SessionFromContext(ctx)
	reporter, err := utils.ParseUUID(session.Subject())
	if err != nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	issue, err := h.svc.Create(ctx, reporter, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.recordMutation(ctx, authz.ActionCreate, issue.ID)
	_ = utils.WriteCreated(w, issue)
}

// HandleUpdate handles PUT /api/v1/issues/{id}
func (h *IssueHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	var input issues.UpdateIssueInput
	if err := decodeJSON(r, &input); err != nil {
		handleDecodeError(w, err)
		return
	}

	ctx := r.Context()
	issue, err := h.svc.Update(ctx, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.recordMutation(ctx, authz.ActionWrite, issue.ID)
	_ = utils.WriteOK(w, issue)
}

// HandleDelete handles DELETE /api/v1/issues/{id}
func (h *IssueHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	ctx := r.Context()
	if err := h.svc.Delete(ctx, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.recordMutation(ctx, authz.ActionDelete, id)
	utils.WriteNoContent(w)
}

func (h *IssueHandler) recordMutation(ctx context.Context, action authz.Action, id uuid.UUID) {
	if h.audit == nil {
		return
	}
	session := middleware.SessionFromContext(ctx)
	h.audit.RecordAllowed(ctx, session.Subject(), authz.ResourceIssues, action, id, chimw.GetReqID(ctx))
}
