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
	"github.com/fleetdeskhq/fleetdesk/services/users"
	"github.com/fleetdeskhq/fleetdesk/utils"
)

// UserService defines the account operations the handler needs
type UserService interface {
	List(ctx context.Context, filter repositories.ListFilter) ([]*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, input users.CreateUserInput) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, input users.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserHandler handles account management HTTP requests
type UserHandler struct {
	svc    UserService
	audit  Auditor
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(svc UserService, audit Auditor, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		audit:  audit,
		logger: logger,
	}
}

// HandleList handles GET /api/v1/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), parseListFilter(r))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, list)
}

// HandleGet handles GET /api/v1/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	user, err := h.svc.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, user)
}

// HandleCreate handles POST /api/v1/users
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input users.CreateUserInput
	if err := decodeJSON(r, &input); err != nil {
		handleDecodeError(w, err)
		return
	}

	ctx := r.Context()
	user, err := h.svc.Create(ctx, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.recordMutation(ctx, authz.ActionCreate, user.ID)
	_ = utils.WriteCreated(w, user)
}

// HandleUpdate handles PUT /api/v1/users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	var input users.UpdateUserInput
	if err := decodeJSON(r, &input); err != nil {
		handleDecodeError(w, err)
		return
	}

	ctx := r.Context()
	user, err := h.svc.Update(ctx, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.recordMutation(ctx, authz.ActionWrite, user.ID)
	_ = utils.WriteOK(w, user)
}

// HandleDelete handles DELETE /api/v1/users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

func (h *UserHandler) recordMutation(ctx context.Context, action authz.Action, id uuid.UUID) {
	if h.audit == nil {
		return
	}
	session := middleware.SessionFromContext(ctx)
	h.audit.RecordAllowed(ctx, session.Subject(), authz.ResourceUsers, action, id, chimw.GetReqID(ctx))
}
