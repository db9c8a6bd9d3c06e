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
	"github.com/fleetdeskhq/fleetdesk/services/vehicles"
	"github.com/fleetdeskhq/fleetdesk/utils"
)

// VehicleService defines the vehicle operations the handler needs
type VehicleService interface {
	List(ctx context.Context, filter repositories.ListFilter) ([]*models.Vehicle, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	Create(ctx context.Context, input vehicles.CreateVehicleInput) (*models.Vehicle, error)
	Update(ctx context.Context, id uuid.UUID, input vehicles.UpdateVehicleInput) (*models.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VehicleHandler handles vehicle inventory HTTP requests
type VehicleHandler struct {
	svc    VehicleService
	audit  Auditor
	logger *zap.Logger
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(svc VehicleService, audit Auditor, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		svc:    svc,
		audit:  audit,
		logger: logger,
	}
}

// HandleList handles GET /api/v1/vehicles
func (h *VehicleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), parseListFilter(r))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, list)
}

// HandleGet handles GET /api/v1/vehicles/{id}
func (h *VehicleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	vehicle, err := h.svc.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, vehicle)
}

// HandleCreate handles POST /api/v1/vehicles
func (h *VehicleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input vehicles.CreateVehicleInput
	if err := decodeJSON(r, &input); err != nil {
		handleDecodeError(w, err)
		return
	}

	ctx := r.Context()
	vehicle, err := h.svc.Create(ctx, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.recordMutation(ctx, authz.ActionCreate, vehicle.ID)
	_ = utils.WriteCreated(w, vehicle)
}

// HandleUpdate handles PUT /api/v1/vehicles/{id}
func (h *VehicleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	var input vehicles.UpdateVehicleInput
	if err := decodeJSON(r, &input); err != nil {
		handleDecodeError(w, err)
		return
	}

	ctx := r.Context()
	vehicle, err := h.svc.Update(ctx, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.recordMutation(ctx, authz.ActionWrite, vehicle.ID)
	_ = utils.WriteOK(w, vehicle)
}

// HandleDelete handles DELETE /api/v1/vehicles/{id}
func (h *VehicleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

func (h *VehicleHandler) recordMutation(ctx context.Context, action authz.Action, id uuid.UUID) {
	if h.audit == nil {
		return
	}
	session := middleware.SessionFromContext(ctx)
	h.audit.RecordAllowed(ctx, session.Subject(), authz.ResourceVehicles, action, id, chimw.GetReqID(ctx))
}
