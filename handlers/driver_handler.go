package handlers

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/middleware"
	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/repositories"
	"github.com/fleetdeskhq/fleetdesk/services/drivers"
	"github.com/fleetdeskhq/fleetdesk/utils"
)

// RedactedLicenseNumber replaces license numbers for read-only callers
const RedactedLicenseNumber = "•••"

// DriverService defines the driver operations the handler needs
type DriverService interface {
	List(ctx context.Context, filter repositories.ListFilter) ([]*models.Driver, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	Create(ctx context.Context, input drivers.CreateDriverInput) (*models.Driver, error)
	Update(ctx context.Context, id uuid.UUID, input drivers.UpdateDriverInput) (*models.Driver, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DriverResponse is a Driver shaped for API responses. The license
// number is only included for callers who could also edit the driver;
// everyone else sees a redaction marker.
type DriverResponse struct {
	ID            uuid.UUID           `json:"id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	LicenseNumber string              `json:"license_number"`
	Status        models.DriverStatus `json:"status"`
	VehicleID     *uuid.UUID          `json:"vehicle_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// DriverHandler handles driver management HTTP requests
type DriverHandler struct {
	svc         DriverService
	audit       Auditor
	licenseGate authz.Gate[string]
	logger      *zap.Logger
}

// NewDriverHandler creates a new DriverHandler
func NewDriverHandler(svc DriverService, audit Auditor, logger *zap.Logger) *DriverHandler {
	return &DriverHandler{
		svc:   svc,
		audit: audit,
		licenseGate: authz.NewGate[string](authz.ResourceDrivers, authz.ActionWrite).
			WithFallback(RedactedLicenseNumber),
		logger: logger,
	}
}

// HandleList handles GET /api/v1/drivers
func (h *DriverHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.svc.List(ctx, parseListFilter(r))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	session := middleware.SessionFromContext(ctx)
	out := make([]DriverResponse, 0, len(list))
	for _, driver := range list {
		out = append(out, h.toResponse(ctx, session, driver))
	}
	_ = utils.WriteOK(w, out)
}

// HandleGet handles GET /api/v1/drivers/{id}
func (h *DriverHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	ctx := r.Context()
	driver, err := h.svc.Get(ctx, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, h.toResponse(ctx, middleware.SessionFromContext(ctx), driver))
}

// HandleCreate handles POST /api/v1/drivers
func (h *DriverHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input drivers.CreateDriverInput
	if err := decodeJSON(r, &input); err != nil {
		handleDecodeError(w, err)
		return
	}

	ctx := r.Context()
	driver, err := h.svc.Create(ctx, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.recordMutation(ctx, authz.ActionCreate, driver.ID)
	_ = utils.WriteCreated(w, h.toResponse(ctx, middleware.SessionFromContext(ctx), driver))
}

// HandleUpdate handles PUT /api/v1/drivers/{id}
func (h *DriverHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	var input drivers.UpdateDriverInput
	if err := decodeJSON(r, &input); err != nil {
		handleDecodeError(w, err)
		return
	}

	ctx := r.Context()
	driver, err := h.svc.Update(ctx, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.recordMutation(ctx, authz.ActionWrite, driver.ID)
	_ = utils.WriteOK(w, h.toResponse(ctx, middleware.SessionFromContext(ctx), driver))
}

// HandleDelete handles DELETE /api/v1/drivers/{id}
func (h *DriverHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

func (h *DriverHandler) toResponse(ctx context.Context, session *authz.Session, driver *models.Driver) DriverResponse {
	return DriverResponse{
		ID:            driver.ID,
		Name:          driver.Name,
		Email:         driver.Email,
		Phone:         driver.Phone,
		LicenseNumber: h.licenseGate.Select(ctx, session, driver.LicenseNumber),
		Status:        driver.Status,
		VehicleID:     driver.VehicleID,
		CreatedAt:     driver.CreatedAt,
		UpdatedAt:     driver.UpdatedAt,
	}
}

func (h *DriverHandler) recordMutation(ctx context.Context, action authz.Action, id uuid.UUID) {
	if h.audit == nil {
		return
	}
	session := middleware.SessionFromContext(ctx)
	h.audit.RecordAllowed(ctx, session.Subject(), authz.ResourceDrivers, action, id, chimw.GetReqID(ctx))
}
