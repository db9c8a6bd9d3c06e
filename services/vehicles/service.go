// Package vehicles manages the fleet vehicle inventory.
package vehicles

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/repositories"
	"github.com/fleetdeskhq/fleetdesk/services"
	"github.com/fleetdeskhq/fleetdesk/utils"
)

// CreateVehicleInput holds the fields needed to register a vehicle
type CreateVehicleInput struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	Registration string `json:"registration" validate:"required,min=2,max=32"`
	Model        string `json:"model" validate:"required,min=1,max=255"`
	Year         int    `json:"year" validate:"required,gte=1980,lte=2100"`
}

// UpdateVehicleInput holds the mutable fields of a vehicle. Nil fields
// are left unchanged.
type UpdateVehicleInput struct {
	Name         *string               `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Registration *string               `json:"registration,omitempty" validate:"omitempty,min=2,max=32"`
	Model        *string               `json:"model,omitempty" validate:"omitempty,min=1,max=255"`
	Year         *int                  `json:"year,omitempty" validate:"omitempty,gte=1980,lte=2100"`
	Status       *models.VehicleStatus `json:"status,omitempty" validate:"omitempty,oneof=available assigned maintenance retired"`
}

// Service handles vehicle inventory management
type Service struct {
	repo   repositories.VehicleRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewService creates a new vehicle service
func NewService(repo repositories.VehicleRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		txMgr:  txMgr,
		logger: logger,
	}
}

// List returns vehicles matching the filter
func (s *Service) List(ctx context.Context, filter repositories.ListFilter) ([]*models.Vehicle, error) {
	vehicles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("failed to list vehicles", err)
	}
	return vehicles, nil
}

// Get returns a single vehicle by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	vehicle, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrVehicleNotFound
		}
		return nil, services.WrapInternal("failed to get vehicle", err)
	}
	return vehicle, nil
}

// Create registers a new vehicle. The registration plate must be
// unique among non-deleted vehicles.
func (s *Service) Create(ctx context.Context, input CreateVehicleInput) (*models.Vehicle, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	vehicle := models.NewVehicle(input.Name, input.Registration, input.Model, input.Year)

	// The uniqueness check and the insert must see the same state, so
	// both run on one transaction.
	err := s.txMgr.InTransaction(ctx, func(ctx context.Context, tx repositories.Transaction) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.GetByRegistration(ctx, input.Registration); err == nil {
			return services.ErrDuplicateRegistration
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return services.WrapInternal("failed to check registration", err)
		}

		if err := repo.Create(ctx, vehicle); err != nil {
			return services.WrapInternal("failed to create vehicle", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vehicle created",
		zap.String("vehicle_id", vehicle.ID.String()),
		zap.String("registration", vehicle.Registration))

	return vehicle, nil
}

// Update applies the non-nil fields of input to an existing vehicle
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateVehicleInput) (*models.Vehicle, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Registration != nil && *input.Registration != vehicle.Registration {
		existing, err := s.repo.GetByRegistration(ctx, *input.Registration)
		if err == nil && existing.ID != vehicle.ID {
			return nil, services.ErrDuplicateRegistration
		}
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, services.WrapInternal("failed to check registration", err)
		}
		vehicle.Registration = *input.Registration
	}
	if input.Name != nil {
		vehicle.Name = *input.Name
	}
	if input.Model != nil {
		vehicle.Model = *input.Model
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.Status != nil {
		vehicle.Status = *input.Status
	}
	vehicle.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, vehicle); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrVehicleNotFound
		}
		return nil, services.WrapInternal("failed to update vehicle", err)
	}

	return vehicle, nil
}

// Delete soft-deletes a vehicle
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrVehicleNotFound
		}
		return services.WrapInternal("failed to delete vehicle", err)
	}

	s.logger.Info("vehicle deleted", zap.String("vehicle_id", id.String()))
	return nil
}
