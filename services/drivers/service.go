// Package drivers manages fleet driver records and their vehicle
// assignments.
package drivers

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

// CreateDriverInput holds the fields needed to register a driver
type CreateDriverInput struct {
	Name          string     `json:"name" validate:"required,min=2,max=255"`
	Email         string     `json:"email" validate:"required,email"`
	Phone         string     `json:"phone" validate:"omitempty,min=7,max=32"`
	LicenseNumber string     `json:"license_number" validate:"required,min=4,max=64"`
	VehicleID     *uuid.UUID `json:"vehicle_id,omitempty"`
}

// UpdateDriverInput holds the mutable fields of a driver. Nil fields
// are left unchanged; AssignVehicle with a nil UUID clears the
// assignment.
type UpdateDriverInput struct {
	Name          *string              `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email         *string              `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string              `json:"phone,omitempty" validate:"omitempty,min=7,max=32"`
	LicenseNumber *string              `json:"license_number,omitempty" validate:"omitempty,min=4,max=64"`
	Status        *models.DriverStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
	VehicleID     *uuid.UUID           `json:"vehicle_id,omitempty"`
	ClearVehicle  bool                 `json:"clear_vehicle,omitempty"`
}

// Service handles driver record management
type Service struct {
	repo     repositories.DriverRepository
	vehicles repositories.VehicleRepository
	logger   *zap.Logger
}

// NewService creates a new driver service
func NewService(repo repositories.DriverRepository, vehicles repositories.VehicleRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		vehicles: vehicles,
		logger:   logger,
	}
}

// List returns drivers matching the filter
func (s *Service) List(ctx context.Context, filter repositories.ListFilter) ([]*models.Driver, error) {
	drivers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("failed to list drivers", err)
	}
	return drivers, nil
}

// Get returns a single driver by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	driver, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrDriverNotFound
		}
		return nil, services.WrapInternal("failed to get driver", err)
	}
	return driver, nil
}

// Create registers a new driver. A vehicle assignment, when given,
// must reference an existing vehicle.
func (s *Service) Create(ctx context.Context, input CreateDriverInput) (*models.Driver, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	if input.VehicleID != nil {
		if err := s.checkVehicle(ctx, *input.VehicleID); err != nil {
			return nil, err
		}
	}

	driver := models.NewDriver(input.Name, input.Email, input.Phone, input.LicenseNumber)
	driver.VehicleID = input.VehicleID

	if err := s.repo.Create(ctx, driver); err != nil {
		return nil, services.WrapInternal("failed to create driver", err)
	}

	s.logger.Info("driver created", zap.String("driver_id", driver.ID.String()))
	return driver, nil
}

// Update applies the non-nil fields of input to an existing driver
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateDriverInput) (*models.Driver, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	driver, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		driver.Name = *input.Name
	}
	if input.Email != nil {
		driver.Email = *input.Email
	}
	if input.Phone != nil {
		driver.Phone = *input.Phone
	}
	if input.LicenseNumber != nil {
		driver.LicenseNumber = *input.LicenseNumber
	}
	if input.Status != nil {
		driver.Status = *input.Status
	}
	if input.ClearVehicle {
		driver.VehicleID = nil
	} else if input.VehicleID != nil {
		if err := s.checkVehicle(ctx, *input.VehicleID); err != nil {
			return nil, err
		}
		driver.VehicleID = input.VehicleID
	}
	driver.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, driver); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrDriverNotFound
		}
		return nil, services.WrapInternal("failed to update driver", err)
	}

	return driver, nil
}

// Delete soft-deletes a driver
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrDriverNotFound
		}
		return services.WrapInternal("failed to delete driver", err)
	}

	s.logger.Info("driver deleted", zap.String("driver_id", id.String()))
	return nil
}

func (s *Service) checkVehicle(ctx context.Context, id uuid.UUID) error {
	if _, err := s.vehicles.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrVehicleNotFound
		}
		return services.WrapInternal("failed to check vehicle", err)
	}
	return nil
}
