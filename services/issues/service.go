// Package issues manages reported problems against vehicles and
// drivers.
package issues

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

// CreateIssueInput holds the fields needed to open an issue. At least
// one of VehicleID or DriverID should point at the thing the issue is
// about, but neither is required.
type CreateIssueInput struct {
	Title       string               `json:"title" validate:"required,min=3,max=255"`
	Description string               `json:"description" validate:"max=4000"`
	Priority    models.IssuePriority `json:"priority" validate:"required,oneof=low normal high critical"`
	VehicleID   *uuid.UUID           `json:"vehicle_id,omitempty"`
	DriverID    *uuid.UUID           `json:"driver_id,omitempty"`
}

// UpdateIssueInput holds the mutable fields of an issue. Nil fields
// are left unchanged.
type UpdateIssueInput struct {
	Title       *string               `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description *string               `json:"description,omitempty" validate:"omitempty,max=4000"`
	Priority    *models.IssuePriority `json:"priority,omitempty" validate:"omitempty,oneof=low normal high critical"`
	Status      *models.IssueStatus   `json:"status,omitempty" validate:"omitempty,oneof=open in_progress resolved closed"`
}

// Service handles issue tracking
type Service struct {
	repo     repositories.IssueRepository
	vehicles repositories.VehicleRepository
	drivers  repositories.DriverRepository
	logger   *zap.Logger
}

// NewService creates a new issue service
func NewService(repo repositories.IssueRepository, vehicles repositories.VehicleRepository, drivers repositories.DriverRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		vehicles: vehicles,
		drivers:  drivers,
		logger:   logger,
	}
}

// List returns issues matching the filter
func (s *Service) List(ctx context.Context, filter repositories.ListFilter) ([]*models.Issue, error) {
	issues, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("failed to list issues", err)
	}
	return issues, nil
}

// Get returns a single issue by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	issue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrIssueNotFound
		}
		return nil, services.WrapInternal("failed to get issue", err)
	}
	return issue, nil
}

// Create opens a new issue reported by the given account. Vehicle and
// driver references, when present, must exist.
func (s *Service) Create(ctx context.Context, reportedBy uuid.UUID, input CreateIssueInput) (*models.Issue, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	if input.VehicleID != nil {
		if _, err := s.vehicles.GetByID(ctx, *input.VehicleID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, services.ErrVehicleNotFound
			}
			return nil, services.WrapInternal("failed to check vehicle", err)
		}
	}
	if input.DriverID != nil {
		if _, err := s.drivers.GetByID(ctx, *input.DriverID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, services.ErrDriverNotFound
			}
			return nil, services.WrapInternal("failed to check driver", err)
		}
	}

	issue := models.NewIssue(input.Title, input.Description, input.Priority, reportedBy)
	issue.VehicleID = input.VehicleID
	issue.DriverID = input.DriverID

	if err := s.repo.Create(ctx, issue); err != nil {
		return nil, services.WrapInternal("failed to create issue", err)
	}

	s.logger.Info("issue created",
		zap.String("issue_id", issue.ID.String()),
		zap.String("priority", string(issue.Priority)))

	return issue, nil
}

// Update applies the non-nil fields of input to an existing issue
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateIssueInput) (*models.Issue, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	issue, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		issue.Title = *input.Title
	}
	if input.Description != nil {
		issue.Description = *input.Description
	}
	if input.Priority != nil {
		issue.Priority = *input.Priority
	}
	if input.Status != nil {
		issue.Status = *input.Status
	}
	issue.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, issue); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrIssueNotFound
		}
		return nil, services.WrapInternal("failed to update issue", err)
	}

	return issue, nil
}

// Delete soft-deletes an issue
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrIssueNotFound
		}
		return services.WrapInternal("failed to delete issue", err)
	}

	s.logger.Info("issue deleted", zap.String("issue_id", id.String()))
	return nil
}
