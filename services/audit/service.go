// Package audit records permission decisions and mutations so that
// administrators can reconstruct who did what, and what was refused.
package audit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/repositories"
)

// Service writes audit log entries. Recording is best-effort: a failed
// audit write is logged but never fails the operation being audited.
type Service struct {
	repo   repositories.AuditRepository
	logger *zap.Logger
}

// NewService creates a new audit service
func NewService(repo repositories.AuditRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// RecordAllowed records a permitted mutation against a specific resource.
func (s *Service) RecordAllowed(ctx context.Context, subject string, resource authz.Resource, action authz.Action, resourceID uuid.UUID, requestID string) {
	entry := models.NewAuditLog(subject, resource, action, models.AuditOutcomeAllowed).
		WithResourceID(resourceID).
		WithRequestID(requestID)
	s.insert(ctx, entry)
}

// RecordDenial records a permission denial. It satisfies the denial
// recorder contract used by the permission middleware.
func (s *Service) RecordDenial(ctx context.Context, subject string, resource authz.Resource, action authz.Action, requestID string) {
	entry := models.NewAuditLog(subject, resource, action, models.AuditOutcomeDenied).
		WithRequestID(requestID)
	s.insert(ctx, entry)
}

// List returns audit entries, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListBySubject returns audit entries for a single subject, newest first.
func (s *Service) ListBySubject(ctx context.Context, subject string, limit, offset int) ([]*models.AuditLog, error) {
	return s.repo.GetBySubject(ctx, subject, limit, offset)
}

func (s *Service) insert(ctx context.Context, entry *models.AuditLog) {
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Error("failed to write audit entry",
			zap.String("subject", entry.Subject),
			zap.String("resource", entry.Resource.String()),
			zap.String("action", entry.Action.String()),
			zap.String("outcome", string(entry.Outcome)),
			zap.Error(err))
	}
}
