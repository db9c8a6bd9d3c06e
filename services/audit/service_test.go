package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/models"
)

type fakeAuditRepo struct {
	entries   []*models.AuditLog
	insertErr error
}

func (f *fakeAuditRepo) Insert(ctx context.Context, entry *models.AuditLog) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	return f.entries, nil
}

func (f *fakeAuditRepo) GetBySubject(ctx context.Context, subject string, limit, offset int) ([]*models.AuditLog, error) {
	out := make([]*models.AuditLog, 0)
	for _, e := range f.entries {
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestAuditService_RecordDenial(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAuditRepo{}
	svc := NewService(repo, zap.NewNop())

	svc.RecordDenial(ctx, "user-1", authz.ResourceVehicles, authz.ActionDelete, "req-42")

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "user-1", entry.Subject)
	assert.Equal(t, authz.ResourceVehicles, entry.Resource)
	assert.Equal(t, authz.ActionDelete, entry.Action)
	assert.Equal(t, models.AuditOutcomeDenied, entry.Outcome)
	assert.Equal(t, "req-42", entry.RequestID)
	assert.Nil(t, entry.ResourceID)
}

func TestAuditService_RecordAllowed(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAuditRepo{}
	svc := NewService(repo, zap.NewNop())

	vehicleID := uuid.New()
	svc.RecordAllowed(ctx, "user-2", authz.ResourceVehicles, authz.ActionCreate, vehicleID, "req-43")

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, models.AuditOutcomeAllowed, entry.Outcome)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, vehicleID, *entry.ResourceID)
}

func TestAuditService_InsertFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAuditRepo{insertErr: errors.New("connection reset")}
	svc := NewService(repo, zap.NewNop())

	// must not panic or propagate; auditing is best-effort
	svc.RecordDenial(ctx, "user-1", authz.ResourceUsers, authz.ActionWrite, "")
	assert.Empty(t, repo.entries)
}

func TestAuditService_ListBySubject(t *testing.T) {
	ctx := context.Background()
	repo := &fakeAuditRepo{}
	svc := NewService(repo, zap.NewNop())

	svc.RecordDenial(ctx, "user-a", authz.ResourceIssues, authz.ActionDelete, "")
	svc.RecordDenial(ctx, "user-b", authz.ResourceIssues, authz.ActionDelete, "")
	svc.RecordDenial(ctx, "user-a", authz.ResourceDrivers, authz.ActionWrite, "")

	entries, err := svc.ListBySubject(ctx, "user-a", 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
