package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/repositories"
)

// AuditRepository implements the repositories.AuditRepository interface
type AuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) repositories.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

const auditColumns = `id, subject, resource, action, resource_id, outcome, request_id, timestamp`

func scanAuditLog(row interface{ Scan(...interface{}) error }) (*models.AuditLog, error) {
	entry := &models.AuditLog{}
	err := row.Scan(
		&entry.ID,
		&entry.Subject,
		&entry.Resource,
		&entry.Action,
		&entry.ResourceID,
		&entry.Outcome,
		&entry.RequestID,
		&entry.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Insert inserts a new audit log entry
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, subject, resource, action, resource_id, outcome, request_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		entry.ID,
		entry.Subject,
		entry.Resource,
		entry.Action,
		entry.ResourceID,
		entry.Outcome,
		entry.RequestID,
		entry.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// List retrieves audit log entries, newest first
func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > repositories.DefaultListLimit {
		limit = repositories.DefaultListLimit
	}

	query := `
		SELECT ` + auditColumns + `
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		entry, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log rows: %w", err)
	}

	return entries, nil
}

// GetBySubject retrieves audit log entries for one subject, newest first
func (r *AuditRepository) GetBySubject(ctx context.Context, subject string, limit, offset int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > repositories.DefaultListLimit {
		limit = repositories.DefaultListLimit
	}

	query := `
		SELECT ` + auditColumns + `
		FROM audit_logs
		WHERE subject = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, subject, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		entry, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log rows: %w", err)
	}

	return entries, nil
}
