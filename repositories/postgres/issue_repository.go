package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/repositories"
)

// IssueRepository implements the repositories.IssueRepository interface
type IssueRepository struct {
	db     *DB
	tx     *sql.Tx
	logger *zap.Logger
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *DB, logger *zap.Logger) repositories.IssueRepository {
	return &IssueRepository{
		db:     db,
		logger: logger,
	}
}

// executor prefers the bound transaction, then one carried in the
// context, then the plain pool.
func (r *IssueRepository) executor(ctx context.Context) Executor {
	if r.tx != nil {
		return r.tx
	}
	return GetExecutor(ctx, r.db)
}

const issueColumns = `id, title, description, vehicle_id, driver_id, priority, status, reported_by, created_at, updated_at, deleted_at`

func scanIssue(row interface{ Scan(...interface{}) error }) (*models.Issue, error) {
	issue := &models.Issue{}
	err := row.Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.VehicleID,
		&issue.DriverID,
		&issue.Priority,
		&issue.Status,
		&issue.ReportedBy,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&issue.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// Create creates a new issue
func (r *IssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	query := `
		INSERT INTO issues (id, title, description, vehicle_id, driver_id, priority, status, reported_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	executor := r.executor(ctx)
	_, err := executor.ExecContext(ctx, query,
		issue.ID,
		issue.Title,
		issue.Description,
		issue.VehicleID,
		issue.DriverID,
		issue.Priority,
		issue.Status,
		issue.ReportedBy,
		issue.CreatedAt,
		issue.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	r.logger.Debug("issue created", zap.String("id", issue.ID.String()), zap.String("title", issue.Title))
	return nil
}

// GetByID retrieves an issue by ID, excluding soft-deleted rows
func (r *IssueRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	query := `
		SELECT ` + issueColumns + `
		FROM issues
		WHERE id = $1 AND deleted_at IS NULL
	`

	executor := r.executor(ctx)
	issue, err := scanIssue(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("issue %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	return issue, nil
}

// List retrieves issues matching the filter. Query matches title and
// description; Status matches the status column.
func (r *IssueRepository) List(ctx context.Context, filter repositories.ListFilter) ([]*models.Issue, error) {
	filter = filter.Normalize()

	query := `
		SELECT ` + issueColumns + `
		FROM issues
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	executor := r.executor(ctx)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer rows.Close()

	var issues []*models.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, issue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issue rows: %w", err)
	}

	return issues, nil
}

// Update updates an issue
func (r *IssueRepository) Update(ctx context.Context, issue *models.Issue) error {
	query := `
		UPDATE issues
		SET title = $2,
		    description = $3,
		    vehicle_id = $4,
		    driver_id = $5,
		    priority = $6,
		    status = $7,
		    updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	executor := r.executor(ctx)
	result, err := executor.ExecContext(ctx, query,
		issue.ID,
		issue.Title,
		issue.Description,
		issue.VehicleID,
		issue.DriverID,
		issue.Priority,
		issue.Status,
		issue.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("issue %s: %w", issue.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("issue updated", zap.String("id", issue.ID.String()))
	return nil
}

// Delete soft-deletes an issue
func (r *IssueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE issues SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	executor := r.executor(ctx)
	result, err := executor.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("issue %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("issue soft-deleted", zap.String("id", id.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *IssueRepository) WithTx(tx repositories.Transaction) repositories.IssueRepository {
	bound := &IssueRepository{
		db:     r.db,
		logger: r.logger,
	}
	if t, ok := tx.(*Transaction); ok {
		bound.tx = t.tx
	}
	return bound
}
