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

// DriverRepository implements the repositories.DriverRepository interface
type DriverRepository struct {
	db     *DB
	tx     *sql.Tx
	logger *zap.Logger
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(db *DB, logger *zap.Logger) repositories.DriverRepository {
	return &DriverRepository{
		db:     db,
		logger: logger,
	}
}

// executor prefers the bound transaction, then one carried in the
// context, then the plain pool.
func (r *DriverRepository) executor(ctx context.Context) Executor {
	if r.tx != nil {
		return r.tx
	}
	return GetExecutor(ctx, r.db)
}

const driverColumns = `id, name, email, phone, license_number, status, vehicle_id, created_at, updated_at, deleted_at`

func scanDriver(row interface{ Scan(...interface{}) error }) (*models.Driver, error) {
	driver := &models.Driver{}
	err := row.Scan(
		&driver.ID,
		&driver.Name,
		&driver.Email,
		&driver.Phone,
		&driver.LicenseNumber,
		&driver.Status,
		&driver.VehicleID,
		&driver.CreatedAt,
		&driver.UpdatedAt,
		&driver.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return driver, nil
}

// Create creates a new driver
func (r *DriverRepository) Create(ctx context.Context, driver *models.Driver) error {
	query := `
		INSERT INTO drivers (id, name, email, phone, license_number, status, vehicle_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := r.executor(ctx)
	_, err := executor.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Email,
		driver.Phone,
		driver.LicenseNumber,
		driver.Status,
		driver.VehicleID,
		driver.CreatedAt,
		driver.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	r.logger.Debug("driver created", zap.String("id", driver.ID.String()), zap.String("name", driver.Name))
	return nil
}

// GetByID retrieves a driver by ID, excluding soft-deleted rows
func (r *DriverRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	query := `
		SELECT ` + driverColumns + `
		FROM drivers
		WHERE id = $1 AND deleted_at IS NULL
	`

	executor := r.executor(ctx)
	driver, err := scanDriver(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("driver %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return driver, nil
}

// List retrieves drivers matching the filter. Query matches name,
// email and license number; Status matches the status column.
func (r *DriverRepository) List(ctx context.Context, filter repositories.ListFilter) ([]*models.Driver, error) {
	filter = filter.Normalize()

	query := `
		SELECT ` + driverColumns + `
		FROM drivers
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR license_number ILIKE $%d)",
			len(args), len(args), len(args))
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
		return nil, fmt.Errorf("failed to query drivers: %w", err)
	}
	defer rows.Close()

	var drivers []*models.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, driver)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating driver rows: %w", err)
	}

	return drivers, nil
}

// Update updates a driver
func (r *DriverRepository) Update(ctx context.Context, driver *models.Driver) error {
	query := `
		UPDATE drivers
		SET name = $2,
		    email = $3,
		    phone = $4,
		    license_number = $5,
		    status = $6,
		    vehicle_id = $7,
		    updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	executor := r.executor(ctx)
	result, err := executor.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Email,
		driver.Phone,
		driver.LicenseNumber,
		driver.Status,
		driver.VehicleID,
		driver.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("driver %s: %w", driver.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("driver updated", zap.String("id", driver.ID.String()))
	return nil
}

// Delete soft-deletes a driver
func (r *DriverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE drivers SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	executor := r.executor(ctx)
	result, err := executor.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("driver %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("driver soft-deleted", zap.String("id", id.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *DriverRepository) WithTx(tx repositories.Transaction) repositories.DriverRepository {
	bound := &DriverRepository{
		db:     r.db,
		logger: r.logger,
	}
	if t, ok := tx.(*Transaction); ok {
		bound.tx = t.tx
	}
	return bound
}
