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

// VehicleRepository implements the repositories.VehicleRepository interface
type VehicleRepository struct {
	db     *DB
	tx     *sql.Tx
	logger *zap.Logger
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *DB, logger *zap.Logger) repositories.VehicleRepository {
	return &VehicleRepository{
		db:     db,
		logger: logger,
	}
}

// executor prefers the bound transaction, then one carried in the
// context, then the plain pool.
func (r *VehicleRepository) executor(ctx context.Context) Executor {
	if r.tx != nil {
		return r.tx
	}
	return GetExecutor(ctx, r.db)
}

const vehicleColumns = `id, name, registration, model, year, status, created_at, updated_at, deleted_at`

func scanVehicle(row interface{ Scan(...interface{}) error }) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{}
	err := row.Scan(
		&vehicle.ID,
		&vehicle.Name,
		&vehicle.Registration,
		&vehicle.Model,
		&vehicle.Year,
		&vehicle.Status,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
		&vehicle.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Create creates a new vehicle
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, name, registration, model, year, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := r.executor(ctx)
	_, err := executor.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Name,
		vehicle.Registration,
		vehicle.Model,
		vehicle.Year,
		vehicle.Status,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	r.logger.Debug("vehicle created",
		zap.String("id", vehicle.ID.String()),
		zap.String("registration", vehicle.Registration))
	return nil
}

// GetByID retrieves a vehicle by ID, excluding soft-deleted rows
func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE id = $1 AND deleted_at IS NULL
	`

	executor := r.executor(ctx)
	vehicle, err := scanVehicle(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("vehicle %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return vehicle, nil
}

// GetByRegistration retrieves a vehicle by registration plate
func (r *VehicleRepository) GetByRegistration(ctx context.Context, registration string) (*models.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE registration = $1 AND deleted_at IS NULL
	`

	executor := r.executor(ctx)
	vehicle, err := scanVehicle(executor.QueryRowContext(ctx, query, registration))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("vehicle %s: %w", registration, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return vehicle, nil
}

// List retrieves vehicles matching the filter. Query matches name,
// registration and model; Status matches the status column.
func (r *VehicleRepository) List(ctx context.Context, filter repositories.ListFilter) ([]*models.Vehicle, error) {
	filter = filter.Normalize()

	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR registration ILIKE $%d OR model ILIKE $%d)",
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
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vehicle rows: %w", err)
	}

	return vehicles, nil
}

// Update updates a vehicle
func (r *VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET name = $2,
		    registration = $3,
		    model = $4,
		    year = $5,
		    status = $6,
		    updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`

	executor := r.executor(ctx)
	result, err := executor.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Name,
		vehicle.Registration,
		vehicle.Model,
		vehicle.Year,
		vehicle.Status,
		vehicle.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("vehicle %s: %w", vehicle.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("vehicle updated", zap.String("id", vehicle.ID.String()))
	return nil
}

// Delete soft-deletes a vehicle
func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE vehicles SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	executor := r.executor(ctx)
	result, err := executor.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("vehicle %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("vehicle soft-deleted", zap.String("id", id.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *VehicleRepository) WithTx(tx repositories.Transaction) repositories.VehicleRepository {
	bound := &VehicleRepository{
		db:     r.db,
		logger: r.logger,
	}
	if t, ok := tx.(*Transaction); ok {
		bound.tx = t.tx
	}
	return bound
}
