package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/repositories"
)

func newMockRepo(t *testing.T) (repositories.DriverRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := &DB{DB: sqlDB, logger: zap.NewNop()}
	return NewDriverRepository(db, zap.NewNop()), mock
}

func driverRows(drivers ...*models.Driver) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "license_number", "status",
		"vehicle_id", "created_at", "updated_at", "deleted_at",
	})
	for _, d := range drivers {
		rows.AddRow(d.ID, d.Name, d.Email, d.Phone, d.LicenseNumber, d.Status,
			d.VehicleID, d.CreatedAt, d.UpdatedAt, d.DeletedAt)
	}
	return rows
}

func TestDriverRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	driver := models.NewDriver("Dana Kovach", "dana@example.com", "+1555010199", "DL-99812")

	mock.ExpectExec("INSERT INTO drivers").
		WithArgs(driver.ID, driver.Name, driver.Email, driver.Phone,
			driver.LicenseNumber, driver.Status, driver.VehicleID,
			driver.CreatedAt, driver.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(ctx, driver))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverRepositoryGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the driver when present", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		want := models.NewDriver("Dana Kovach", "dana@example.com", "+1555010199", "DL-99812")
		mock.ExpectQuery("SELECT (.+) FROM drivers").
			WithArgs(want.ID).
			WillReturnRows(driverRows(want))

		got, err := repo.GetByID(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, "DL-99812", got.LicenseNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing or soft-deleted driver wraps ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		id := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM drivers").
			WithArgs(id).
			WillReturnRows(driverRows())

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestDriverRepositoryList(t *testing.T) {
	ctx := context.Background()

	t.Run("plain list excludes soft-deleted rows via the WHERE clause", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		a := models.NewDriver("Dana Kovach", "dana@example.com", "+1555010199", "DL-99812")
		b := models.NewDriver("Luis Ortega", "luis@example.com", "+1555010188", "DL-10044")

		mock.ExpectQuery(`SELECT (.+) FROM drivers\s+WHERE deleted_at IS NULL`).
			WithArgs(repositories.DefaultListLimit, 0).
			WillReturnRows(driverRows(a, b))

		got, err := repo.List(ctx, repositories.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("search and status filters are applied", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		a := models.NewDriver("Dana Kovach", "dana@example.com", "+1555010199", "DL-99812")

		mock.ExpectQuery(`SELECT (.+) FROM drivers(.+)ILIKE(.+)status = `).
			WithArgs("%dana%", string(models.DriverStatusActive), 25, 0).
			WillReturnRows(driverRows(a))

		got, err := repo.List(ctx, repositories.ListFilter{
			Query:  "dana",
			Status: string(models.DriverStatusActive),
			Limit:  25,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Dana Kovach", got[0].Name)
	})
}

func TestDriverRepositoryUpdate(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	driver := models.NewDriver("Dana Kovach", "dana@example.com", "+1555010199", "DL-99812")
	driver.Status = models.DriverStatusSuspended
	driver.UpdatedAt = time.Now()

	mock.ExpectExec("UPDATE drivers").
		WithArgs(driver.ID, driver.Name, driver.Email, driver.Phone,
			driver.LicenseNumber, driver.Status, driver.VehicleID, driver.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(ctx, driver))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverRepositoryDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete is a soft delete", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		id := uuid.New()
		mock.ExpectExec(`UPDATE drivers SET deleted_at = (.+) WHERE id = (.+) AND deleted_at IS NULL`).
			WithArgs(id, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleting an already-deleted driver wraps ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		id := uuid.New()
		mock.ExpectExec("UPDATE drivers SET deleted_at").
			WithArgs(id, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}
