package vehicles

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/repositories"
	"github.com/fleetdeskhq/fleetdesk/services"
)

type fakeVehicleRepo struct {
	byID map[uuid.UUID]*models.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{byID: make(map[uuid.UUID]*models.Vehicle)}
}

func (f *fakeVehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	f.byID[vehicle.ID] = vehicle
	return nil
}

func (f *fakeVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	vehicle, ok := f.byID[id]
	if !ok || vehicle.IsDeleted() {
		return nil, fmt.Errorf("vehicle %s: %w", id, repositories.ErrNotFound)
	}
	return vehicle, nil
}

func (f *fakeVehicleRepo) GetByRegistration(ctx context.Context, registration string) (*models.Vehicle, error) {
	for _, vehicle := range f.byID {
		if vehicle.Registration == registration && !vehicle.IsDeleted() {
			return vehicle, nil
		}
	}
	return nil, fmt.Errorf("vehicle %s: %w", registration, repositories.ErrNotFound)
}

func (f *fakeVehicleRepo) List(ctx context.Context, filter repositories.ListFilter) ([]*models.Vehicle, error) {
	out := make([]*models.Vehicle, 0, len(f.byID))
	for _, vehicle := range f.byID {
		if !vehicle.IsDeleted() {
			out = append(out, vehicle)
		}
	}
	return out, nil
}

func (f *fakeVehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	if _, err := f.GetByID(ctx, vehicle.ID); err != nil {
		return err
	}
	f.byID[vehicle.ID] = vehicle
	return nil
}

func (f *fakeVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	vehicle, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now()
	vehicle.DeletedAt = &now
	return nil
}

func (f *fakeVehicleRepo) WithTx(tx repositories.Transaction) repositories.VehicleRepository {
	return f
}

// fakeTxManager runs the callback directly and counts invocations
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return fakeTx{ctx: ctx}, nil
}

func (m *fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	m.calls++
	return fn(ctx, fakeTx{ctx: ctx})
}

type fakeTx struct{ ctx context.Context }

func (t fakeTx) Commit() error            { return nil }
func (t fakeTx) Rollback() error          { return nil }
func (t fakeTx) Context() context.Context { return t.ctx }

func newTestService() (*Service, *fakeVehicleRepo, *fakeTxManager) {
	repo := newFakeVehicleRepo()
	txm := &fakeTxManager{}
	return NewService(repo, txm, zap.NewNop()), repo, txm
}

func TestVehicleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates vehicle as available", func(t *testing.T) {
		svc, _, _ := newTestService()

		vehicle, err := svc.Create(ctx, CreateVehicleInput{
			Name:         "Van 7",
			Registration: "AB-123-CD",
			Model:        "Sprinter",
			Year:         2022,
		})

		require.NoError(t, err)
		assert.Equal(t, models.VehicleStatusAvailable, vehicle.Status)
		assert.Equal(t, "AB-123-CD", vehicle.Registration)
	})

	t.Run("runs the uniqueness check and insert in one transaction", func(t *testing.T) {
		svc, repo, txm := newTestService()

		_, err := svc.Create(ctx, CreateVehicleInput{
			Name:         "Van 7",
			Registration: "AB-123-CD",
			Model:        "Sprinter",
			Year:         2022,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, txm.calls)
		assert.Len(t, repo.byID, 1)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		svc, _, _ := newTestService()

		input := CreateVehicleInput{
			Name:         "Van 7",
			Registration: "AB-123-CD",
			Model:        "Sprinter",
			Year:         2022,
		}
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)

		input.Name = "Van 8"
		_, err = svc.Create(ctx, input)
		assert.ErrorIs(t, err, services.ErrDuplicateRegistration)
		assert.True(t, services.IsConflictError(err))
	})

	t.Run("rejects implausible year", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.Create(ctx, CreateVehicleInput{
			Name:         "Van 9",
			Registration: "EF-456-GH",
			Model:        "Sprinter",
			Year:         1901,
		})
		require.Error(t, err)
	})
}

func TestVehicleService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	first, err := svc.Create(ctx, CreateVehicleInput{
		Name: "Van 1", Registration: "REG-1", Model: "Transit", Year: 2020,
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, CreateVehicleInput{
		Name: "Van 2", Registration: "REG-2", Model: "Transit", Year: 2021,
	})
	require.NoError(t, err)

	t.Run("changes status", func(t *testing.T) {
		maintenance := models.VehicleStatusMaintenance
		updated, err := svc.Update(ctx, first.ID, UpdateVehicleInput{Status: &maintenance})

		require.NoError(t, err)
		assert.Equal(t, models.VehicleStatusMaintenance, updated.Status)
	})

	t.Run("rejects registration already used by another vehicle", func(t *testing.T) {
		taken := "REG-1"
		_, err := svc.Update(ctx, second.ID, UpdateVehicleInput{Registration: &taken})
		assert.ErrorIs(t, err, services.ErrDuplicateRegistration)
	})

	t.Run("keeping own registration is not a conflict", func(t *testing.T) {
		same := "REG-2"
		updated, err := svc.Update(ctx, second.ID, UpdateVehicleInput{Registration: &same})
		require.NoError(t, err)
		assert.Equal(t, "REG-2", updated.Registration)
	})

	t.Run("returns not found for missing vehicle", func(t *testing.T) {
		name := "Ghost"
		_, err := svc.Update(ctx, uuid.New(), UpdateVehicleInput{Name: &name})
		assert.ErrorIs(t, err, services.ErrVehicleNotFound)
	})
}

func TestVehicleService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	vehicle, err := svc.Create(ctx, CreateVehicleInput{
		Name: "Van 3", Registration: "REG-3", Model: "Transit", Year: 2019,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, vehicle.ID))

	_, err = svc.Get(ctx, vehicle.ID)
	assert.ErrorIs(t, err, services.ErrVehicleNotFound)

	// registration frees up once the vehicle is gone
	_, err = svc.Create(ctx, CreateVehicleInput{
		Name: "Van 4", Registration: "REG-3", Model: "Transit", Year: 2023,
	})
	assert.NoError(t, err)
}
