package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/auth"
	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/repositories"
	"github.com/fleetdeskhq/fleetdesk/services"
)

// fakeUserRepo is an in-memory UserRepository for service tests
type fakeUserRepo struct {
	byID map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok || user.IsDeleted() {
		return nil, fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.byID {
		if user.Email == email && !user.IsDeleted() {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, repositories.ErrNotFound)
}

func (f *fakeUserRepo) List(ctx context.Context, filter repositories.ListFilter) ([]*models.User, error) {
	out := make([]*models.User, 0, len(f.byID))
	for _, user := range f.byID {
		if !user.IsDeleted() {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, err := f.GetByID(ctx, user.ID); err != nil {
		return err
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := user.CreatedAt
	user.DeletedAt = &now
	return nil
}

func (f *fakeUserRepo) WithTx(tx repositories.Transaction) repositories.UserRepository {
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

func newTestService() (*Service, *fakeUserRepo, *fakeTxManager) {
	repo := newFakeUserRepo()
	txm := &fakeTxManager{}
	return NewService(repo, txm, zap.NewNop()), repo, txm
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		svc, _, _ := newTestService()

		user, err := svc.Create(ctx, CreateUserInput{
			Email:    "ops@example.com",
			FullName: "Ops Admin",
			Password: "s3cret-pass",
			Role:     authz.RoleAdmin,
		})

		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", user.Email)
		assert.Equal(t, authz.RoleAdmin, user.Role)
		assert.True(t, user.Active)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
		assert.True(t, auth.CheckPassword(user.PasswordHash, "s3cret-pass"))
	})

	t.Run("runs the uniqueness check and insert in one transaction", func(t *testing.T) {
		svc, repo, txm := newTestService()

		_, err := svc.Create(ctx, CreateUserInput{
			Email:    "ops@example.com",
			FullName: "Ops Admin",
			Password: "s3cret-pass",
			Role:     authz.RoleAdmin,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, txm.calls)
		assert.Len(t, repo.byID, 1)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _, _ := newTestService()

		input := CreateUserInput{
			Email:    "ops@example.com",
			FullName: "Ops Admin",
			Password: "s3cret-pass",
			Role:     authz.RoleViewer,
		}
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)

		_, err = svc.Create(ctx, input)
		assert.ErrorIs(t, err, services.ErrDuplicateEmail)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.Create(ctx, CreateUserInput{
			Email:    "not-an-email",
			FullName: "X",
			Password: "short",
			Role:     authz.Role("superuser"),
		})
		require.Error(t, err)
	})
}

func TestUserService_Get(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	t.Run("returns not found for missing user", func(t *testing.T) {
		_, err := svc.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, services.ErrUserNotFound)
		assert.True(t, services.IsNotFoundError(err))
	})

	t.Run("returns existing user", func(t *testing.T) {
		created, err := svc.Create(ctx, CreateUserInput{
			Email:    "viewer@example.com",
			FullName: "Read Only",
			Password: "s3cret-pass",
			Role:     authz.RoleViewer,
		})
		require.NoError(t, err)

		got, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Email, got.Email)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	created, err := svc.Create(ctx, CreateUserInput{
		Email:    "mgr@example.com",
		FullName: "Manager",
		Password: "s3cret-pass",
		Role:     authz.RoleManager,
	})
	require.NoError(t, err)

	t.Run("updates only provided fields", func(t *testing.T) {
		newName := "Fleet Manager"
		updated, err := svc.Update(ctx, created.ID, UpdateUserInput{FullName: &newName})

		require.NoError(t, err)
		assert.Equal(t, "Fleet Manager", updated.FullName)
		assert.Equal(t, authz.RoleManager, updated.Role)
		assert.Equal(t, "mgr@example.com", updated.Email)
	})

	t.Run("deactivates account", func(t *testing.T) {
		inactive := false
		updated, err := svc.Update(ctx, created.ID, UpdateUserInput{Active: &inactive})

		require.NoError(t, err)
		assert.False(t, updated.Active)
	})

	t.Run("returns not found for missing user", func(t *testing.T) {
		name := "Nobody"
		_, err := svc.Update(ctx, uuid.New(), UpdateUserInput{FullName: &name})
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	created, err := svc.Create(ctx, CreateUserInput{
		Email:    "gone@example.com",
		FullName: "Soon Gone",
		Password: "s3cret-pass",
		Role:     authz.RoleViewer,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	created, err := svc.Create(ctx, CreateUserInput{
		Email:    "login@example.com",
		FullName: "Login User",
		Password: "correct-horse",
		Role:     authz.RoleViewer,
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "login@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "login@example.com", "battery-staple")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		assert.True(t, services.IsUnauthorizedError(err))
	})

	t.Run("disabled account", func(t *testing.T) {
		inactive := false
		_, err := svc.Update(ctx, created.ID, UpdateUserInput{Active: &inactive})
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, "login@example.com", "correct-horse")
		assert.ErrorIs(t, err, services.ErrAccountDisabled)
	})
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates admin when missing", func(t *testing.T) {
		svc, repo, _ := newTestService()

		require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "bootstrap-pass"))

		user, err := repo.GetByEmail(ctx, "root@example.com")
		require.NoError(t, err)
		assert.Equal(t, authz.RoleAdmin, user.Role)
	})

	t.Run("is a no-op when account exists", func(t *testing.T) {
		svc, repo, _ := newTestService()

		require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "bootstrap-pass"))
		require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "different-pass"))

		assert.Len(t, repo.byID, 1)
	})

	t.Run("is a no-op without credentials", func(t *testing.T) {
		svc, repo, _ := newTestService()

		require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
		assert.Empty(t, repo.byID)
	})
}
