// Package users manages administrative accounts and credential checks.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/auth"
	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/models"
	"github.com/fleetdeskhq/fleetdesk/repositories"
	"github.com/fleetdeskhq/fleetdesk/services"
	"github.com/fleetdeskhq/fleetdesk/utils"
)

// CreateUserInput holds the fields needed to create an account
type CreateUserInput struct {
	Email    string     `json:"email" validate:"required,email"`
	FullName string     `json:"full_name" validate:"required,min=2,max=255"`
	Password string     `json:"password" validate:"required,min=8,max=72"`
	Role     authz.Role `json:"role" validate:"required,oneof=admin manager viewer"`
}

// UpdateUserInput holds the mutable fields of an account. Nil fields
// are left unchanged.
type UpdateUserInput struct {
	FullName *string     `json:"full_name,omitempty" validate:"omitempty,min=2,max=255"`
	Role     *authz.Role `json:"role,omitempty" validate:"omitempty,oneof=admin manager viewer"`
	Active   *bool       `json:"active,omitempty"`
	Password *string     `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// Service handles account management and login credential checks
type Service struct {
	repo   repositories.UserRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewService creates a new user service
func NewService(repo repositories.UserRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		txMgr:  txMgr,
		logger: logger,
	}
}

// List returns accounts matching the filter
func (s *Service) List(ctx context.Context, filter repositories.ListFilter) ([]*models.User, error) {
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("failed to list users", err)
	}
	return users, nil
}

// Get returns a single account by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to get user", err)
	}
	return user, nil
}

// Create creates a new account. The email must not be in use.
func (s *Service) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, services.WrapInternal("failed to hash password", err)
	}

	user := models.NewUser(input.Email, input.FullName, hash, input.Role)

	// The uniqueness check and the insert must see the same state, so
	// both run on one transaction.
	err = s.txMgr.InTransaction(ctx, func(ctx context.Context, tx repositories.Transaction) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.GetByEmail(ctx, input.Email); err == nil {
			return services.ErrDuplicateEmail
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return services.WrapInternal("failed to check email", err)
		}

		if err := repo.Create(ctx, user); err != nil {
			return services.WrapInternal("failed to create user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	return user, nil
}

// Update applies the non-nil fields of input to an existing account
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, services.WrapInternal("failed to hash password", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to update user", err)
	}

	return user, nil
}

// Delete soft-deletes an account
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrUserNotFound
		}
		return services.WrapInternal("failed to delete user", err)
	}

	s.logger.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}

// Authenticate checks email and password and returns the account.
// Failures are reported uniformly so callers cannot distinguish a
// missing account from a bad password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrInvalidCredentials
		}
		return nil, services.WrapInternal("failed to look up account", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, services.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, services.ErrAccountDisabled
	}

	return user, nil
}

// EnsureAdmin creates a bootstrap admin account if no account exists
// for the given email. Used at startup so a fresh deployment is usable.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check bootstrap admin: %w", err)
	}

	_, err = s.Create(ctx, CreateUserInput{
		Email:    email,
		FullName: "Administrator",
		Password: password,
		Role:     authz.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	s.logger.Info("bootstrap admin created", zap.String("email", email))
	return nil
}
