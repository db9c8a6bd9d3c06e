package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeNotFound,
				Message: "user not found",
				Err:     errors.New("db error"),
			},
			wantMsg: "not_found: user not found (db error)",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypeValidation,
				Message: "invalid input",
				Err:     nil,
			},
			wantMsg: "validation: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeInternal, "internal error", baseErr)

	assert.Equal(t, baseErr, errors.Unwrap(domainErr))
	assert.True(t, errors.Is(domainErr, baseErr))
}

func TestDomainError_Is(t *testing.T) {
	t.Run("matches same sentinel", func(t *testing.T) {
		wrapped := fmt.Errorf("lookup: %w", ErrUserNotFound)
		assert.True(t, errors.Is(wrapped, ErrUserNotFound))
	})

	t.Run("different sentinels do not match", func(t *testing.T) {
		assert.False(t, errors.Is(ErrUserNotFound, ErrDriverNotFound))
		assert.False(t, errors.Is(ErrUserNotFound, ErrDuplicateEmail))
	})
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		want      bool
	}{
		{"not found", ErrVehicleNotFound, IsNotFoundError, true},
		{"not found wrapped", fmt.Errorf("get: %w", ErrIssueNotFound), IsNotFoundError, true},
		{"conflict", ErrDuplicateRegistration, IsConflictError, true},
		{"unauthorized", ErrInvalidCredentials, IsUnauthorizedError, true},
		{"validation", ErrInvalidInput, IsValidationError, true},
		{"plain error is nothing", errors.New("boom"), IsNotFoundError, false},
		{"type mismatch", ErrDuplicateEmail, IsNotFoundError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.predicate(tt.err))
		})
	}
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeConflict, "email already exists", nil).
		WithDetail("email", "ops@example.com")

	details := GetErrorDetails(err)
	assert.Equal(t, "ops@example.com", details["email"])

	assert.Nil(t, GetErrorDetails(errors.New("plain")))
}

func TestWrapInternal(t *testing.T) {
	cause := errors.New("write failed")
	err := WrapInternal("failed to create user", cause)

	assert.False(t, IsNotFoundError(err))
	assert.True(t, errors.Is(err, cause))

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, ErrorTypeInternal, domainErr.Type)
}
