package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdeskhq/fleetdesk/authz"
)

// User represents an administrative account that can sign in to the
// dashboard. PasswordHash is bcrypt and never serialized.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	FullName     string     `json:"full_name" db:"full_name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         authz.Role `json:"role" db:"role"`
	Active       bool       `json:"active" db:"active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(email, fullName, passwordHash string, role authz.Role) *User {
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsDeleted returns true if the user has been soft-deleted
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}
