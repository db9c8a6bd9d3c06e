package models

import (
	"time"

	"github.com/google/uuid"
)

// DriverStatus represents the employment status of a driver
type DriverStatus string

const (
	DriverStatusActive    DriverStatus = "active"
	DriverStatusInactive  DriverStatus = "inactive"
	DriverStatusSuspended DriverStatus = "suspended"
)

// IsValid reports whether the status is a known driver status
func (s DriverStatus) IsValid() bool {
	switch s {
	case DriverStatusActive, DriverStatusInactive, DriverStatusSuspended:
		return true
	}
	return false
}

// Driver represents a fleet driver
type Driver struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	Name          string       `json:"name" db:"name"`
	Email         string       `json:"email" db:"email"`
	Phone         string       `json:"phone" db:"phone"`
	LicenseNumber string       `json:"license_number" db:"license_number"`
	Status        DriverStatus `json:"status" db:"status"`
	VehicleID     *uuid.UUID   `json:"vehicle_id,omitempty" db:"vehicle_id"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time   `json:"deleted_at,omitempty" db:"deleted_at"`
}

// TableName returns the table name for the Driver model
func (Driver) TableName() string {
	return "drivers"
}

// NewDriver creates a new Driver instance
func NewDriver(name, email, phone, licenseNumber string) *Driver {
	now := time.Now()
	return &Driver{
		ID:            uuid.New(),
		Name:          name,
		Email:         email,
		Phone:         phone,
		LicenseNumber: licenseNumber,
		Status:        DriverStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsDeleted returns true if the driver has been soft-deleted
func (d *Driver) IsDeleted() bool {
	return d.DeletedAt != nil
}
