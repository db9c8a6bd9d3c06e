package models

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus represents the operational status of a vehicle
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusAssigned    VehicleStatus = "assigned"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusRetired     VehicleStatus = "retired"
)

// IsValid reports whether the status is a known vehicle status
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusAssigned, VehicleStatusMaintenance, VehicleStatusRetired:
		return true
	}
	return false
}

// Vehicle represents a fleet vehicle
type Vehicle struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Registration string        `json:"registration" db:"registration"`
	Model        string        `json:"model" db:"model"`
	Year         int           `json:"year" db:"year"`
	Status       VehicleStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time    `json:"deleted_at,omitempty" db:"deleted_at"`
}

// TableName returns the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}

// NewVehicle creates a new Vehicle instance
func NewVehicle(name, registration, model string, year int) *Vehicle {
	now := time.Now()
	return &Vehicle{
		ID:           uuid.New(),
		Name:         name,
		Registration: registration,
		Model:        model,
		Year:         year,
		Status:       VehicleStatusAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsDeleted returns true if the vehicle has been soft-deleted
func (v *Vehicle) IsDeleted() bool {
	return v.DeletedAt != nil
}
