package models

import (
	"time"

	"github.com/google/uuid"
)

// IssuePriority represents the urgency of a reported issue
type IssuePriority string

const (
	IssuePriorityLow      IssuePriority = "low"
	IssuePriorityNormal   IssuePriority = "normal"
	IssuePriorityHigh     IssuePriority = "high"
	IssuePriorityCritical IssuePriority = "critical"
)

// IsValid reports whether the priority is a known issue priority
func (p IssuePriority) IsValid() bool {
	switch p {
	case IssuePriorityLow, IssuePriorityNormal, IssuePriorityHigh, IssuePriorityCritical:
		return true
	}
	return false
}

// IssueStatus represents the lifecycle state of an issue
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

// IsValid reports whether the status is a known issue status
func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusResolved, IssueStatusClosed:
		return true
	}
	return false
}

// Issue represents a reported problem with a vehicle or driver
type Issue struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	VehicleID   *uuid.UUID    `json:"vehicle_id,omitempty" db:"vehicle_id"`
	DriverID    *uuid.UUID    `json:"driver_id,omitempty" db:"driver_id"`
	Priority    IssuePriority `json:"priority" db:"priority"`
	Status      IssueStatus   `json:"status" db:"status"`
	ReportedBy  uuid.UUID     `json:"reported_by" db:"reported_by"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time    `json:"deleted_at,omitempty" db:"deleted_at"`
}

// TableName returns the table name for the Issue model
func (Issue) TableName() string {
	return "issues"
}

// NewIssue creates a new Issue instance
func NewIssue(title, description string, priority IssuePriority, reportedBy uuid.UUID) *Issue {
	now := time.Now()
	return &Issue{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      IssueStatusOpen,
		ReportedBy:  reportedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsDeleted returns true if the issue has been soft-deleted
func (i *Issue) IsDeleted() bool {
	return i.DeletedAt != nil
}
