package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdeskhq/fleetdesk/authz"
)

// AuditOutcome records whether a permission-gated action went through
type AuditOutcome string

const (
	AuditOutcomeAllowed AuditOutcome = "allowed"
	AuditOutcomeDenied  AuditOutcome = "denied"
)

// AuditLog records one permission-gated action: who attempted what
// against which resource, and whether it was allowed.
type AuditLog struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	Subject    string         `json:"subject" db:"subject"`
	Resource   authz.Resource `json:"resource" db:"resource"`
	Action     authz.Action   `json:"action" db:"action"`
	ResourceID *uuid.UUID     `json:"resource_id,omitempty" db:"resource_id"`
	Outcome    AuditOutcome   `json:"outcome" db:"outcome"`
	RequestID  string         `json:"request_id,omitempty" db:"request_id"`
	Timestamp  time.Time      `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog creates a new AuditLog instance
func NewAuditLog(subject string, resource authz.Resource, action authz.Action, outcome AuditOutcome) *AuditLog {
	return &AuditLog{
		ID:        uuid.New(),
		Subject:   subject,
		Resource:  resource,
		Action:    action,
		Outcome:   outcome,
		Timestamp: time.Now(),
	}
}

// WithResourceID attaches the affected entity's ID to the entry
func (a *AuditLog) WithResourceID(id uuid.UUID) *AuditLog {
	a.ResourceID = &id
	return a
}

// WithRequestID attaches the originating request ID to the entry
func (a *AuditLog) WithRequestID(requestID string) *AuditLog {
	a.RequestID = requestID
	return a
}
