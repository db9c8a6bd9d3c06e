package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fleetdeskhq/fleetdesk/models"
)

// ErrNotFound is returned (wrapped) when a row does not exist or has
// been soft-deleted.
var ErrNotFound = errors.New("not found")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// ListFilter narrows list queries the way the dashboard's search box
// and status dropdown do. A zero filter lists everything (not
// soft-deleted) up to the default page size.
type ListFilter struct {
	// Query is a case-insensitive substring matched against the
	// resource's searchable columns.
	Query string

	// Status filters on the resource's status column when non-empty.
	Status string

	Limit  int
	Offset int
}

// DefaultListLimit caps unpaginated list queries
const DefaultListLimit = 100

// Normalize fills in defaults for unset pagination fields
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 || f.Limit > DefaultListLimit {
		f.Limit = DefaultListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// UserRepository handles user account data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter ListFilter) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// Delete soft-deletes a user; the row stays but disappears from
	// GetByID/GetByEmail/List.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) UserRepository
}

// DriverRepository handles driver data operations
type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Driver, error)
	Update(ctx context.Context, driver *models.Driver) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx Transaction) DriverRepository
}

// VehicleRepository handles vehicle data operations
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	GetByRegistration(ctx context.Context, registration string) (*models.Vehicle, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx Transaction) VehicleRepository
}

// IssueRepository handles issue data operations
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Issue, error)
	Update(ctx context.Context, issue *models.Issue) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx Transaction) IssueRepository
}

// AuditRepository handles audit log data operations. Entries are
// append-only.
type AuditRepository interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
	GetBySubject(ctx context.Context, subject string, limit, offset int) ([]*models.AuditLog, error)
}

// Repositories bundles every repository implementation
type Repositories struct {
	Users     UserRepository
	Drivers   DriverRepository
	Vehicles  VehicleRepository
	Issues    IssueRepository
	AuditLogs AuditRepository
}
