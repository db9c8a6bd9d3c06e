// Package authz holds the authorization primitives the rest of the API
// is built on: typed resource/action enums, a flattened per-session
// grant set, a pure default-deny resolver, and two thin wrappers over
// it (Gate for content selection, Guard for call gating).
package authz

// Resource identifies the category of fleet entity an action applies to.
type Resource string

const (
	ResourceUsers    Resource = "users"
	ResourceDrivers  Resource = "drivers"
	ResourceVehicles Resource = "vehicles"
	ResourceIssues   Resource = "issues"
)

// String returns the string representation of a Resource.
func (r Resource) String() string {
	return string(r)
}

// IsValid reports whether the resource is one of the known fleet resources.
func (r Resource) IsValid() bool {
	switch r {
	case ResourceUsers, ResourceDrivers, ResourceVehicles, ResourceIssues:
		return true
	}
	return false
}

// Action is the CRUD-style operation being authorized.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// String returns the string representation of an Action.
func (a Action) String() string {
	return string(a)
}

// IsValid reports whether the action is a known operation.
func (a Action) IsValid() bool {
	switch a {
	case ActionRead, ActionCreate, ActionWrite, ActionDelete:
		return true
	}
	return false
}

// Grant is a single (resource, action) capability.
type Grant struct {
	Resource Resource
	Action   Action
}

// Session carries the authenticated subject and its flattened grant
// set. A session is built once at authentication time and treated as
// read-only afterwards, so it is safe to share across concurrent
// permission checks without locking.
type Session struct {
	subject string
	grants  map[Grant]struct{}
}

// NewSession builds a session for subject with the given grants.
func NewSession(subject string, grants ...Grant) *Session {
	s := &Session{
		subject: subject,
		grants:  make(map[Grant]struct{}, len(grants)),
	}
	for _, g := range grants {
		s.grants[g] = struct{}{}
	}
	return s
}

// Subject returns the opaque identifier of the acting user.
func (s *Session) Subject() string {
	if s == nil {
		return ""
	}
	return s.subject
}

// Grants returns a copy of the session's grant set.
func (s *Session) Grants() []Grant {
	if s == nil {
		return nil
	}
	grants := make([]Grant, 0, len(s.grants))
	for g := range s.grants {
		grants = append(grants, g)
	}
	return grants
}
