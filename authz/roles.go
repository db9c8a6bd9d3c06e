package authz

// Role names the coarse access level assigned to a user account. Roles
// exist only at the identity layer: they are flattened into a grant set
// when the session is built, and the resolver never sees them.
type Role string

const (
	// RoleAdmin has every grant on every resource.
	RoleAdmin Role = "admin"

	// RoleManager manages the fleet itself (drivers, vehicles, issues)
	// but can only look at user accounts.
	RoleManager Role = "manager"

	// RoleViewer has read-only access across the board.
	RoleViewer Role = "viewer"
)

// String returns the string representation of a Role.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the role is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleViewer:
		return true
	}
	return false
}

var allResources = []Resource{ResourceUsers, ResourceDrivers, ResourceVehicles, ResourceIssues}
var allActions = []Action{ActionRead, ActionCreate, ActionWrite, ActionDelete}

// GrantsFor returns the flattened grant set for a role. Unknown roles
// get no grants, consistent with the default-deny policy.
func GrantsFor(role Role) []Grant {
	switch role {
	case RoleAdmin:
		grants := make([]Grant, 0, len(allResources)*len(allActions))
		for _, r := range allResources {
			for _, a := range allActions {
				grants = append(grants, Grant{Resource: r, Action: a})
			}
		}
		return grants

	case RoleManager:
		grants := []Grant{{Resource: ResourceUsers, Action: ActionRead}}
		for _, r := range []Resource{ResourceDrivers, ResourceVehicles, ResourceIssues} {
			for _, a := range allActions {
				grants = append(grants, Grant{Resource: r, Action: a})
			}
		}
		return grants

	case RoleViewer:
		grants := make([]Grant, 0, len(allResources))
		for _, r := range allResources {
			grants = append(grants, Grant{Resource: r, Action: ActionRead})
		}
		return grants
	}

	return nil
}

// SessionForRole builds a session whose grant set is the role's static
// grant table. This is the normal path from a verified token to a
// session.
func SessionForRole(subject string, role Role) *Session {
	return NewSession(subject, GrantsFor(role)...)
}
