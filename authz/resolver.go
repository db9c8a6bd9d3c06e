package authz

// Allowed reports whether the session may perform action on resource.
//
// The decision is a pure function of its arguments: no ambient state is
// consulted, nothing is cached, and repeated calls with the same inputs
// always yield the same answer. Anything not explicitly granted is
// denied — a nil or empty session, an unrecognized resource, an
// unrecognized action, and an ungranted pair all resolve to false.
// Allowed never panics.
func Allowed(s *Session, resource Resource, action Action) bool {
	if s == nil || len(s.grants) == 0 {
		return false
	}
	if !resource.IsValid() || !action.IsValid() {
		return false
	}
	_, ok := s.grants[Grant{Resource: resource, Action: action}]
	return ok
}
