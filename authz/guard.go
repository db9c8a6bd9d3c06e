package authz

import "context"

// Guard wraps a user-triggered action behind a permission check. The
// guard itself is immutable configuration; a single Do call performs a
// single evaluation and at most one handler invocation.
type Guard struct {
	resource Resource
	action   Action
	message  string
	notifier Notifier
}

// NewGuard creates a guard for the given (resource, action) pair.
// Without further configuration a denied Do is silent.
func NewGuard(resource Resource, action Action) Guard {
	return Guard{resource: resource, action: action}
}

// WithMessage returns a copy of the guard that uses msg instead of the
// generic default in denial notifications.
func (g Guard) WithMessage(msg string) Guard {
	g.message = msg
	return g
}

// WithAlert returns a copy of the guard that emits a denial
// notification through n whenever the handler is withheld.
func (g Guard) WithAlert(n Notifier) Guard {
	g.notifier = n
	return g
}

// Do evaluates the resolver once and, when the session is allowed,
// invokes fn exactly once, returning invoked=true and fn's error.
//
// When denied, fn is never invoked and Do returns (false, nil): denial
// is handled locally — one notification through the configured alert
// notifier, using the guard's message or the generic default — and is
// never surfaced to the caller as an error. Callers that need to branch
// on denial use the invoked flag.
func (g Guard) Do(ctx context.Context, s *Session, fn func(context.Context) error) (invoked bool, err error) {
	if Allowed(s, g.resource, g.action) {
		return true, fn(ctx)
	}

	if g.notifier != nil {
		msg := g.message
		if msg == "" {
			msg = DefaultDeniedMessage
		}
		g.notifier.Notify(ctx, g.resource, g.action, msg)
	}
	return false, nil
}
