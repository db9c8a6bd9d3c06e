package authz

import "context"

// Gate selects between protected and fallback content based on the
// session's grants. It holds no state of its own: every Select
// re-evaluates the resolver against the session it is handed, so a
// changed session is reflected on the next call.
type Gate[T any] struct {
	resource    Resource
	action      Action
	fallback    T
	hasFallback bool
	notifier    Notifier
}

// NewGate creates a gate for the given (resource, action) pair. Without
// further configuration a denied Select returns the zero value of T and
// stays silent.
func NewGate[T any](resource Resource, action Action) Gate[T] {
	return Gate[T]{resource: resource, action: action}
}

// WithFallback returns a copy of the gate that yields v on denial. A
// gate with an explicit fallback never emits a denial notice: the
// fallback is the denial surface.
func (g Gate[T]) WithFallback(v T) Gate[T] {
	g.fallback = v
	g.hasFallback = true
	return g
}

// WithDenialNotice returns a copy of the gate that surfaces a passive
// denial notice through n when content is withheld and no explicit
// fallback was configured.
func (g Gate[T]) WithDenialNotice(n Notifier) Gate[T] {
	g.notifier = n
	return g
}

// Select returns protected when the session may perform the gate's
// action on its resource, and the fallback otherwise.
func (g Gate[T]) Select(ctx context.Context, s *Session, protected T) T {
	if Allowed(s, g.resource, g.action) {
		return protected
	}
	if g.notifier != nil && !g.hasFallback {
		g.notifier.Notify(ctx, g.resource, g.action, DefaultDeniedMessage)
	}
	return g.fallback
}
