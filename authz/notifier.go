package authz

import (
	"context"

	"go.uber.org/zap"
)

// DefaultDeniedMessage is the generic denial notice used when a Gate or
// Guard was not configured with a specific one.
const DefaultDeniedMessage = "You do not have permission to perform this action"

// Notifier receives denial notices from gates and guards. Notices are
// passive: emitting one must never block or fail the caller.
type Notifier interface {
	Notify(ctx context.Context, resource Resource, action Action, message string)
}

// LogNotifier emits denial notices as structured warn logs.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(_ context.Context, resource Resource, action Action, message string) {
	n.logger.Warn("permission denied",
		zap.String("resource", resource.String()),
		zap.String("action", action.String()),
		zap.String("message", message))
}
