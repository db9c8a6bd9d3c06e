package middleware

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/utils"
)

// DenialRecorder records denied attempts for the audit trail
type DenialRecorder interface {
	RecordDenial(ctx context.Context, subject string, resource authz.Resource, action authz.Action, requestID string)
}

// PermissionMiddleware gates routes on the session's grant set. It is
// the HTTP projection of the authz guard: denied requests get a 403
// body instead of reaching the handler, and the handler is invoked at
// most once per request.
type PermissionMiddleware struct {
	notifier authz.Notifier
	recorder DenialRecorder
	logger   *zap.Logger
}

// NewPermissionMiddleware creates a new PermissionMiddleware. The
// recorder may be nil, in which case denials are only logged.
func NewPermissionMiddleware(recorder DenialRecorder, logger *zap.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{
		notifier: authz.NewLogNotifier(logger),
		recorder: recorder,
		logger:   logger,
	}
}

// Require returns middleware that rejects requests whose session lacks
// the (resource, action) grant. This should be mounted after
// RequireAuth; an unauthenticated request gets 401.
func (m *PermissionMiddleware) Require(resource authz.Resource, action authz.Action) func(http.Handler) http.Handler {
	guard := authz.NewGuard(resource, action).WithAlert(m.notifier)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			session := SessionFromContext(ctx)
			if session == nil {
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			invoked, _ := guard.Do(ctx, session, func(ctx context.Context) error {
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
			if !invoked {
				if m.recorder != nil {
					m.recorder.RecordDenial(ctx, session.Subject(), resource, action, chimw.GetReqID(ctx))
				}
				_ = utils.WriteForbidden(w, authz.DefaultDeniedMessage)
			}
		})
	}
}
