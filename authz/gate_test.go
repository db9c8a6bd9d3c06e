package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateSelect(t *testing.T) {
	ctx := context.Background()

	t.Run("renders protected content iff allowed", func(t *testing.T) {
		s := NewSession("user-1", Grant{Resource: ResourceDrivers, Action: ActionRead})

		readGate := NewGate[string](ResourceDrivers, ActionRead)
		writeGate := NewGate[string](ResourceDrivers, ActionWrite)

		assert.Equal(t, "license-123", readGate.Select(ctx, s, "license-123"))
		assert.Equal(t, "", writeGate.Select(ctx, s, "license-123"))
	})

	t.Run("fallback is returned on denial", func(t *testing.T) {
		s := NewSession("user-1", Grant{Resource: ResourceDrivers, Action: ActionRead})

		gate := NewGate[string](ResourceDrivers, ActionWrite).WithFallback("redacted")
		assert.Equal(t, "redacted", gate.Select(ctx, s, "license-123"))
	})

	t.Run("denial notice fires only without explicit fallback", func(t *testing.T) {
		s := NewSession("user-1")

		noticed := &recordingNotifier{}
		gate := NewGate[int](ResourceVehicles, ActionRead).WithDenialNotice(noticed)
		assert.Equal(t, 0, gate.Select(ctx, s, 42))
		require.Len(t, noticed.notices, 1)
		assert.Equal(t, DefaultDeniedMessage, noticed.notices[0])

		silent := &recordingNotifier{}
		fallbackGate := NewGate[int](ResourceVehicles, ActionRead).
			WithFallback(-1).
			WithDenialNotice(silent)
		assert.Equal(t, -1, fallbackGate.Select(ctx, s, 42))
		assert.Empty(t, silent.notices)
	})

	t.Run("no notice when allowed", func(t *testing.T) {
		s := NewSession("user-1", Grant{Resource: ResourceIssues, Action: ActionRead})
		notifier := &recordingNotifier{}

		gate := NewGate[string](ResourceIssues, ActionRead).WithDenialNotice(notifier)
		assert.Equal(t, "body", gate.Select(ctx, s, "body"))
		assert.Empty(t, notifier.notices)
	})

	t.Run("re-evaluates per call against the session handed in", func(t *testing.T) {
		gate := NewGate[string](ResourceUsers, ActionRead)

		granted := NewSession("user-1", Grant{Resource: ResourceUsers, Action: ActionRead})
		revoked := NewSession("user-1")

		assert.Equal(t, "emails", gate.Select(ctx, granted, "emails"))
		assert.Equal(t, "", gate.Select(ctx, revoked, "emails"))
	})
}
