package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubHealthChecker struct {
	err error
}

func (s *stubHealthChecker) HealthCheck(ctx context.Context) error {
	return s.err
}

func TestHealthHandler_HandleHealthz(t *testing.T) {
	h := NewHealthHandler(&stubHealthChecker{err: errors.New("db down")}, "1.2.3", zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	// liveness ignores dependency state
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), "1.2.3")
}

func TestHealthHandler_HandleReadyz(t *testing.T) {
	t.Run("ready when database responds", func(t *testing.T) {
		h := NewHealthHandler(&stubHealthChecker{}, "1.2.3", zap.NewNop())

		rec := httptest.NewRecorder()
		h.HandleReadyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ready"`)
	})

	t.Run("degraded when database is unreachable", func(t *testing.T) {
		h := NewHealthHandler(&stubHealthChecker{err: errors.New("connection refused")}, "1.2.3", zap.NewNop())

		rec := httptest.NewRecorder()
		h.HandleReadyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	})
}
