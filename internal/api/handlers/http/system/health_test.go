package system

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

func TestSystemReady(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := checkFunc(func(context.Context) error { return nil })
	down := checkFunc(func(context.Context) error { return errors.New("connection refused") })

	rr := httptest.NewRecorder()
	NewHandler(logger, map[string]ReadinessChecker{"postgres": ok, "redis": ok}).
		SystemReady(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	NewHandler(logger, map[string]ReadinessChecker{"postgres": ok, "redis": down}).
		SystemReady(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "redis unavailable", rr.Body.String())
}

func TestSystemHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil).
		SystemHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}
