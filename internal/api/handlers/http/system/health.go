package system

import (
	"context"
	"net/http"
	"time"

	"log/slog"
)

// ReadinessChecker is satisfied by every backing store the service needs.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

type Handler struct {
	logger *slog.Logger
	checks map[string]ReadinessChecker
}

func NewHandler(logger *slog.Logger, checks map[string]ReadinessChecker) *Handler {
	return &Handler{logger: logger, checks: checks}
}

func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) SystemReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for name, c := range h.checks {
		if err := c.CheckReadiness(ctx); err != nil {
			h.logger.Warn("readiness check failed", slog.String("dependency", name), slog.Any("error", err))
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(name + " unavailable"))
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
