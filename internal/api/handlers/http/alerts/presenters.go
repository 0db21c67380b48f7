package alerts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"spotmap/pkg/e"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r).With(
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	switch {
	case errors.Is(err, e.ErrNotFound):
		l.Warn("handler error")
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case e.IsValidation(err), errors.Is(err, e.ErrInvalidArgument):
		l.Warn("handler error")
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, e.ErrUnauthenticated):
		l.Warn("handler error")
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "caller identity required"})
	default:
		l.Error("handler error")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
