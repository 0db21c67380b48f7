package spots

import (
	"context"
	"log/slog"
	"net/http"

	"spotmap/internal/domain"
	"spotmap/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Spots interface {
	Create(ctx context.Context, author string, req domain.CreateSpotRequest) (*domain.Spot, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Spot, error)
	Update(ctx context.Context, id uuid.UUID, req domain.UpdateSpotRequest) (*domain.Spot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindNear(ctx context.Context, req domain.NearbyRequest) ([]domain.NearbySpot, error)
	List(ctx context.Context, req domain.ListSpotsRequest) ([]*domain.Spot, error)
}

type SpotAlerts interface {
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]*domain.Alert, error)
}

type Handler struct {
	logger *slog.Logger
	Spots  Spots
	Alerts SpotAlerts
}

func NewHandler(logger *slog.Logger, spots Spots, alerts SpotAlerts) *Handler {
	return &Handler{
		logger: logger,
		Spots:  spots,
		Alerts: alerts,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) SpotCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("SpotCreate", slog.String("remote", r.RemoteAddr))

	req, err := middleware.BindJSON[domain.CreateSpotRequest](w, r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	spot, err := h.Spots.Create(r.Context(), middleware.CallerID(r.Context()), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("spot created", slog.String("id", spot.ID.String()))
	h.writeJSON(w, http.StatusCreated, spot)
}

func (h *Handler) SpotList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("SpotList", slog.String("query", r.URL.RawQuery))

	q := r.URL.Query()
	spots, err := h.Spots.List(r.Context(), domain.ListSpotsRequest{
		Category: q.Get("category"),
		Author:   q.Get("author"),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, orEmpty(spots))
}

// SpotNearby accepts radius_km, or distance as an alias.
func (h *Handler) SpotNearby(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("SpotNearby", slog.String("query", r.URL.RawQuery))

	q := r.URL.Query()
	radius := q.Get("radius_km")
	if radius == "" {
		radius = q.Get("distance")
	}

	spots, err := h.Spots.FindNear(r.Context(), domain.NearbyRequest{
		Lat:      q.Get("lat"),
		Lng:      q.Get("lng"),
		RadiusKM: radius,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, orEmpty(spots))
}

func (h *Handler) SpotGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	spot, err := h.Spots.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, spot)
}

// SpotUpdate serves both PUT and PATCH; only supplied fields change.
func (h *Handler) SpotUpdate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	req, err := middleware.BindJSON[domain.UpdateSpotRequest](w, r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	spot, err := h.Spots.Update(r.Context(), id, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("spot updated", slog.String("id", id.String()))
	h.writeJSON(w, http.StatusOK, spot)
}

func (h *Handler) SpotDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Spots.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SpotAlertList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	alerts, err := h.Alerts.ListBySpot(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, orEmpty(alerts))
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, param)
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.log(r).Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
