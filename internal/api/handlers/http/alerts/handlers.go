package alerts

import (
	"context"
	"log/slog"
	"net/http"

	"spotmap/internal/aggregation"
	"spotmap/internal/domain"
	"spotmap/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Alerts interface {
	ListAll(ctx context.Context) ([]*domain.Alert, error)
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]*domain.Alert, error)
	ListByTimeRange(ctx context.Context, req domain.TimeRangeRequest) ([]*domain.Alert, error)
	Aggregate(ctx context.Context, periodRaw string) ([]aggregation.Bucket, error)
	Recent(ctx context.Context, limitRaw string) ([]*domain.Alert, error)
	TypeBreakdown(ctx context.Context) ([]domain.AlertTypeCount, error)
}

type AlertCreator interface {
	CreateAlertForSpot(ctx context.Context, req domain.CreateAlertRequest) (*domain.Alert, error)
}

type Handler struct {
	logger  *slog.Logger
	Alerts  Alerts
	Creator AlertCreator
}

func NewHandler(logger *slog.Logger, alerts Alerts, creator AlertCreator) *Handler {
	return &Handler{
		logger:  logger,
		Alerts:  alerts,
		Creator: creator,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) AlertCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AlertCreate", slog.String("remote", r.RemoteAddr))

	req, err := middleware.BindJSON[domain.CreateAlertRequest](w, r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	alert, err := h.Creator.CreateAlertForSpot(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("alert created", slog.String("id", alert.ID.String()), slog.String("spot_id", alert.SpotID.String()))
	h.writeJSON(w, http.StatusCreated, alert)
}

func (h *Handler) AlertList(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Alerts.ListAll(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orEmpty(alerts))
}

func (h *Handler) AlertRecent(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Alerts.Recent(r.Context(), r.URL.Query().Get("limit"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orEmpty(alerts))
}

func (h *Handler) AlertTypes(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Alerts.TypeBreakdown(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orEmpty(counts))
}

func (h *Handler) AlertTimeRange(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AlertTimeRange", slog.String("query", r.URL.RawQuery))

	q := r.URL.Query()
	alerts, err := h.Alerts.ListByTimeRange(r.Context(), domain.TimeRangeRequest{
		Start: q.Get("start"),
		End:   q.Get("end"),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orEmpty(alerts))
}

func (h *Handler) AlertAggregation(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.Alerts.Aggregate(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orEmpty(buckets))
}

func (h *Handler) AlertsBySpot(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "spotId")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.log(r).Warn("invalid spot id", slog.String("spot_id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid spot id"})
		return
	}

	alerts, err := h.Alerts.ListBySpot(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orEmpty(alerts))
}
