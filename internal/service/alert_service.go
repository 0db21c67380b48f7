package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"spotmap/internal/aggregation"
	"spotmap/internal/domain"
	"spotmap/internal/observability"
	"spotmap/pkg/e"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

type alertService struct {
	spots   SpotRepository
	alerts  AlertRepository
	cache   AggregateCache
	metrics *observability.Metrics
	logger  *slog.Logger
	group   singleflight.Group
}

// NewAlertService builds the read side of the alert store. cache may be nil,
// in which case every aggregation scans the table.
func NewAlertService(
	spots SpotRepository,
	alerts AlertRepository,
	cache AggregateCache,
	metrics *observability.Metrics,
	logger *slog.Logger,
) Alerts {
	return &alertService{
		spots:   spots,
		alerts:  alerts,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *alertService) ListAll(ctx context.Context) ([]*domain.Alert, error) {
	return s.alerts.ListAll(ctx)
}

func (s *alertService) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]*domain.Alert, error) {
	if _, err := s.spots.Get(ctx, spotID); err != nil {
		return nil, err
	}
	return s.alerts.ListBySpot(ctx, spotID)
}

func (s *alertService) ListByTimeRange(ctx context.Context, req domain.TimeRangeRequest) ([]*domain.Alert, error) {
	start, err := parseTime("start", req.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseTime("end", req.End)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, e.InvalidArgument("start must not be after end")
	}
	return s.alerts.ListByTimeRange(ctx, start, end)
}

// parseTime accepts RFC 3339 timestamps and bare dates, the latter read as UTC midnight.
func parseTime(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, e.InvalidArgument(name + " is required")
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, e.InvalidArgument(fmt.Sprintf("%s %q is not an RFC 3339 time or YYYY-MM-DD date", name, raw))
}

func (s *alertService) Aggregate(ctx context.Context, periodRaw string) ([]aggregation.Bucket, error) {
	period := aggregation.ParsePeriod(periodRaw)

	// generation stays -1 when the cache is off or unreachable; nothing is stored then.
	generation := int64(-1)
	if s.cache != nil {
		buckets, gen, ok := s.cached(ctx, period)
		if ok {
			return buckets, nil
		}
		generation = gen
	}

	// Callers that join a flight share one scan, which must outlive any single caller.
	ch := s.group.DoChan(fmt.Sprintf("%s@%d", period, generation), func() (interface{}, error) {
		return s.aggregate(context.WithoutCancel(ctx), period, generation)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]aggregation.Bucket), nil
	}
}

func (s *alertService) cached(ctx context.Context, period aggregation.Period) ([]aggregation.Bucket, int64, bool) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.metrics.AggregationCache.WithLabelValues("error").Inc()
		s.logger.Warn("aggregation cache generation failed", slog.String("period", string(period)), slog.Any("error", err))
		return nil, -1, false
	}

	buckets, ok, err := s.cache.Get(ctx, gen, period)
	switch {
	case err != nil:
		s.metrics.AggregationCache.WithLabelValues("error").Inc()
		s.logger.Warn("aggregation cache get failed", slog.String("period", string(period)), slog.Any("error", err))
	case ok:
		s.metrics.AggregationCache.WithLabelValues("hit").Inc()
		return buckets, gen, true
	default:
		s.metrics.AggregationCache.WithLabelValues("miss").Inc()
	}
	return nil, gen, false
}

func (s *alertService) aggregate(ctx context.Context, period aggregation.Period, generation int64) ([]aggregation.Bucket, error) {
	started := time.Now()

	acc := aggregation.NewAccumulator(period)
	if err := s.alerts.ScanSamples(ctx, acc.Add); err != nil {
		return nil, err
	}
	buckets := acc.Buckets()

	s.metrics.AggregationDuration.WithLabelValues(string(period)).Observe(time.Since(started).Seconds())

	if s.cache != nil && generation >= 0 {
		if err := s.cache.Set(ctx, generation, period, buckets); err != nil {
			s.logger.Warn("aggregation cache set failed", slog.String("period", string(period)), slog.Any("error", err))
		}
	}

	s.logger.Debug("aggregation computed", slog.String("period", string(period)), slog.Int("buckets", len(buckets)))
	return buckets, nil
}

func (s *alertService) Recent(ctx context.Context, limitRaw string) ([]*domain.Alert, error) {
	limit := DefaultRecentLimit
	if raw := strings.TrimSpace(limitRaw); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, e.InvalidArgument(fmt.Sprintf("limit %q must be a positive integer", raw))
		}
		limit = min(n, MaxRecentLimit)
	}
	return s.alerts.ListRecent(ctx, limit)
}

func (s *alertService) TypeBreakdown(ctx context.Context) ([]domain.AlertTypeCount, error) {
	return s.alerts.CountByType(ctx)
}
