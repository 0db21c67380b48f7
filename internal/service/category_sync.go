package service

import (
	"context"
	"fmt"
	"log/slog"

	"spotmap/internal/domain"
	"spotmap/internal/observability"
	"spotmap/pkg/e"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type categorySync struct {
	spots   SpotRepository
	alerts  AlertRepository
	tx      Transactor
	cache   AggregateCache
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewCategorySync(
	spots SpotRepository,
	alerts AlertRepository,
	tx Transactor,
	cache AggregateCache,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	logger *slog.Logger,
) AlertCreator {
	return &categorySync{
		spots:   spots,
		alerts:  alerts,
		tx:      tx,
		cache:   cache,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// CreateAlertForSpot stores an alert and switches the spot's category to alert
// if it is not already. Both writes commit or roll back together.
func (c *categorySync) CreateAlertForSpot(ctx context.Context, req domain.CreateAlertRequest) (*domain.Alert, error) {
	spotID, err := uuid.Parse(req.SpotID)
	if err != nil {
		return nil, e.Validation(fmt.Sprintf("spotId %q is not a uuid", req.SpotID))
	}

	var (
		alert    *domain.Alert
		promoted bool
	)
	err = c.tx.WithinTx(ctx, func(ctx context.Context) error {
		spot, err := c.spots.Get(ctx, spotID)
		if err != nil {
			return err
		}

		now := c.clock.Now().UTC()
		alert, err = domain.NewAlert(domain.AlertDraft{
			SpotID:    spotID,
			AlertType: req.AlertType,
			Severity:  req.Severity,
			Metadata:  req.Metadata,
		}, now)
		if err != nil {
			return err
		}

		if spot.Category != domain.CategoryAlert {
			category := domain.CategoryAlert
			if _, err := c.spots.Update(ctx, spotID, domain.SpotPatch{Category: &category, UpdatedAt: now}); err != nil {
				return err
			}
			promoted = true
		}

		return c.alerts.Create(ctx, alert)
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Invalidate(ctx); err != nil {
			c.logger.Warn("aggregation cache invalidate failed", slog.Any("error", err))
		}
	}

	c.metrics.AlertsCreated.WithLabelValues(string(alert.AlertType)).Inc()
	if promoted {
		c.metrics.SpotsPromoted.Inc()
	}
	c.logger.Info("alert created",
		slog.String("id", alert.ID.String()),
		slog.String("spot_id", spotID.String()),
		slog.String("alert_type", string(alert.AlertType)),
		slog.Int("severity", alert.Severity),
		slog.Bool("spot_promoted", promoted),
		slog.Any("metadata", alert.Metadata),
	)
	return alert, nil
}
