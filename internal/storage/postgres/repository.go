package postgres

import (
	"context"
	"time"

	"spotmap/internal/aggregation"
	"spotmap/internal/domain"

	"github.com/google/uuid"
)

type SpotRepository interface {
	Create(ctx context.Context, spot *domain.Spot) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Spot, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.SpotPatch) (*domain.Spot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindNear(ctx context.Context, center domain.Point, radiusM float64) ([]domain.NearbySpot, error)
	List(ctx context.Context, filter domain.SpotFilter) ([]*domain.Spot, error)
}

type AlertRepository interface {
	Create(ctx context.Context, alert *domain.Alert) error
	ListAll(ctx context.Context) ([]*domain.Alert, error)
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]*domain.Alert, error)
	ListByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Alert, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Alert, error)
	CountByType(ctx context.Context) ([]domain.AlertTypeCount, error)
	ScanSamples(ctx context.Context, fn func(aggregation.Sample)) error
}

func (p *Postgres) SpotStore() SpotRepository   { return p.Spots }
func (p *Postgres) AlertStore() AlertRepository { return p.Alerts }
func (p *Postgres) Transactor() *Transactor     { return p.Tx }
