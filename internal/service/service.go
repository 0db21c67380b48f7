package service

import (
	"context"
	"time"

	"spotmap/internal/aggregation"
	"spotmap/internal/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
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

// Transactor runs fn inside one database transaction carried by ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AggregateCache stores aggregation results per period under a generation.
// Invalidate starts a new generation, so a Set made with an older one is never
// returned by Get. A miss is (nil, false, nil).
type AggregateCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64, period aggregation.Period) ([]aggregation.Bucket, bool, error)
	Set(ctx context.Context, generation int64, period aggregation.Period, buckets []aggregation.Bucket) error
	Invalidate(ctx context.Context) error
}
