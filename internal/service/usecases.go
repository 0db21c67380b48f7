package service

import (
	"context"

	"spotmap/internal/aggregation"
	"spotmap/internal/domain"

	"github.com/google/uuid"
)

type Spots interface {
	Create(ctx context.Context, author string, req domain.CreateSpotRequest) (*domain.Spot, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Spot, error)
	Update(ctx context.Context, id uuid.UUID, req domain.UpdateSpotRequest) (*domain.Spot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindNear(ctx context.Context, req domain.NearbyRequest) ([]domain.NearbySpot, error)
	List(ctx context.Context, req domain.ListSpotsRequest) ([]*domain.Spot, error)
}

type Alerts interface {
	ListAll(ctx context.Context) ([]*domain.Alert, error)
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]*domain.Alert, error)
	ListByTimeRange(ctx context.Context, req domain.TimeRangeRequest) ([]*domain.Alert, error)
	Aggregate(ctx context.Context, periodRaw string) ([]aggregation.Bucket, error)
	Recent(ctx context.Context, limitRaw string) ([]*domain.Alert, error)
	TypeBreakdown(ctx context.Context) ([]domain.AlertTypeCount, error)
}

// AlertCreator creates an alert and keeps the owning spot's category in sync.
type AlertCreator interface {
	CreateAlertForSpot(ctx context.Context, req domain.CreateAlertRequest) (*domain.Alert, error)
}

type Service struct {
	Spots        Spots
	Alerts       Alerts
	AlertCreator AlertCreator
}

func NewService(spots Spots, alerts Alerts, creator AlertCreator) *Service {
	return &Service{
		Spots:        spots,
		Alerts:       alerts,
		AlertCreator: creator,
	}
}
