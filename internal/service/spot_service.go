package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"spotmap/internal/domain"
	"spotmap/internal/observability"
	"spotmap/pkg/e"
	"spotmap/pkg/validator"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cast"
)

type spotService struct {
	repo            SpotRepository
	clock           clockwork.Clock
	metrics         *observability.Metrics
	logger          *slog.Logger
	defaultRadiusKm float64
}

func NewSpotService(
	repo SpotRepository,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	logger *slog.Logger,
	defaultRadiusKm float64,
) Spots {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = 5
	}
	return &spotService{
		repo:            repo,
		clock:           clock,
		metrics:         metrics,
		logger:          logger,
		defaultRadiusKm: defaultRadiusKm,
	}
}

func (s *spotService) Create(ctx context.Context, author string, req domain.CreateSpotRequest) (*domain.Spot, error) {
	if strings.TrimSpace(author) == "" {
		return nil, e.ErrUnauthenticated
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, e.Validation("title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, e.Validation("description is required")
	}
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	point, err := domain.NormalizePoint(req.Lng, req.Lat)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	spot := &domain.Spot{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Location:    point,
		Author:      author,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, spot); err != nil {
		return nil, err
	}

	s.metrics.SpotsCreated.Inc()
	s.logger.Info("spot created",
		slog.String("id", spot.ID.String()),
		slog.String("category", string(spot.Category)),
		slog.String("author", author),
	)
	return spot, nil
}

func (s *spotService) Get(ctx context.Context, id uuid.UUID) (*domain.Spot, error) {
	return s.repo.Get(ctx, id)
}

func (s *spotService) Update(ctx context.Context, id uuid.UUID, req domain.UpdateSpotRequest) (*domain.Spot, error) {
	var patch domain.SpotPatch

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, e.Validation("title must not be empty")
		}
		patch.Title = req.Title
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, e.Validation("description must not be empty")
		}
		patch.Description = req.Description
	}
	if req.Category != nil {
		category, err := domain.ParseCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		patch.Category = &category
	}

	switch {
	case req.Lng == nil && req.Lat == nil:
	case req.Lng == nil || req.Lat == nil:
		return nil, fmt.Errorf("%w: incomplete coordinates, lng and lat must be supplied together", e.ErrInvalidCoordinates)
	default:
		point, err := domain.NormalizePoint(req.Lng, req.Lat)
		if err != nil {
			return nil, err
		}
		patch.Location = &point
	}

	patch.UpdatedAt = s.clock.Now().UTC()

	spot, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("spot updated", slog.String("id", id.String()))
	return spot, nil
}

func (s *spotService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.SpotsDeleted.Inc()
	s.logger.Info("spot deleted", slog.String("id", id.String()))
	return nil
}

func (s *spotService) FindNear(ctx context.Context, req domain.NearbyRequest) ([]domain.NearbySpot, error) {
	if strings.TrimSpace(req.Lat) == "" || strings.TrimSpace(req.Lng) == "" {
		return nil, e.InvalidArgument("lat and lng are required")
	}
	center, err := domain.NormalizePoint(req.Lng, req.Lat)
	if err != nil {
		return nil, e.InvalidArgument(err.Error())
	}

	radiusKm := s.defaultRadiusKm
	if raw := strings.TrimSpace(req.RadiusKM); raw != "" {
		radiusKm, err = cast.ToFloat64E(raw)
		if err != nil {
			return nil, e.InvalidArgument(fmt.Sprintf("radius %q is not a number", raw))
		}
	}
	if err := validator.ValidateVar(radiusKm, "radius_km"); err != nil {
		return nil, e.InvalidArgument(fmt.Sprintf("radius %v km must be positive and at most half the equator", radiusKm))
	}

	spots, err := s.repo.FindNear(ctx, center, radiusKm*1000)
	if err != nil {
		return nil, err
	}

	s.metrics.NearbyResults.Observe(float64(len(spots)))
	s.logger.Debug("nearby query done",
		slog.Float64("lng", center.Lng),
		slog.Float64("lat", center.Lat),
		slog.Float64("radius_km", radiusKm),
		slog.Int("found", len(spots)),
	)
	return spots, nil
}

func (s *spotService) List(ctx context.Context, req domain.ListSpotsRequest) ([]*domain.Spot, error) {
	var filter domain.SpotFilter
	if req.Category != "" {
		category, err := domain.ParseCategory(req.Category)
		if err != nil {
			return nil, err
		}
		filter.Category = &category
	}
	filter.Author = strings.TrimSpace(req.Author)

	return s.repo.List(ctx, filter)
}
