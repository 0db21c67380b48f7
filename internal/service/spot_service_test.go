package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"spotmap/internal/domain"
	"spotmap/internal/observability"
	"spotmap/internal/service"
	mock_service "spotmap/internal/service/mocks"
	"spotmap/pkg/e"
)

func newSpotService(t *testing.T) (*mock_service.MockSpotRepository, service.Spots) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockSpotRepository(ctrl)
	return repo, service.NewSpotService(repo, newFakeClock(), observability.NewMetricsForTesting(), newTestLogger(), 5)
}

func TestSpotService_Create_OK_Defaults(t *testing.T) {
	t.Parallel()

	repo, svc := newSpotService(t)

	var got *domain.Spot
	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.Spot) error {
			got = s
			return nil
		}).
		Times(1)

	spot, err := svc.Create(context.Background(), "user-1", domain.CreateSpotRequest{
		Title:       "Café X",
		Description: "coffee",
		Lat:         "49.281441",
		Lng:         -123.055913,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != spot {
		t.Fatalf("repo should receive the returned spot")
	}
	if spot.ID == uuid.Nil || spot.Category != domain.CategoryOther || spot.Author != "user-1" {
		t.Fatalf("unexpected spot: %+v", spot)
	}
	if spot.Location != (domain.Point{Lng: -123.055913, Lat: 49.281441}) {
		t.Fatalf("unexpected location: %+v", spot.Location)
	}
	if !spot.CreatedAt.Equal(fixedNow) || !spot.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("timestamps should come from the clock: %+v", spot)
	}
}

func TestSpotService_Create_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		author string
		req    domain.CreateSpotRequest
		want   error
	}{
		{"anonymous", "", domain.CreateSpotRequest{Title: "a", Description: "b", Lat: 1, Lng: 1}, e.ErrUnauthenticated},
		{"empty title", "u", domain.CreateSpotRequest{Title: " ", Description: "b", Lat: 1, Lng: 1}, e.ErrValidation},
		{"empty description", "u", domain.CreateSpotRequest{Title: "a", Lat: 1, Lng: 1}, e.ErrValidation},
		{"bad category", "u", domain.CreateSpotRequest{Title: "a", Description: "b", Category: "shop", Lat: 1, Lng: 1}, e.ErrValidation},
		{"lat out of range", "u", domain.CreateSpotRequest{Title: "a", Description: "b", Lat: 91, Lng: 0}, e.ErrInvalidCoordinates},
		{"lng not numeric", "u", domain.CreateSpotRequest{Title: "a", Description: "b", Lat: 0, Lng: "abc"}, e.ErrInvalidCoordinates},
		{"lat missing", "u", domain.CreateSpotRequest{Title: "a", Description: "b", Lng: 0}, e.ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := newSpotService(t)
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

			_, err := svc.Create(context.Background(), tt.author, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSpotService_Update_OnlySuppliedFields(t *testing.T) {
	t.Parallel()

	repo, svc := newSpotService(t)
	id := uuid.New()

	repo.EXPECT().
		Update(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, p domain.SpotPatch) (*domain.Spot, error) {
			if p.Title == nil || *p.Title != "New" {
				t.Fatalf("expected title patch, got %+v", p)
			}
			if p.Description != nil || p.Category != nil || p.Location != nil {
				t.Fatalf("unexpected fields in patch: %+v", p)
			}
			if !p.UpdatedAt.Equal(fixedNow) {
				t.Fatalf("UpdatedAt should come from the clock, got %v", p.UpdatedAt)
			}
			return &domain.Spot{ID: id, Title: "New"}, nil
		})

	if _, err := svc.Update(context.Background(), id, domain.UpdateSpotRequest{Title: strPtr("New")}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestSpotService_Update_MovesLocation(t *testing.T) {
	t.Parallel()

	repo, svc := newSpotService(t)
	id := uuid.New()

	repo.EXPECT().
		Update(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, p domain.SpotPatch) (*domain.Spot, error) {
			if p.Location == nil || *p.Location != (domain.Point{Lng: 2.3522, Lat: 48.8566}) {
				t.Fatalf("unexpected location patch: %+v", p.Location)
			}
			return &domain.Spot{ID: id, Location: *p.Location}, nil
		})

	if _, err := svc.Update(context.Background(), id, domain.UpdateSpotRequest{Lat: 48.8566, Lng: "2.3522"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestSpotService_Update_Rejects(t *testing.T) {
	t.Parallel()

	other := "shop"
	tests := []struct {
		name string
		req  domain.UpdateSpotRequest
		want error
	}{
		{"empty title", domain.UpdateSpotRequest{Title: strPtr("")}, e.ErrValidation},
		{"blank description", domain.UpdateSpotRequest{Description: strPtr("  ")}, e.ErrValidation},
		{"bad category", domain.UpdateSpotRequest{Category: &other}, e.ErrValidation},
		{"lat only", domain.UpdateSpotRequest{Lat: 10}, e.ErrInvalidCoordinates},
		{"lng out of range", domain.UpdateSpotRequest{Lat: 10, Lng: 200}, e.ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := newSpotService(t)
			repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			_, err := svc.Update(context.Background(), uuid.New(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !e.IsValidation(err) {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestSpotService_FindNear_PassesMetersAndOrder(t *testing.T) {
	t.Parallel()

	repo, svc := newSpotService(t)

	paris := domain.NearbySpot{Spot: domain.Spot{Title: "Paris"}, DistanceM: 0}
	repo.EXPECT().
		FindNear(gomock.Any(), domain.Point{Lng: 2.3522, Lat: 48.8566}, 50_000.0).
		Return([]domain.NearbySpot{paris}, nil).
		Times(1)

	got, err := svc.FindNear(context.Background(), domain.NearbyRequest{Lat: "48.8566", Lng: "2.3522", RadiusKM: "50"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Paris" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestSpotService_FindNear_DefaultRadius(t *testing.T) {
	t.Parallel()

	repo, svc := newSpotService(t)
	repo.EXPECT().FindNear(gomock.Any(), gomock.Any(), 5_000.0).Return(nil, nil).Times(1)

	if _, err := svc.FindNear(context.Background(), domain.NearbyRequest{Lat: "0", Lng: "0"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestSpotService_FindNear_InvalidArgument(t *testing.T) {
	t.Parallel()

	reqs := []domain.NearbyRequest{
		{Lng: "2.35"},
		{Lat: "48.85"},
		{Lat: "abc", Lng: "2.35"},
		{Lat: "95", Lng: "2.35"},
		{Lat: "48.85", Lng: "2.35", RadiusKM: "0"},
		{Lat: "48.85", Lng: "2.35", RadiusKM: "-1"},
		{Lat: "48.85", Lng: "2.35", RadiusKM: "far"},
	}

	for _, req := range reqs {
		repo, svc := newSpotService(t)
		repo.EXPECT().FindNear(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.FindNear(context.Background(), req)
		if !errors.Is(err, e.ErrInvalidArgument) {
			t.Fatalf("%+v: expected ErrInvalidArgument, got %v", req, err)
		}
	}
}

func TestSpotService_List_Filter(t *testing.T) {
	t.Parallel()

	repo, svc := newSpotService(t)
	cat := domain.CategoryEvent
	repo.EXPECT().
		List(gomock.Any(), domain.SpotFilter{Category: &cat, Author: "user-1"}).
		Return([]*domain.Spot{{Title: "A"}}, nil)

	got, err := svc.List(context.Background(), domain.ListSpotsRequest{Category: "event", Author: " user-1 "})
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
}

func TestSpotService_Delete_PropagatesNotFound(t *testing.T) {
	t.Parallel()

	repo, svc := newSpotService(t)
	id := uuid.New()
	repo.EXPECT().Delete(gomock.Any(), id).Return(e.ErrNotFound)

	if err := svc.Delete(context.Background(), id); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
