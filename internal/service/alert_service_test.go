package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"spotmap/internal/aggregation"
	"spotmap/internal/domain"
	"spotmap/internal/observability"
	"spotmap/internal/service"
	mock_service "spotmap/internal/service/mocks"
	"spotmap/pkg/e"
)

type alertDeps struct {
	spots  *mock_service.MockSpotRepository
	alerts *mock_service.MockAlertRepository
	cache  *mock_service.MockAggregateCache
	svc    service.Alerts
}

func newAlertDeps(t *testing.T) alertDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := alertDeps{
		spots:  mock_service.NewMockSpotRepository(ctrl),
		alerts: mock_service.NewMockAlertRepository(ctrl),
		cache:  mock_service.NewMockAggregateCache(ctrl),
	}
	d.svc = service.NewAlertService(d.spots, d.alerts, d.cache, observability.NewMetricsForTesting(), newTestLogger())
	return d
}

func TestAlertService_ListBySpot_ChecksSpotFirst(t *testing.T) {
	t.Parallel()

	d := newAlertDeps(t)
	id := uuid.New()
	d.spots.EXPECT().Get(gomock.Any(), id).Return(nil, e.ErrNotFound)
	d.alerts.EXPECT().ListBySpot(gomock.Any(), gomock.Any()).Times(0)

	if _, err := d.svc.ListBySpot(context.Background(), id); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAlertService_ListBySpot_OK(t *testing.T) {
	t.Parallel()

	d := newAlertDeps(t)
	id := uuid.New()
	d.spots.EXPECT().Get(gomock.Any(), id).Return(&domain.Spot{ID: id}, nil)
	d.alerts.EXPECT().ListBySpot(gomock.Any(), id).Return([]*domain.Alert{{SpotID: id}}, nil)

	got, err := d.svc.ListBySpot(context.Background(), id)
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
}

func TestAlertService_ListByTimeRange_ParsesBounds(t *testing.T) {
	t.Parallel()

	d := newAlertDeps(t)
	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)

	d.alerts.EXPECT().
		ListByTimeRange(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, start, end time.Time) ([]*domain.Alert, error) {
			if !start.Equal(wantStart) || !end.Equal(wantEnd) {
				t.Fatalf("unexpected bounds: %v .. %v", start, end)
			}
			return nil, nil
		})

	_, err := d.svc.ListByTimeRange(context.Background(), domain.TimeRangeRequest{Start: "2024-01-01", End: "2024-01-02T12:30:00+02:00"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestAlertService_ListByTimeRange_InvalidArgument(t *testing.T) {
	t.Parallel()

	reqs := []domain.TimeRangeRequest{
		{End: "2024-01-02"},
		{Start: "2024-01-01"},
		{Start: "yesterday", End: "2024-01-02"},
		{Start: "2024-01-03", End: "2024-01-02"},
	}
	for _, req := range reqs {
		d := newAlertDeps(t)
		d.alerts.EXPECT().ListByTimeRange(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		if _, err := d.svc.ListByTimeRange(context.Background(), req); !errors.Is(err, e.ErrInvalidArgument) {
			t.Fatalf("%+v: expected ErrInvalidArgument, got %v", req, err)
		}
	}
}

func sample(ts string, severity int) aggregation.Sample {
	t, _ := time.Parse(time.RFC3339, ts)
	return aggregation.Sample{Timestamp: t, Severity: severity}
}

func TestAlertService_Aggregate_CacheMissComputesAndStores(t *testing.T) {
	t.Parallel()

	d := newAlertDeps(t)

	d.cache.EXPECT().Generation(gomock.Any()).Return(int64(7), nil)
	d.cache.EXPECT().Get(gomock.Any(), int64(7), aggregation.PeriodDay).Return(nil, false, nil)
	d.alerts.EXPECT().
		ScanSamples(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(aggregation.Sample)) error {
			fn(sample("2024-01-01T01:00:00Z", 2))
			fn(sample("2024-01-01T05:00:00Z", 4))
			fn(sample("2024-01-02T05:00:00Z", 5))
			return nil
		})

	var stored []aggregation.Bucket
	d.cache.EXPECT().
		Set(gomock.Any(), int64(7), aggregation.PeriodDay, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ aggregation.Period, b []aggregation.Bucket) error {
			stored = b
			return nil
		})

	got, err := d.svc.Aggregate(context.Background(), "unknown-period")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].Count != 2 || got[0].AvgSeverity != 3 || got[1].Count != 1 {
		t.Fatalf("unexpected buckets: %+v", got)
	}
	if len(stored) != len(got) {
		t.Fatalf("expected computed buckets to be cached, got %+v", stored)
	}
}

func TestAlertService_Aggregate_CacheHitSkipsScan(t *testing.T) {
	t.Parallel()

	d := newAlertDeps(t)
	cached := aggregation.Aggregate(aggregation.PeriodMonth, []aggregation.Sample{sample("2024-01-01T01:00:00Z", 2)})

	d.cache.EXPECT().Generation(gomock.Any()).Return(int64(2), nil)
	d.cache.EXPECT().Get(gomock.Any(), int64(2), aggregation.PeriodMonth).Return(cached, true, nil)
	d.alerts.EXPECT().ScanSamples(gomock.Any(), gomock.Any()).Times(0)
	d.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	got, err := d.svc.Aggregate(context.Background(), "month")
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
}

func TestAlertService_Aggregate_CacheErrorFallsBackToScan(t *testing.T) {
	t.Parallel()

	d := newAlertDeps(t)

	d.cache.EXPECT().Generation(gomock.Any()).Return(int64(0), nil)
	d.cache.EXPECT().Get(gomock.Any(), int64(0), aggregation.PeriodHour).Return(nil, false, errors.New("redis down"))
	d.alerts.EXPECT().ScanSamples(gomock.Any(), gomock.Any()).Return(nil)
	d.cache.EXPECT().Set(gomock.Any(), int64(0), aggregation.PeriodHour, gomock.Any()).Return(errors.New("redis down"))

	got, err := d.svc.Aggregate(context.Background(), "hour")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no buckets, got %+v", got)
	}
}

func TestAlertService_Aggregate_UnknownGenerationIsNotStored(t *testing.T) {
	t.Parallel()

	d := newAlertDeps(t)

	d.cache.EXPECT().Generation(gomock.Any()).Return(int64(0), errors.New("redis down"))
	d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	d.alerts.EXPECT().ScanSamples(gomock.Any(), gomock.Any()).Return(nil)
	d.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	if _, err := d.svc.Aggregate(context.Background(), "week"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestAlertService_Aggregate_ScanErrorPropagates(t *testing.T) {
	t.Parallel()

	d := newAlertDeps(t)

	d.cache.EXPECT().Generation(gomock.Any()).Return(int64(0), nil)
	d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, false, nil)
	d.alerts.EXPECT().ScanSamples(gomock.Any(), gomock.Any()).Return(e.ErrStorage)
	d.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	if _, err := d.svc.Aggregate(context.Background(), "week"); !errors.Is(err, e.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

// memCache mirrors the generation semantics of the Redis cache.
type memCache struct {
	mu      sync.Mutex
	gen     int64
	entries map[string][]aggregation.Bucket
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]aggregation.Bucket{}}
}

func (c *memCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *memCache) Get(_ context.Context, gen int64, period aggregation.Period) ([]aggregation.Bucket, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[fmt.Sprintf("%d:%s", gen, period)]
	return b, ok, nil
}

func (c *memCache) Set(_ context.Context, gen int64, period aggregation.Period, buckets []aggregation.Bucket) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fmt.Sprintf("%d:%s", gen, period)] = buckets
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return nil
}

func TestAlertService_Aggregate_AlertCommittedDuringScanIsNotHidden(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	spots := mock_service.NewMockSpotRepository(ctrl)
	alerts := mock_service.NewMockAlertRepository(ctrl)
	tx := mock_service.NewMockTransactor(ctrl)
	passThroughTx(tx)

	cache := newMemCache()
	metrics := observability.NewMetricsForTesting()
	svc := service.NewAlertService(spots, alerts, cache, metrics, newTestLogger())
	creator := service.NewCategorySync(spots, alerts, tx, cache, newFakeClock(), metrics, newTestLogger())

	spotID := uuid.New()
	spots.EXPECT().Get(gomock.Any(), spotID).Return(&domain.Spot{ID: spotID, Category: domain.CategoryAlert}, nil)

	var committed []*domain.Alert
	alerts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a *domain.Alert) error {
		committed = append(committed, a)
		return nil
	})

	// The first scan reads a snapshot taken before the alert commits.
	firstScan := alerts.EXPECT().
		ScanSamples(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ func(aggregation.Sample)) error {
			_, err := creator.CreateAlertForSpot(ctx, domain.CreateAlertRequest{
				SpotID:    spotID.String(),
				AlertType: "traffic",
				Severity:  3,
			})
			return err
		})
	alerts.EXPECT().
		ScanSamples(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(aggregation.Sample)) error {
			for _, a := range committed {
				fn(aggregation.Sample{Timestamp: a.Timestamp, Severity: a.Severity})
			}
			return nil
		}).
		After(firstScan)

	before, err := svc.Aggregate(context.Background(), "day")
	if err != nil {
		t.Fatalf("first aggregate: %v", err)
	}
	if len(before) != 0 {
		t.Fatalf("expected the pre-commit snapshot to be empty, got %+v", before)
	}

	after, err := svc.Aggregate(context.Background(), "day")
	if err != nil {
		t.Fatalf("second aggregate: %v", err)
	}
	if len(after) != 1 || after[0].Count != 1 {
		t.Fatalf("committed alert missing from aggregation: %+v", after)
	}
}

func TestAlertService_Aggregate_SharedScanOutlivesCanceledCaller(t *testing.T) {
	t.Parallel()

	d := newAlertDeps(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	stored := make(chan []aggregation.Bucket, 1)

	d.cache.EXPECT().Generation(gomock.Any()).Return(int64(4), nil)
	d.cache.EXPECT().Get(gomock.Any(), int64(4), aggregation.PeriodDay).Return(nil, false, nil)
	d.alerts.EXPECT().
		ScanSamples(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(aggregation.Sample)) error {
			close(entered)
			<-release
			fn(sample("2024-01-01T01:00:00Z", 2))
			return ctx.Err()
		})
	d.cache.EXPECT().
		Set(gomock.Any(), int64(4), aggregation.PeriodDay, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ aggregation.Period, b []aggregation.Bucket) error {
			stored <- b
			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	callerErr := make(chan error, 1)
	go func() {
		_, err := d.svc.Aggregate(ctx, "day")
		callerErr <- err
	}()

	<-entered
	cancel()
	if err := <-callerErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the caller to see its own cancellation, got %v", err)
	}

	close(release)
	select {
	case b := <-stored:
		if len(b) != 1 {
			t.Fatalf("unexpected buckets: %+v", b)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not finish after the caller went away")
	}
}

func TestAlertService_Recent_LimitHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want int
	}{
		{"", service.DefaultRecentLimit},
		{"3", 3},
		{"1000", service.MaxRecentLimit},
	}
	for _, tt := range tests {
		d := newAlertDeps(t)
		d.alerts.EXPECT().ListRecent(gomock.Any(), tt.want).Return(nil, nil)

		if _, err := d.svc.Recent(context.Background(), tt.raw); err != nil {
			t.Fatalf("limit %q: unexpected err: %v", tt.raw, err)
		}
	}

	for _, raw := range []string{"0", "-1", "ten"} {
		d := newAlertDeps(t)
		d.alerts.EXPECT().ListRecent(gomock.Any(), gomock.Any()).Times(0)

		if _, err := d.svc.Recent(context.Background(), raw); !errors.Is(err, e.ErrInvalidArgument) {
			t.Fatalf("limit %q: expected ErrInvalidArgument, got %v", raw, err)
		}
	}
}

func TestAlertService_TypeBreakdown(t *testing.T) {
	t.Parallel()

	d := newAlertDeps(t)
	want := []domain.AlertTypeCount{{AlertType: domain.AlertTraffic, Count: 4}}
	d.alerts.EXPECT().CountByType(gomock.Any()).Return(want, nil)

	got, err := d.svc.TypeBreakdown(context.Background())
	if err != nil || len(got) != 1 || got[0].Count != 4 {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}
}
