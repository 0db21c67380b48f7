package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"spotmap/internal/aggregation"

	"github.com/jonboulle/clockwork"
)

type Aggregator interface {
	Aggregate(ctx context.Context, periodRaw string) ([]aggregation.Bucket, error)
}

// AggregationWarmer periodically asks for every period's aggregation so the
// read-through cache is refilled soon after an alert invalidates it.
type AggregationWarmer struct {
	aggregator Aggregator
	periods    []aggregation.Period
	jobs       chan aggregation.Period
	poolSize   int
	interval   time.Duration
	clock      clockwork.Clock
	logger     *slog.Logger
}

func NewAggregationWarmer(aggregator Aggregator, poolSize int, interval time.Duration, clock clockwork.Clock, logger *slog.Logger) *AggregationWarmer {
	if poolSize <= 0 {
		poolSize = 1
	}
	periods := []aggregation.Period{
		aggregation.PeriodHour,
		aggregation.PeriodDay,
		aggregation.PeriodWeek,
		aggregation.PeriodMonth,
	}
	return &AggregationWarmer{
		aggregator: aggregator,
		periods:    periods,
		jobs:       make(chan aggregation.Period, len(periods)),
		poolSize:   poolSize,
		interval:   interval,
		clock:      clock,
		logger:     logger,
	}
}

// Run blocks until ctx is done.
func (w *AggregationWarmer) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for i := 0; i < w.poolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.worker(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.producer(ctx)
	}()
	wg.Wait()
}

func (w *AggregationWarmer) producer(ctx context.Context) {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			for _, p := range w.periods {
				select {
				case w.jobs <- p:
				case <-ctx.Done():
					return
				default:
					// previous round for this period still queued
				}
			}
		}
	}
}

func (w *AggregationWarmer) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-w.jobs:
			if _, err := w.aggregator.Aggregate(ctx, string(p)); err != nil && ctx.Err() == nil {
				w.logger.Warn("aggregation warm-up failed", slog.String("period", string(p)), slog.Any("error", err))
			}
		}
	}
}
