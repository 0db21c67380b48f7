package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"spotmap/internal/aggregation"

	goredis "github.com/redis/go-redis/v9"
)

const (
	aggregateKeyPrefix     = "alerts:aggregation:"
	aggregateGenerationKey = aggregateKeyPrefix + "generation"
)

var cachedPeriods = []aggregation.Period{
	aggregation.PeriodHour,
	aggregation.PeriodDay,
	aggregation.PeriodWeek,
	aggregation.PeriodMonth,
}

// AggregateCache keeps the bucket list of each period under a key suffixed
// with the current generation. Any new alert bumps the generation, which
// orphans every older entry until its TTL runs out.
type AggregateCache struct {
	client goredis.Cmdable
	ttl    time.Duration
}

func NewAggregateCache(r *Redis, ttl time.Duration) *AggregateCache {
	return newAggregateCache(r.Client, ttl)
}

func newAggregateCache(client goredis.Cmdable, ttl time.Duration) *AggregateCache {
	return &AggregateCache{client: client, ttl: ttl}
}

func aggregateKey(generation int64, period aggregation.Period) string {
	return aggregateKeyPrefix + strconv.FormatInt(generation, 10) + ":" + string(period)
}

// Generation is 0 until the first Invalidate.
func (c *AggregateCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, aggregateGenerationKey).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return gen, nil
}

func (c *AggregateCache) Get(ctx context.Context, generation int64, period aggregation.Period) ([]aggregation.Bucket, bool, error) {
	data, err := c.client.Get(ctx, aggregateKey(generation, period)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var buckets []aggregation.Bucket
	if err := json.Unmarshal(data, &buckets); err != nil {
		return nil, false, err
	}

	return buckets, true, nil
}

func (c *AggregateCache) Set(ctx context.Context, generation int64, period aggregation.Period, buckets []aggregation.Bucket) error {
	if buckets == nil {
		buckets = []aggregation.Bucket{}
	}
	b, err := json.Marshal(buckets)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, aggregateKey(generation, period), b, c.ttl).Err()
}

// Invalidate bumps the generation and drops the entries of the one it replaces.
func (c *AggregateCache) Invalidate(ctx context.Context) error {
	gen, err := c.client.Incr(ctx, aggregateGenerationKey).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(cachedPeriods))
	for _, p := range cachedPeriods {
		keys = append(keys, aggregateKey(gen-1, p))
	}
	return c.client.Del(ctx, keys...).Err()
}
