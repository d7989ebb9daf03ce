package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetops/backend/internal/application/adapter"
)

// redisReportCache implements the adapter.ReportCache interface on Redis.
// Values are stored as JSON and expire with the configured TTL; there is no
// explicit invalidation.
type redisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache creates a report cache backed by the given Redis client.
func NewRedisReportCache(client *redis.Client) adapter.ReportCache {
	return &redisReportCache{
		client: client,
	}
}

// Get loads a cached value into dest. It returns false on a miss.
func (c *redisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value under key with the given TTL.
func (c *redisReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// noopReportCache is used when Redis is disabled: every read misses and
// writes are dropped.
type noopReportCache struct{}

// NewNoopReportCache creates a cache that never stores anything.
func NewNoopReportCache() adapter.ReportCache {
	return noopReportCache{}
}

func (noopReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (noopReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}
