package adapter

import (
	"context"
	"time"
)

// ReportCache is a short-TTL cache for derived report payloads (dashboard,
// weekly rollups). Reads are recomputed from the trip collection whenever the
// cache misses; correctness never depends on the cache.
type ReportCache interface {
	// Get unmarshals the cached value for key into dest and reports whether
	// the key was present.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores a value under key for the given TTL.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
