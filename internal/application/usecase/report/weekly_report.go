// Package report contains reporting/rollup use cases.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	"github.com/fleetops/backend/internal/domain/valueobject"
)

// WeeklyReportInput represents the input for the weekly rollup report.
type WeeklyReportInput struct {
	Year int // 0 means all years
}

// WeeklyReportOutput represents the weekly rollup report.
type WeeklyReportOutput struct {
	Buckets []valueobject.WeeklyBucket
}

// WeeklyReportUseCase aggregates completed and invoiced trips into ISO-week
// buckets. Results are cached with a short TTL; a cache failure only costs a
// recomputation, never correctness.
type WeeklyReportUseCase struct {
	tripRepo adapter.TripRepository
	cache    adapter.ReportCache
	cacheTTL time.Duration
}

// NewWeeklyReportUseCase creates a new WeeklyReportUseCase instance.
func NewWeeklyReportUseCase(
	tripRepo adapter.TripRepository,
	cache adapter.ReportCache,
	cacheTTL time.Duration,
) *WeeklyReportUseCase {
	return &WeeklyReportUseCase{
		tripRepo: tripRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Execute computes (or serves from cache) the weekly rollup.
func (uc *WeeklyReportUseCase) Execute(ctx context.Context, input WeeklyReportInput) (*WeeklyReportOutput, error) {
	cacheKey := fmt.Sprintf("reports:weekly:%d", input.Year)

	var cached WeeklyReportOutput
	if hit, err := uc.cache.Get(ctx, cacheKey, &cached); err != nil {
		slog.Debug("Report cache read failed", "key", cacheKey, "error", err)
	} else if hit {
		return &cached, nil
	}

	trips, err := uc.tripRepo.FindByFilter(ctx, adapter.TripFilter{
		Statuses: []entity.TripStatus{entity.TripStatusCompleted, entity.TripStatusInvoiced},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load trips for weekly report: %w", err)
	}

	buckets := valueobject.AggregateWeekly(trips)
	if input.Year > 0 {
		filtered := buckets[:0]
		for _, bucket := range buckets {
			if bucket.Year == input.Year {
				filtered = append(filtered, bucket)
			}
		}
		buckets = filtered
	}

	output := &WeeklyReportOutput{Buckets: buckets}

	if err := uc.cache.Set(ctx, cacheKey, output, uc.cacheTTL); err != nil {
		slog.Debug("Report cache write failed", "key", cacheKey, "error", err)
	}

	return output, nil
}
