package valueobject

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
)

func completedTrip(endDate time.Time, revenue int64, distance int64, currency string) *entity.Trip {
	trip := entity.NewTrip(
		"TRK-002", "S. Dube", "Acme Logistics", entity.ClientTypeExternal,
		"Jhb - Durban", nil, endDate.AddDate(0, 0, -3), endDate,
		decimal.NewFromInt(revenue), currency, decimal.NewFromInt(distance),
	)
	trip.Status = entity.TripStatusCompleted
	return trip
}

func TestAggregateWeekly(t *testing.T) {
	t.Run("monday and sunday of the same ISO week share a bucket", func(t *testing.T) {
		monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
		sunday := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)

		buckets := AggregateWeekly([]*entity.Trip{
			completedTrip(monday, 1000, 500, "ZAR"),
			completedTrip(sunday, 2000, 700, "ZAR"),
		})

		if len(buckets) != 1 {
			t.Fatalf("expected 1 bucket, got %d", len(buckets))
		}
		bucket := buckets[0]
		if bucket.Year != 2025 || bucket.Week != 2 {
			t.Errorf("expected week 2/2025, got %d/%d", bucket.Week, bucket.Year)
		}
		if bucket.TripCount != 2 {
			t.Errorf("expected 2 trips, got %d", bucket.TripCount)
		}
		if !bucket.TotalRevenue.Equal(decimal.NewFromInt(3000)) {
			t.Errorf("expected revenue 3000, got %s", bucket.TotalRevenue)
		}
		if !bucket.TotalKilometers.Equal(decimal.NewFromInt(1200)) {
			t.Errorf("expected 1200 km, got %s", bucket.TotalKilometers)
		}
		if !bucket.IPK.Equal(decimal.NewFromFloat(2.5)) {
			t.Errorf("expected IPK 2.5, got %s", bucket.IPK)
		}
	})

	t.Run("offload date takes precedence over end date", func(t *testing.T) {
		endDate := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
		trip := completedTrip(endDate, 1000, 100, "ZAR")
		offload := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		trip.OffloadDate = &offload

		buckets := AggregateWeekly([]*entity.Trip{trip})

		if len(buckets) != 1 {
			t.Fatalf("expected 1 bucket, got %d", len(buckets))
		}
		if buckets[0].Week != 3 {
			t.Errorf("expected offload week 3, got %d", buckets[0].Week)
		}
	})

	t.Run("active trips are excluded", func(t *testing.T) {
		endDate := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
		active := completedTrip(endDate, 1000, 100, "ZAR")
		active.Status = entity.TripStatusActive

		buckets := AggregateWeekly([]*entity.Trip{active})

		if len(buckets) != 0 {
			t.Fatalf("expected no buckets, got %d", len(buckets))
		}
	})

	t.Run("currencies bucket separately within a week", func(t *testing.T) {
		endDate := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

		buckets := AggregateWeekly([]*entity.Trip{
			completedTrip(endDate, 1000, 100, "USD"),
			completedTrip(endDate, 5000, 100, "ZAR"),
		})

		if len(buckets) != 2 {
			t.Fatalf("expected 2 buckets, got %d", len(buckets))
		}
		if buckets[0].Currency != "USD" || buckets[1].Currency != "ZAR" {
			t.Errorf("expected currency-sorted buckets, got %s then %s", buckets[0].Currency, buckets[1].Currency)
		}
	})

	t.Run("zero kilometers leaves ratios at zero", func(t *testing.T) {
		endDate := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

		buckets := AggregateWeekly([]*entity.Trip{
			completedTrip(endDate, 1000, 0, "ZAR"),
		})

		if len(buckets) != 1 {
			t.Fatalf("expected 1 bucket, got %d", len(buckets))
		}
		if !buckets[0].IPK.IsZero() || !buckets[0].CPK.IsZero() {
			t.Errorf("expected zero IPK/CPK, got %s/%s", buckets[0].IPK, buckets[0].CPK)
		}
	})
}
