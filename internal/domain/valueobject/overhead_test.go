package valueobject

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
)

func overheadTrip(days int, distance int64, currency string) *entity.Trip {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	return entity.NewTrip(
		"TRK-002", "S. Dube", "Kariba Freight", entity.ClientTypeExternal,
		"Harare - Kariba", nil, start, start.AddDate(0, 0, days-1),
		decimal.NewFromInt(5000), currency, decimal.NewFromInt(distance),
	)
}

func TestTripDays(t *testing.T) {
	t.Run("inclusive of both endpoints", func(t *testing.T) {
		trip := overheadTrip(3, 400, "ZAR")
		if got := TripDays(trip); got != 3 {
			t.Errorf("expected 3 days, got %d", got)
		}
	})

	t.Run("single day trip counts as one", func(t *testing.T) {
		trip := overheadTrip(1, 400, "ZAR")
		if got := TripDays(trip); got != 1 {
			t.Errorf("expected 1 day, got %d", got)
		}
	})

	t.Run("inverted dates clamp to one", func(t *testing.T) {
		trip := overheadTrip(1, 400, "ZAR")
		trip.EndDate = trip.StartDate.AddDate(0, 0, -5)
		if got := TripDays(trip); got != 1 {
			t.Errorf("expected clamp to 1 day, got %d", got)
		}
	})
}

func TestGenerateOverheadEntries(t *testing.T) {
	now := time.Date(2025, 3, 6, 8, 0, 0, 0, time.UTC)

	t.Run("per-day rates scale with trip days", func(t *testing.T) {
		trip := overheadTrip(2, 500, "ZAR")
		norms := OverheadNorms{
			PerDay: []OverheadRate{
				{Category: SystemCostCategory, SubCategory: "Tracking", Rate: decimal.NewFromInt(35)},
			},
		}

		entries := GenerateOverheadEntries(trip, norms, now)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if !entries[0].Amount.Equal(decimal.NewFromInt(70)) {
			t.Errorf("expected 35 x 2 days = 70, got %s", entries[0].Amount)
		}
	})

	t.Run("per-km rates scale with distance", func(t *testing.T) {
		trip := overheadTrip(1, 500, "ZAR")
		norms := OverheadNorms{
			PerKm: []OverheadRate{
				{Category: SystemCostCategory, SubCategory: "Tyre Cost per KM", Rate: decimal.NewFromFloat(0.64)},
			},
		}

		entries := GenerateOverheadEntries(trip, norms, now)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if !entries[0].Amount.Equal(decimal.NewFromInt(320)) {
			t.Errorf("expected 0.64 x 500 km = 320, got %s", entries[0].Amount)
		}
	})

	t.Run("per-km lines skipped without distance", func(t *testing.T) {
		trip := overheadTrip(2, 0, "ZAR")

		entries := GenerateOverheadEntries(trip, DefaultOverheadNorms(), now)
		if len(entries) != 5 {
			t.Fatalf("expected only the 5 per-day entries, got %d", len(entries))
		}
		for _, entry := range entries {
			if entry.SubCategory == "Tyre Cost per KM" || entry.SubCategory == "Repair & Maintenance per KM" {
				t.Errorf("per-km entry %q generated for zero-distance trip", entry.SubCategory)
			}
		}
	})

	t.Run("entries are marked system generated in the trip currency", func(t *testing.T) {
		trip := overheadTrip(1, 300, "USD")

		entries := GenerateOverheadEntries(trip, DefaultOverheadNorms(), now)
		if len(entries) != 7 {
			t.Fatalf("expected 7 entries from default norms, got %d", len(entries))
		}
		for _, entry := range entries {
			if !entry.IsSystemGenerated {
				t.Errorf("entry %q not marked system generated", entry.SubCategory)
			}
			if entry.Category != SystemCostCategory {
				t.Errorf("entry %q has category %q", entry.SubCategory, entry.Category)
			}
			if entry.Currency != "USD" {
				t.Errorf("entry %q has currency %q, want trip currency", entry.SubCategory, entry.Currency)
			}
			if entry.ReferenceNumber != "SYS-TRK-002" {
				t.Errorf("entry %q has reference %q", entry.SubCategory, entry.ReferenceNumber)
			}
		}
	})
}
