package valueobject

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
)

// SystemCostCategory is the category assigned to every system-generated
// overhead entry.
const SystemCostCategory = "System Costs"

// OverheadRate is one norm line: a fixed per-day or variable per-km rate for
// an operational overhead.
type OverheadRate struct {
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Rate        decimal.Decimal `json:"rate"`
}

// OverheadNorms is the full set of norm lines used by the overhead allocator.
type OverheadNorms struct {
	PerDay []OverheadRate
	PerKm  []OverheadRate
}

// DefaultOverheadNorms returns the built-in norm set, used when no deployment
// override is configured. Rates are in the trip's revenue currency.
func DefaultOverheadNorms() OverheadNorms {
	return OverheadNorms{
		PerDay: []OverheadRate{
			{Category: SystemCostCategory, SubCategory: "GIT Insurance", Rate: decimal.NewFromInt(134)},
			{Category: SystemCostCategory, SubCategory: "Vehicle Insurance", Rate: decimal.NewFromInt(181)},
			{Category: SystemCostCategory, SubCategory: "Tracking", Rate: decimal.NewFromInt(35)},
			{Category: SystemCostCategory, SubCategory: "Fleet Management System", Rate: decimal.NewFromInt(75)},
			{Category: SystemCostCategory, SubCategory: "Licensing", Rate: decimal.NewFromInt(42)},
		},
		PerKm: []OverheadRate{
			{Category: SystemCostCategory, SubCategory: "Repair & Maintenance per KM", Rate: decimal.NewFromFloat(2.05)},
			{Category: SystemCostCategory, SubCategory: "Tyre Cost per KM", Rate: decimal.NewFromFloat(0.64)},
		},
	}
}

// TripDays returns the inclusive day count between the trip's start and end
// dates, never less than one.
func TripDays(trip *entity.Trip) int64 {
	start := trip.StartDate.UTC().Truncate(24 * time.Hour)
	end := trip.EndDate.UTC().Truncate(24 * time.Hour)
	days := int64(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// GenerateOverheadEntries produces the fixed set of system-generated cost
// entries for a trip: one entry per norm line, per-day rates multiplied by
// the inclusive trip day count, per-km rates by the trip distance. Per-km
// lines are skipped when the trip has no recorded distance. Idempotency (at
// most one generation per trip) is enforced by the caller against the trip's
// existing entries.
func GenerateOverheadEntries(trip *entity.Trip, norms OverheadNorms, now time.Time) []entity.CostEntry {
	days := decimal.NewFromInt(TripDays(trip))

	entries := make([]entity.CostEntry, 0, len(norms.PerDay)+len(norms.PerKm))
	for _, rate := range norms.PerDay {
		entry := entity.NewCostEntry(
			rate.Category,
			rate.SubCategory,
			rate.Rate.Mul(days),
			trip.RevenueCurrency,
			now,
			"SYS-"+trip.FleetNumber,
			"",
		)
		entry.IsSystemGenerated = true
		entries = append(entries, *entry)
	}

	if trip.DistanceKm.IsPositive() {
		for _, rate := range norms.PerKm {
			entry := entity.NewCostEntry(
				rate.Category,
				rate.SubCategory,
				rate.Rate.Mul(trip.DistanceKm),
				trip.RevenueCurrency,
				now,
				"SYS-"+trip.FleetNumber,
				"",
			)
			entry.IsSystemGenerated = true
			entries = append(entries, *entry)
		}
	}

	return entries
}
