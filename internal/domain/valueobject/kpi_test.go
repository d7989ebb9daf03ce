package valueobject

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
)

func testTrip(revenue int64, distance int64, currency string) *entity.Trip {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)
	return entity.NewTrip(
		"TRK-014", "N. Moyo", "Acme Logistics", entity.ClientTypeExternal,
		"Harare - Beira", nil, start, end,
		decimal.NewFromInt(revenue), currency, decimal.NewFromInt(distance),
	)
}

func addCost(trip *entity.Trip, amount float64, currency string) *entity.CostEntry {
	entry := entity.NewCostEntry("Fuel", "Diesel", decimal.NewFromFloat(amount), currency, trip.StartDate, "", "")
	trip.Costs = append(trip.Costs, *entry)
	return &trip.Costs[len(trip.Costs)-1]
}

func addAdditional(trip *entity.Trip, amount float64, currency string) {
	cost := entity.NewAdditionalCost("Detention", "", decimal.NewFromFloat(amount), currency, trip.EndDate, "", "ops")
	trip.AdditionalCosts = append(trip.AdditionalCosts, *cost)
}

func TestCalculateKPIs(t *testing.T) {
	t.Run("derives profit, margin and cost per km", func(t *testing.T) {
		trip := testTrip(1000, 175, "ZAR")
		addCost(trip, 300, "ZAR")
		addAdditional(trip, 50, "ZAR")

		kpis := CalculateKPIs(trip)

		if !kpis.TotalRevenue.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected total revenue 1000, got %s", kpis.TotalRevenue)
		}
		if !kpis.TotalExpenses.Equal(decimal.NewFromInt(350)) {
			t.Errorf("expected total expenses 350, got %s", kpis.TotalExpenses)
		}
		if !kpis.NetProfit.Equal(decimal.NewFromInt(650)) {
			t.Errorf("expected net profit 650, got %s", kpis.NetProfit)
		}
		if !kpis.ProfitMargin.Equal(decimal.NewFromInt(65)) {
			t.Errorf("expected profit margin 65, got %s", kpis.ProfitMargin)
		}
		if !kpis.CostPerKm.Equal(decimal.NewFromInt(2)) {
			t.Errorf("expected cost per km 2, got %s", kpis.CostPerKm)
		}
		if kpis.Currency != "ZAR" {
			t.Errorf("expected currency ZAR, got %s", kpis.Currency)
		}
	})

	t.Run("zero revenue yields zero margin", func(t *testing.T) {
		trip := testTrip(0, 100, "USD")
		addCost(trip, 200, "USD")

		kpis := CalculateKPIs(trip)

		if !kpis.ProfitMargin.IsZero() {
			t.Errorf("expected zero margin, got %s", kpis.ProfitMargin)
		}
		if !kpis.NetProfit.Equal(decimal.NewFromInt(-200)) {
			t.Errorf("expected net profit -200, got %s", kpis.NetProfit)
		}
	})

	t.Run("zero distance yields zero cost per km", func(t *testing.T) {
		trip := testTrip(500, 0, "USD")
		addCost(trip, 100, "USD")

		kpis := CalculateKPIs(trip)

		if !kpis.CostPerKm.IsZero() {
			t.Errorf("expected zero cost per km, got %s", kpis.CostPerKm)
		}
	})

	t.Run("costs in other currencies are excluded", func(t *testing.T) {
		trip := testTrip(1000, 100, "ZAR")
		addCost(trip, 300, "ZAR")
		addCost(trip, 400, "USD")
		addAdditional(trip, 50, "USD")

		kpis := CalculateKPIs(trip)

		if !kpis.TotalExpenses.Equal(decimal.NewFromInt(300)) {
			t.Errorf("expected only ZAR expenses (300), got %s", kpis.TotalExpenses)
		}
	})

	t.Run("counts flagged and unresolved entries", func(t *testing.T) {
		trip := testTrip(1000, 100, "ZAR")
		flagged := addCost(trip, 100, "ZAR")
		flagged.IsFlagged = true
		flagged.FlagReason = "missing receipt"

		resolved := addCost(trip, 100, "ZAR")
		resolved.IsFlagged = true
		resolved.FlagReason = "duplicate"
		resolved.FlagResolved = true

		addCost(trip, 100, "ZAR")

		kpis := CalculateKPIs(trip)

		if kpis.FlaggedCount != 2 {
			t.Errorf("expected 2 flagged entries, got %d", kpis.FlaggedCount)
		}
		if kpis.UnresolvedFlagCount != 1 {
			t.Errorf("expected 1 unresolved flag, got %d", kpis.UnresolvedFlagCount)
		}
	})
}
