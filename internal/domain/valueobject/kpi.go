// Package valueobject contains domain value objects for the FleetOps system.
package valueobject

import (
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// TripKPIs holds the derived reconciliation metrics for a single trip.
// All monetary figures are in the trip's revenue currency; cost entries in
// other currencies are excluded from the sums (per-currency partitioning,
// never summing unlike units).
type TripKPIs struct {
	TotalRevenue        decimal.Decimal
	TotalExpenses       decimal.Decimal
	NetProfit           decimal.Decimal
	ProfitMargin        decimal.Decimal // percentage; 0 when revenue is 0
	CostPerKm           decimal.Decimal // 0 when distance is 0
	Currency            string
	FlaggedCount        int
	UnresolvedFlagCount int
}

// CalculateKPIs derives revenue, cost, profit, margin and cost-per-km from a
// trip's cost entries and additional costs. It is deterministic,
// side-effect-free and linear in the number of entries; it is recomputed on
// every read rather than cached.
func CalculateKPIs(trip *entity.Trip) TripKPIs {
	kpis := TripKPIs{
		TotalRevenue: trip.BaseRevenue,
		Currency:     trip.RevenueCurrency,
	}

	expenses := decimal.Zero
	for _, c := range trip.Costs {
		if c.Currency == trip.RevenueCurrency {
			expenses = expenses.Add(c.Amount)
		}
		if c.IsFlagged {
			kpis.FlaggedCount++
			if !c.FlagResolved {
				kpis.UnresolvedFlagCount++
			}
		}
	}
	for _, ac := range trip.AdditionalCosts {
		if ac.Currency == trip.RevenueCurrency {
			expenses = expenses.Add(ac.Amount)
		}
	}

	kpis.TotalExpenses = expenses
	kpis.NetProfit = trip.BaseRevenue.Sub(expenses)

	if !trip.BaseRevenue.IsZero() {
		kpis.ProfitMargin = kpis.NetProfit.Div(trip.BaseRevenue).Mul(hundred)
	}
	if trip.DistanceKm.IsPositive() {
		kpis.CostPerKm = expenses.Div(trip.DistanceKm)
	}

	return kpis
}
