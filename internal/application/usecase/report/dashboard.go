package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	"github.com/fleetops/backend/internal/domain/valueobject"
)

const dashboardCacheKey = "reports:dashboard"

// CurrencyTotals is a per-currency reconciliation rollup across the fleet.
type CurrencyTotals struct {
	Currency        string
	TotalRevenue    decimal.Decimal
	TotalExpenses   decimal.Decimal
	NetProfit       decimal.Decimal
	TotalKilometers decimal.Decimal
	TripCount       int
}

// ClientRevenue is one client's revenue contribution.
type ClientRevenue struct {
	ClientName   string
	Currency     string
	TotalRevenue decimal.Decimal
	TripCount    int
}

// DashboardOutput represents the fleet dashboard rollup.
type DashboardOutput struct {
	Totals              []CurrencyTotals
	ActiveCount         int
	CompletedCount      int
	InvoicedCount       int
	UnresolvedFlagCount int
	TopClients          []ClientRevenue
}

// GetDashboardUseCase computes the fleet-wide dashboard rollup across all
// trips, partitioned per currency.
type GetDashboardUseCase struct {
	tripRepo adapter.TripRepository
	cache    adapter.ReportCache
	cacheTTL time.Duration
}

// NewGetDashboardUseCase creates a new GetDashboardUseCase instance.
func NewGetDashboardUseCase(
	tripRepo adapter.TripRepository,
	cache adapter.ReportCache,
	cacheTTL time.Duration,
) *GetDashboardUseCase {
	return &GetDashboardUseCase{
		tripRepo: tripRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Execute computes (or serves from cache) the dashboard rollup.
func (uc *GetDashboardUseCase) Execute(ctx context.Context) (*DashboardOutput, error) {
	var cached DashboardOutput
	if hit, err := uc.cache.Get(ctx, dashboardCacheKey, &cached); err != nil {
		slog.Debug("Report cache read failed", "key", dashboardCacheKey, "error", err)
	} else if hit {
		return &cached, nil
	}

	trips, err := uc.tripRepo.FindByFilter(ctx, adapter.TripFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load trips for dashboard: %w", err)
	}

	output := buildDashboard(trips)

	if err := uc.cache.Set(ctx, dashboardCacheKey, output, uc.cacheTTL); err != nil {
		slog.Debug("Report cache write failed", "key", dashboardCacheKey, "error", err)
	}

	return output, nil
}

func buildDashboard(trips []*entity.Trip) *DashboardOutput {
	output := &DashboardOutput{}
	totalsByCurrency := make(map[string]*CurrencyTotals)
	clients := make(map[string]*ClientRevenue)

	for _, trip := range trips {
		switch trip.Status {
		case entity.TripStatusActive:
			output.ActiveCount++
		case entity.TripStatusCompleted:
			output.CompletedCount++
		case entity.TripStatusInvoiced:
			output.InvoicedCount++
		}

		kpis := valueobject.CalculateKPIs(trip)
		output.UnresolvedFlagCount += kpis.UnresolvedFlagCount

		totals, ok := totalsByCurrency[trip.RevenueCurrency]
		if !ok {
			totals = &CurrencyTotals{Currency: trip.RevenueCurrency}
			totalsByCurrency[trip.RevenueCurrency] = totals
		}
		totals.TotalRevenue = totals.TotalRevenue.Add(kpis.TotalRevenue)
		totals.TotalExpenses = totals.TotalExpenses.Add(kpis.TotalExpenses)
		totals.NetProfit = totals.NetProfit.Add(kpis.NetProfit)
		totals.TotalKilometers = totals.TotalKilometers.Add(trip.DistanceKm)
		totals.TripCount++

		clientKey := trip.ClientName + "|" + trip.RevenueCurrency
		client, ok := clients[clientKey]
		if !ok {
			client = &ClientRevenue{ClientName: trip.ClientName, Currency: trip.RevenueCurrency}
			clients[clientKey] = client
		}
		client.TotalRevenue = client.TotalRevenue.Add(trip.BaseRevenue)
		client.TripCount++
	}

	for _, totals := range totalsByCurrency {
		output.Totals = append(output.Totals, *totals)
	}
	sort.Slice(output.Totals, func(i, j int) bool {
		return output.Totals[i].Currency < output.Totals[j].Currency
	})

	for _, client := range clients {
		output.TopClients = append(output.TopClients, *client)
	}
	sort.Slice(output.TopClients, func(i, j int) bool {
		if !output.TopClients[i].TotalRevenue.Equal(output.TopClients[j].TotalRevenue) {
			return output.TopClients[i].TotalRevenue.GreaterThan(output.TopClients[j].TotalRevenue)
		}
		return output.TopClients[i].ClientName < output.TopClients[j].ClientName
	})
	if len(output.TopClients) > 5 {
		output.TopClients = output.TopClients[:5]
	}

	return output
}
