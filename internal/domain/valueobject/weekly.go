package valueobject

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
)

// WeeklyBucket is one (ISO year, ISO week, currency) rollup over completed
// and invoiced trips.
type WeeklyBucket struct {
	Year            int
	Week            int
	Currency        string
	TotalRevenue    decimal.Decimal
	TotalCosts      decimal.Decimal
	GrossProfit     decimal.Decimal
	TotalKilometers decimal.Decimal
	TripCount       int
	IPK             decimal.Decimal // income per kilometer; 0 when km is 0
	CPK             decimal.Decimal // cost per kilometer; 0 when km is 0
	ProfitMargin    decimal.Decimal // percentage; 0 when revenue is 0
}

type weekKey struct {
	year     int
	week     int
	currency string
}

// AggregateWeekly groups completed and invoiced trips into ISO-week buckets
// keyed by (year, week number, currency). The bucketing date is the trip's
// offload/delivery timestamp, falling back to EndDate when absent. Cost sums
// are filtered to each trip's revenue currency, consistent with CalculateKPIs.
// Buckets are returned sorted by year, week, then currency.
func AggregateWeekly(trips []*entity.Trip) []WeeklyBucket {
	buckets := make(map[weekKey]*WeeklyBucket)

	for _, trip := range trips {
		if trip.Status != entity.TripStatusCompleted && trip.Status != entity.TripStatusInvoiced {
			continue
		}

		// ISO-8601 week: the week containing the trip's Thursday, weeks
		// counted from the first Thursday of the year (Monday start).
		year, week := trip.ReportDate().ISOWeek()
		key := weekKey{year: year, week: week, currency: trip.RevenueCurrency}

		bucket, ok := buckets[key]
		if !ok {
			bucket = &WeeklyBucket{Year: year, Week: week, Currency: trip.RevenueCurrency}
			buckets[key] = bucket
		}

		kpis := CalculateKPIs(trip)
		bucket.TotalRevenue = bucket.TotalRevenue.Add(kpis.TotalRevenue)
		bucket.TotalCosts = bucket.TotalCosts.Add(kpis.TotalExpenses)
		bucket.GrossProfit = bucket.GrossProfit.Add(kpis.NetProfit)
		bucket.TotalKilometers = bucket.TotalKilometers.Add(trip.DistanceKm)
		bucket.TripCount++
	}

	result := make([]WeeklyBucket, 0, len(buckets))
	for _, bucket := range buckets {
		if bucket.TotalKilometers.IsPositive() {
			bucket.IPK = bucket.TotalRevenue.Div(bucket.TotalKilometers)
			bucket.CPK = bucket.TotalCosts.Div(bucket.TotalKilometers)
		}
		if !bucket.TotalRevenue.IsZero() {
			bucket.ProfitMargin = bucket.GrossProfit.Div(bucket.TotalRevenue).Mul(hundred)
		}
		result = append(result, *bucket)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		if result[i].Week != result[j].Week {
			return result[i].Week < result[j].Week
		}
		return result[i].Currency < result[j].Currency
	})

	return result
}
