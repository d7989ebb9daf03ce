package dto

import (
	"github.com/fleetops/backend/internal/application/usecase/report"
	"github.com/fleetops/backend/internal/domain/valueobject"
)

// WeeklyBucketResponse represents one ISO-week rollup bucket.
type WeeklyBucketResponse struct {
	Year            int    `json:"year"`
	Week            int    `json:"week"`
	Currency        string `json:"currency"`
	TotalRevenue    string `json:"total_revenue"`
	TotalCosts      string `json:"total_costs"`
	GrossProfit     string `json:"gross_profit"`
	TotalKilometers string `json:"total_kilometers"`
	TripCount       int    `json:"trip_count"`
	IPK             string `json:"ipk"`
	CPK             string `json:"cpk"`
	ProfitMargin    string `json:"profit_margin"`
}

// WeeklyReportResponse represents the weekly rollup report.
type WeeklyReportResponse struct {
	Buckets []WeeklyBucketResponse `json:"buckets"`
}

// CurrencyTotalsResponse represents one currency's fleet-wide rollup.
type CurrencyTotalsResponse struct {
	Currency        string `json:"currency"`
	TotalRevenue    string `json:"total_revenue"`
	TotalExpenses   string `json:"total_expenses"`
	NetProfit       string `json:"net_profit"`
	TotalKilometers string `json:"total_kilometers"`
	TripCount       int    `json:"trip_count"`
}

// ClientRevenueResponse represents one client's revenue contribution.
type ClientRevenueResponse struct {
	ClientName   string `json:"client_name"`
	Currency     string `json:"currency"`
	TotalRevenue string `json:"total_revenue"`
	TripCount    int    `json:"trip_count"`
}

// DashboardResponse represents the fleet dashboard rollup.
type DashboardResponse struct {
	Totals              []CurrencyTotalsResponse `json:"totals"`
	ActiveCount         int                      `json:"active_count"`
	CompletedCount      int                      `json:"completed_count"`
	InvoicedCount       int                      `json:"invoiced_count"`
	UnresolvedFlagCount int                      `json:"unresolved_flag_count"`
	TopClients          []ClientRevenueResponse  `json:"top_clients"`
}

// ToWeeklyReportResponse converts a weekly rollup to its response DTO.
func ToWeeklyReportResponse(output *report.WeeklyReportOutput) WeeklyReportResponse {
	response := WeeklyReportResponse{
		Buckets: make([]WeeklyBucketResponse, len(output.Buckets)),
	}
	for i, b := range output.Buckets {
		response.Buckets[i] = toWeeklyBucketResponse(b)
	}
	return response
}

func toWeeklyBucketResponse(b valueobject.WeeklyBucket) WeeklyBucketResponse {
	return WeeklyBucketResponse{
		Year:            b.Year,
		Week:            b.Week,
		Currency:        b.Currency,
		TotalRevenue:    b.TotalRevenue.String(),
		TotalCosts:      b.TotalCosts.String(),
		GrossProfit:     b.GrossProfit.String(),
		TotalKilometers: b.TotalKilometers.String(),
		TripCount:       b.TripCount,
		IPK:             b.IPK.String(),
		CPK:             b.CPK.String(),
		ProfitMargin:    b.ProfitMargin.String(),
	}
}

// ToDashboardResponse converts a dashboard rollup to its response DTO.
func ToDashboardResponse(output *report.DashboardOutput) DashboardResponse {
	response := DashboardResponse{
		Totals:              make([]CurrencyTotalsResponse, len(output.Totals)),
		ActiveCount:         output.ActiveCount,
		CompletedCount:      output.CompletedCount,
		InvoicedCount:       output.InvoicedCount,
		UnresolvedFlagCount: output.UnresolvedFlagCount,
		TopClients:          make([]ClientRevenueResponse, len(output.TopClients)),
	}
	for i, t := range output.Totals {
		response.Totals[i] = CurrencyTotalsResponse{
			Currency:        t.Currency,
			TotalRevenue:    t.TotalRevenue.String(),
			TotalExpenses:   t.TotalExpenses.String(),
			NetProfit:       t.NetProfit.String(),
			TotalKilometers: t.TotalKilometers.String(),
			TripCount:       t.TripCount,
		}
	}
	for i, c := range output.TopClients {
		response.TopClients[i] = ClientRevenueResponse{
			ClientName:   c.ClientName,
			Currency:     c.Currency,
			TotalRevenue: c.TotalRevenue.String(),
			TripCount:    c.TripCount,
		}
	}
	return response
}
