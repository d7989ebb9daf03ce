package dto

import (
	"time"

	"github.com/fleetops/backend/internal/application/usecase/trip"
	"github.com/fleetops/backend/internal/domain/valueobject"
)

// CreateTripRequest represents the request body for trip creation.
type CreateTripRequest struct {
	FleetNumber     string   `json:"fleet_number" binding:"required,max=32"`
	DriverName      string   `json:"driver_name" binding:"required,max=128"`
	ClientName      string   `json:"client_name" binding:"required,max=128"`
	ClientType      string   `json:"client_type" binding:"required,oneof=internal external"`
	Route           string   `json:"route" binding:"required,max=255"`
	RouteWaypoints  []string `json:"route_waypoints,omitempty"`
	StartDate       string   `json:"start_date" binding:"required"`
	EndDate         string   `json:"end_date" binding:"required"`
	BaseRevenue     string   `json:"base_revenue" binding:"required"`
	RevenueCurrency string   `json:"revenue_currency" binding:"required,max=8"`
	DistanceKm      string   `json:"distance_km" binding:"required"`
}

// UpdateTripRequest represents the request body for a trip update. All fields
// are optional; edit_reason is mandatory once the trip is completed.
type UpdateTripRequest struct {
	FleetNumber     *string   `json:"fleet_number,omitempty" binding:"omitempty,max=32"`
	DriverName      *string   `json:"driver_name,omitempty" binding:"omitempty,max=128"`
	ClientName      *string   `json:"client_name,omitempty" binding:"omitempty,max=128"`
	ClientType      *string   `json:"client_type,omitempty" binding:"omitempty,oneof=internal external"`
	Route           *string   `json:"route,omitempty" binding:"omitempty,max=255"`
	RouteWaypoints  *[]string `json:"route_waypoints,omitempty"`
	StartDate       *string   `json:"start_date,omitempty"`
	EndDate         *string   `json:"end_date,omitempty"`
	OffloadDate     *string   `json:"offload_date,omitempty"`
	BaseRevenue     *string   `json:"base_revenue,omitempty"`
	RevenueCurrency *string   `json:"revenue_currency,omitempty" binding:"omitempty,max=8"`
	DistanceKm      *string   `json:"distance_km,omitempty"`
	EditReason      string    `json:"edit_reason,omitempty" binding:"omitempty,max=1000"`
}

// AttachmentResponse represents a stored attachment in API responses.
type AttachmentResponse struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// CostEntryResponse represents a cost entry in API responses.
type CostEntryResponse struct {
	ID                string               `json:"id"`
	Category          string               `json:"category"`
	SubCategory       string               `json:"sub_category,omitempty"`
	Amount            string               `json:"amount"`
	Currency          string               `json:"currency"`
	Date              string               `json:"date"`
	ReferenceNumber   string               `json:"reference_number,omitempty"`
	Notes             string               `json:"notes,omitempty"`
	Attachments       []AttachmentResponse `json:"attachments,omitempty"`
	IsFlagged         bool                 `json:"is_flagged"`
	FlagReason        string               `json:"flag_reason,omitempty"`
	FlagResolved      bool                 `json:"flag_resolved"`
	IsSystemGenerated bool                 `json:"is_system_generated"`
}

// AdditionalCostResponse represents an additional cost in API responses.
type AdditionalCostResponse struct {
	ID          string               `json:"id"`
	Category    string               `json:"category"`
	SubCategory string               `json:"sub_category,omitempty"`
	Amount      string               `json:"amount"`
	Currency    string               `json:"currency"`
	Date        string               `json:"date"`
	Notes       string               `json:"notes,omitempty"`
	Attachments []AttachmentResponse `json:"attachments,omitempty"`
	AddedBy     string               `json:"added_by"`
	AddedAt     time.Time            `json:"added_at"`
}

// EditRecordResponse represents one audit record in API responses.
type EditRecordResponse struct {
	ID           string    `json:"id"`
	TripID       string    `json:"trip_id"`
	EditedBy     string    `json:"edited_by"`
	EditedAt     time.Time `json:"edited_at"`
	Reason       string    `json:"reason"`
	FieldChanged string    `json:"field_changed"`
	OldValue     string    `json:"old_value"`
	NewValue     string    `json:"new_value"`
	ChangeType   string    `json:"change_type"`
}

// TripKPIsResponse represents derived trip metrics in API responses.
type TripKPIsResponse struct {
	TotalRevenue        string `json:"total_revenue"`
	TotalExpenses       string `json:"total_expenses"`
	NetProfit           string `json:"net_profit"`
	ProfitMargin        string `json:"profit_margin"`
	CostPerKm           string `json:"cost_per_km"`
	Currency            string `json:"currency"`
	FlaggedCount        int    `json:"flagged_count"`
	UnresolvedFlagCount int    `json:"unresolved_flag_count"`
}

// TripResponse represents a single trip in API responses.
type TripResponse struct {
	ID              string                   `json:"id"`
	FleetNumber     string                   `json:"fleet_number"`
	DriverName      string                   `json:"driver_name"`
	ClientName      string                   `json:"client_name"`
	ClientType      string                   `json:"client_type"`
	Route           string                   `json:"route"`
	RouteWaypoints  []string                 `json:"route_waypoints,omitempty"`
	StartDate       string                   `json:"start_date"`
	EndDate         string                   `json:"end_date"`
	OffloadDate     *string                  `json:"offload_date,omitempty"`
	BaseRevenue     string                   `json:"base_revenue"`
	RevenueCurrency string                   `json:"revenue_currency"`
	DistanceKm      string                   `json:"distance_km"`
	Status          string                   `json:"status"`
	Costs           []CostEntryResponse      `json:"costs"`
	AdditionalCosts []AdditionalCostResponse `json:"additional_costs"`
	EditHistory     []EditRecordResponse     `json:"edit_history"`
	CompletedAt     *string                  `json:"completed_at,omitempty"`
	CompletedBy     string                   `json:"completed_by,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// TripDetailResponse is the trip plus its derived metrics.
type TripDetailResponse struct {
	Trip TripResponse     `json:"trip"`
	KPIs TripKPIsResponse `json:"kpis"`
}

// TripListResponse represents the response for listing trips.
type TripListResponse struct {
	Trips []TripResponse `json:"trips"`
	Total int            `json:"total"`
}

// UpdateTripResponse represents the response of a trip update, including any
// audit records the edit produced.
type UpdateTripResponse struct {
	Trip        TripResponse         `json:"trip"`
	EditRecords []EditRecordResponse `json:"edit_records,omitempty"`
}

// ToTripResponse converts a TripOutput to a TripResponse DTO.
func ToTripResponse(t *trip.TripOutput) TripResponse {
	response := TripResponse{
		ID:              t.ID.String(),
		FleetNumber:     t.FleetNumber,
		DriverName:      t.DriverName,
		ClientName:      t.ClientName,
		ClientType:      string(t.ClientType),
		Route:           t.Route,
		RouteWaypoints:  t.RouteWaypoints,
		StartDate:       t.StartDate.Format("2006-01-02"),
		EndDate:         t.EndDate.Format("2006-01-02"),
		BaseRevenue:     t.BaseRevenue.String(),
		RevenueCurrency: t.RevenueCurrency,
		DistanceKm:      t.DistanceKm.String(),
		Status:          string(t.Status),
		Costs:           make([]CostEntryResponse, len(t.Costs)),
		AdditionalCosts: make([]AdditionalCostResponse, len(t.AdditionalCosts)),
		EditHistory:     make([]EditRecordResponse, len(t.EditHistory)),
		CompletedBy:     t.CompletedBy,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}

	if t.OffloadDate != nil {
		offload := t.OffloadDate.Format("2006-01-02")
		response.OffloadDate = &offload
	}
	if t.CompletedAt != nil {
		completed := t.CompletedAt.Format("2006-01-02")
		response.CompletedAt = &completed
	}

	for i, c := range t.Costs {
		response.Costs[i] = CostEntryResponse{
			ID:                c.ID.String(),
			Category:          c.Category,
			SubCategory:       c.SubCategory,
			Amount:            c.Amount.String(),
			Currency:          c.Currency,
			Date:              c.Date.Format("2006-01-02"),
			ReferenceNumber:   c.ReferenceNumber,
			Notes:             c.Notes,
			Attachments:       toAttachmentResponses(c.Attachments),
			IsFlagged:         c.IsFlagged,
			FlagReason:        c.FlagReason,
			FlagResolved:      c.FlagResolved,
			IsSystemGenerated: c.IsSystemGenerated,
		}
	}
	for i, ac := range t.AdditionalCosts {
		response.AdditionalCosts[i] = AdditionalCostResponse{
			ID:          ac.ID.String(),
			Category:    ac.Category,
			SubCategory: ac.SubCategory,
			Amount:      ac.Amount.String(),
			Currency:    ac.Currency,
			Date:        ac.Date.Format("2006-01-02"),
			Notes:       ac.Notes,
			Attachments: toAttachmentResponses(ac.Attachments),
			AddedBy:     ac.AddedBy,
			AddedAt:     ac.AddedAt,
		}
	}
	for i, r := range t.EditHistory {
		response.EditHistory[i] = toEditRecordResponse(r)
	}

	return response
}

// ToTripKPIsResponse converts trip KPIs to their response DTO.
func ToTripKPIsResponse(kpis valueobject.TripKPIs) TripKPIsResponse {
	return TripKPIsResponse{
		TotalRevenue:        kpis.TotalRevenue.String(),
		TotalExpenses:       kpis.TotalExpenses.String(),
		NetProfit:           kpis.NetProfit.String(),
		ProfitMargin:        kpis.ProfitMargin.String(),
		CostPerKm:           kpis.CostPerKm.String(),
		Currency:            kpis.Currency,
		FlaggedCount:        kpis.FlaggedCount,
		UnresolvedFlagCount: kpis.UnresolvedFlagCount,
	}
}

// ToUpdateTripResponse converts an UpdateTripOutput to its response DTO.
func ToUpdateTripResponse(output *trip.UpdateTripOutput) UpdateTripResponse {
	response := UpdateTripResponse{
		Trip:        ToTripResponse(output.Trip),
		EditRecords: make([]EditRecordResponse, len(output.EditRecords)),
	}
	for i, r := range output.EditRecords {
		response.EditRecords[i] = toEditRecordResponse(r)
	}
	return response
}

func toEditRecordResponse(r trip.EditRecordOutput) EditRecordResponse {
	return EditRecordResponse{
		ID:           r.ID.String(),
		TripID:       r.TripID.String(),
		EditedBy:     r.EditedBy,
		EditedAt:     r.EditedAt,
		Reason:       r.Reason,
		FieldChanged: r.FieldChanged,
		OldValue:     r.OldValue,
		NewValue:     r.NewValue,
		ChangeType:   string(r.ChangeType),
	}
}

func toAttachmentResponses(attachments []trip.AttachmentOutput) []AttachmentResponse {
	if len(attachments) == 0 {
		return nil
	}
	responses := make([]AttachmentResponse, len(attachments))
	for i, a := range attachments {
		responses[i] = AttachmentResponse{
			Filename:    a.Filename,
			URL:         a.URL,
			Size:        a.Size,
			ContentType: a.ContentType,
		}
	}
	return responses
}
