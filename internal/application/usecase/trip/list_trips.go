package trip

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
)

// ListTripsInput represents the filter criteria for listing trips.
type ListTripsInput struct {
	Statuses    []entity.TripStatus
	ClientName  string
	FleetNumber string
}

// ListTripsOutput represents the output of listing trips.
type ListTripsOutput struct {
	Trips []*TripOutput
	Total int
}

// ListTripsUseCase handles trip listing.
type ListTripsUseCase struct {
	tripRepo adapter.TripRepository
}

// NewListTripsUseCase creates a new ListTripsUseCase instance.
func NewListTripsUseCase(tripRepo adapter.TripRepository) *ListTripsUseCase {
	return &ListTripsUseCase{tripRepo: tripRepo}
}

// Execute lists trips matching the filter, newest first.
func (uc *ListTripsUseCase) Execute(ctx context.Context, input ListTripsInput) (*ListTripsOutput, error) {
	trips, err := uc.tripRepo.FindByFilter(ctx, adapter.TripFilter{
		Statuses:    input.Statuses,
		ClientName:  input.ClientName,
		FleetNumber: input.FleetNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	outputs := make([]*TripOutput, len(trips))
	for i, t := range trips {
		outputs[i] = NewTripOutput(t)
	}

	return &ListTripsOutput{Trips: outputs, Total: len(outputs)}, nil
}

// AttachmentOutput represents a stored attachment descriptor.
type AttachmentOutput struct {
	Filename    string
	URL         string
	Size        int64
	ContentType string
}

// CostEntryOutput represents a cost entry in use case outputs.
type CostEntryOutput struct {
	ID                uuid.UUID
	Category          string
	SubCategory       string
	Amount            decimal.Decimal
	Currency          string
	Date              time.Time
	ReferenceNumber   string
	Notes             string
	Attachments       []AttachmentOutput
	IsFlagged         bool
	FlagReason        string
	FlagResolved      bool
	IsSystemGenerated bool
}

// AdditionalCostOutput represents an additional cost in use case outputs.
type AdditionalCostOutput struct {
	ID          uuid.UUID
	Category    string
	SubCategory string
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
	Notes       string
	Attachments []AttachmentOutput
	AddedBy     string
	AddedAt     time.Time
}

// EditRecordOutput represents an audit record in use case outputs.
type EditRecordOutput struct {
	ID           uuid.UUID
	TripID       uuid.UUID
	EditedBy     string
	EditedAt     time.Time
	Reason       string
	FieldChanged string
	OldValue     string
	NewValue     string
	ChangeType   entity.ChangeType
}

// TripOutput represents a trip aggregate in use case outputs.
type TripOutput struct {
	ID              uuid.UUID
	FleetNumber     string
	DriverName      string
	ClientName      string
	ClientType      entity.ClientType
	Route           string
	RouteWaypoints  []string
	StartDate       time.Time
	EndDate         time.Time
	OffloadDate     *time.Time
	BaseRevenue     decimal.Decimal
	RevenueCurrency string
	DistanceKm      decimal.Decimal
	Status          entity.TripStatus
	Costs           []CostEntryOutput
	AdditionalCosts []AdditionalCostOutput
	EditHistory     []EditRecordOutput
	CompletedAt     *time.Time
	CompletedBy     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewTripOutput maps a trip entity to its use case output.
func NewTripOutput(t *entity.Trip) *TripOutput {
	output := &TripOutput{
		ID:              t.ID,
		FleetNumber:     t.FleetNumber,
		DriverName:      t.DriverName,
		ClientName:      t.ClientName,
		ClientType:      t.ClientType,
		Route:           t.Route,
		RouteWaypoints:  t.RouteWaypoints,
		StartDate:       t.StartDate,
		EndDate:         t.EndDate,
		OffloadDate:     t.OffloadDate,
		BaseRevenue:     t.BaseRevenue,
		RevenueCurrency: t.RevenueCurrency,
		DistanceKm:      t.DistanceKm,
		Status:          t.Status,
		Costs:           make([]CostEntryOutput, len(t.Costs)),
		AdditionalCosts: make([]AdditionalCostOutput, len(t.AdditionalCosts)),
		EditHistory:     make([]EditRecordOutput, len(t.EditHistory)),
		CompletedAt:     t.CompletedAt,
		CompletedBy:     t.CompletedBy,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}

	for i, c := range t.Costs {
		output.Costs[i] = CostEntryOutput{
			ID:                c.ID,
			Category:          c.Category,
			SubCategory:       c.SubCategory,
			Amount:            c.Amount,
			Currency:          c.Currency,
			Date:              c.Date,
			ReferenceNumber:   c.ReferenceNumber,
			Notes:             c.Notes,
			Attachments:       mapAttachments(c.Attachments),
			IsFlagged:         c.IsFlagged,
			FlagReason:        c.FlagReason,
			FlagResolved:      c.FlagResolved,
			IsSystemGenerated: c.IsSystemGenerated,
		}
	}
	for i, ac := range t.AdditionalCosts {
		output.AdditionalCosts[i] = AdditionalCostOutput{
			ID:          ac.ID,
			Category:    ac.Category,
			SubCategory: ac.SubCategory,
			Amount:      ac.Amount,
			Currency:    ac.Currency,
			Date:        ac.Date,
			Notes:       ac.Notes,
			Attachments: mapAttachments(ac.Attachments),
			AddedBy:     ac.AddedBy,
			AddedAt:     ac.AddedAt,
		}
	}
	for i, r := range t.EditHistory {
		output.EditHistory[i] = EditRecordOutput{
			ID:           r.ID,
			TripID:       r.TripID,
			EditedBy:     r.EditedBy,
			EditedAt:     r.EditedAt,
			Reason:       r.Reason,
			FieldChanged: r.FieldChanged,
			OldValue:     r.OldValue,
			NewValue:     r.NewValue,
			ChangeType:   r.ChangeType,
		}
	}

	return output
}

func mapAttachments(attachments []entity.Attachment) []AttachmentOutput {
	outputs := make([]AttachmentOutput, len(attachments))
	for i, a := range attachments {
		outputs[i] = AttachmentOutput{
			Filename:    a.Filename,
			URL:         a.URL,
			Size:        a.Size,
			ContentType: a.ContentType,
		}
	}
	return outputs
}
