package cost

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
)

// AddAdditionalCostInput represents the input for appending an ad hoc cost
// (detention, tolls, fines) to a trip. Explicitly permitted on completed
// trips provided a justification reason accompanies the call.
type AddAdditionalCostInput struct {
	TripID      uuid.UUID
	Actor       string
	Reason      string
	Category    string
	SubCategory string
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
	Notes       string
	Files       []adapter.FileUpload
}

// AddAdditionalCostOutput represents the output of appending an additional cost.
type AddAdditionalCostOutput struct {
	CostID uuid.UUID
}

// AddAdditionalCostUseCase handles appending an additional cost to a trip.
type AddAdditionalCostUseCase struct {
	tripRepo        adapter.TripRepository
	attachmentStore adapter.AttachmentStore
}

// NewAddAdditionalCostUseCase creates a new AddAdditionalCostUseCase instance.
func NewAddAdditionalCostUseCase(
	tripRepo adapter.TripRepository,
	attachmentStore adapter.AttachmentStore,
) *AddAdditionalCostUseCase {
	return &AddAdditionalCostUseCase{
		tripRepo:        tripRepo,
		attachmentStore: attachmentStore,
	}
}

// Execute validates and appends the additional cost. On a non-active trip
// the change is audited as the synthetic "additionalCosts" field with
// before/after counts.
func (uc *AddAdditionalCostUseCase) Execute(ctx context.Context, input AddAdditionalCostInput) (*AddAdditionalCostOutput, error) {
	if err := validateCostFields(input.Category, input.Amount, input.Currency); err != nil {
		return nil, err
	}

	trip, err := loadMutableTrip(ctx, uc.tripRepo, input.TripID)
	if err != nil {
		return nil, err
	}

	before := len(trip.AdditionalCosts)
	record, err := collectionAudit(trip, "additionalCosts", before, before+1, input.Actor, input.Reason, entity.ChangeTypeCreate)
	if err != nil {
		return nil, err
	}

	additionalCost := entity.NewAdditionalCost(
		input.Category,
		input.SubCategory,
		input.Amount,
		input.Currency,
		input.Date,
		input.Notes,
		input.Actor,
	)

	attachments, err := storeUploads(ctx, uc.attachmentStore, trip.ID, input.Files)
	if err != nil {
		return nil, err
	}
	additionalCost.Attachments = attachments

	trip.AdditionalCosts = append(trip.AdditionalCosts, *additionalCost)
	if record != nil {
		trip.AppendEditRecords([]entity.EditRecord{*record})
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := uc.tripRepo.Save(ctx, trip); err != nil {
		removeUploads(ctx, uc.attachmentStore, trip.ID, attachments)
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	slog.Info("Additional cost added",
		"tripID", trip.ID,
		"costID", additionalCost.ID,
		"category", additionalCost.Category,
		"tripStatus", trip.Status,
	)

	return &AddAdditionalCostOutput{CostID: additionalCost.ID}, nil
}
