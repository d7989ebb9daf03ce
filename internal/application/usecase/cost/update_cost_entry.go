package cost

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
)

// UpdateCostEntryInput represents the input for updating a cost entry.
// Nil pointers leave the corresponding field untouched.
type UpdateCostEntryInput struct {
	TripID          uuid.UUID
	CostID          uuid.UUID
	Actor           string
	Reason          string
	Category        *string
	SubCategory     *string
	Amount          *decimal.Decimal
	Currency        *string
	Date            *time.Time
	ReferenceNumber *string
	Notes           *string
}

// UpdateCostEntryOutput represents the output of updating a cost entry.
type UpdateCostEntryOutput struct {
	Entry *CostEntryOutput
}

// UpdateCostEntryUseCase handles in-place mutation of a cost entry.
type UpdateCostEntryUseCase struct {
	tripRepo adapter.TripRepository
}

// NewUpdateCostEntryUseCase creates a new UpdateCostEntryUseCase instance.
func NewUpdateCostEntryUseCase(tripRepo adapter.TripRepository) *UpdateCostEntryUseCase {
	return &UpdateCostEntryUseCase{tripRepo: tripRepo}
}

// Execute updates the cost entry in place. On a non-active trip one audit
// record is emitted per save, summarizing the entry before and after.
func (uc *UpdateCostEntryUseCase) Execute(ctx context.Context, input UpdateCostEntryInput) (*UpdateCostEntryOutput, error) {
	if input.Category != nil && strings.TrimSpace(*input.Category) == "" {
		return nil, domainerror.NewCostError(
			domainerror.ErrCodeMissingCostCategory,
			"cost category is required",
			domainerror.ErrMissingCostCategory,
		)
	}
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, domainerror.NewCostError(
			domainerror.ErrCodeInvalidCostAmount,
			"cost amount must be greater than zero",
			domainerror.ErrInvalidCostAmount,
		)
	}
	if input.Currency != nil && strings.TrimSpace(*input.Currency) == "" {
		return nil, domainerror.NewCostError(
			domainerror.ErrCodeMissingCostCurrency,
			"cost currency is required",
			domainerror.ErrMissingCostCurrency,
		)
	}

	trip, err := loadMutableTrip(ctx, uc.tripRepo, input.TripID)
	if err != nil {
		return nil, err
	}

	entry := trip.FindCostEntry(input.CostID)
	if entry == nil {
		return nil, domainerror.NewCostError(
			domainerror.ErrCodeCostEntryNotFound,
			"cost entry not found",
			domainerror.ErrCostEntryNotFound,
		)
	}

	oldSummary := costSummary(entry)

	var record *entity.EditRecord
	if trip.Status != entity.TripStatusActive {
		if strings.TrimSpace(input.Actor) == "" {
			return nil, domainerror.NewEditError(
				domainerror.ErrCodeMissingActor,
				"acting user identity required",
				domainerror.ErrMissingActor,
			)
		}
		if strings.TrimSpace(input.Reason) == "" {
			return nil, domainerror.NewEditError(
				domainerror.ErrCodeEditReasonRequired,
				"editReason required",
				domainerror.ErrEditReasonRequired,
			)
		}
	}

	if input.Category != nil {
		entry.Category = *input.Category
	}
	if input.SubCategory != nil {
		entry.SubCategory = *input.SubCategory
	}
	if input.Amount != nil {
		entry.Amount = *input.Amount
	}
	if input.Currency != nil {
		entry.Currency = *input.Currency
	}
	if input.Date != nil {
		entry.Date = *input.Date
	}
	if input.ReferenceNumber != nil {
		entry.ReferenceNumber = *input.ReferenceNumber
	}
	if input.Notes != nil {
		entry.Notes = *input.Notes
	}

	newSummary := costSummary(entry)
	if trip.Status != entity.TripStatusActive {
		if oldSummary == newSummary {
			return nil, domainerror.NewEditError(
				domainerror.ErrCodeNoChangesDetected,
				"no changes detected",
				domainerror.ErrNoChangesDetected,
			)
		}
		r := entity.NewEditRecord(
			trip.ID, input.Actor, time.Now().UTC(), input.Reason,
			"costs", oldSummary, newSummary, entity.ChangeTypeUpdate,
		)
		record = &r
	}

	if record != nil {
		trip.AppendEditRecords([]entity.EditRecord{*record})
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := uc.tripRepo.Save(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	slog.Info("Cost entry updated", "tripID", trip.ID, "costID", entry.ID)

	return &UpdateCostEntryOutput{Entry: newCostEntryOutput(entry)}, nil
}

// costSummary renders a cost entry as a normalized comparison string.
func costSummary(entry *entity.CostEntry) string {
	return strings.Join([]string{
		entry.Category,
		entry.SubCategory,
		entry.Amount.String(),
		entry.Currency,
		entry.Date.UTC().Format("2006-01-02"),
		entry.ReferenceNumber,
		entry.Notes,
	}, "|")
}
