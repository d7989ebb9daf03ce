package cost

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
)

// DeleteCostEntryInput represents the input for deleting a cost entry.
type DeleteCostEntryInput struct {
	TripID uuid.UUID
	CostID uuid.UUID
	Actor  string
	Reason string
}

// DeleteCostEntryUseCase handles removal of a cost entry from a trip.
type DeleteCostEntryUseCase struct {
	tripRepo adapter.TripRepository
}

// NewDeleteCostEntryUseCase creates a new DeleteCostEntryUseCase instance.
func NewDeleteCostEntryUseCase(tripRepo adapter.TripRepository) *DeleteCostEntryUseCase {
	return &DeleteCostEntryUseCase{tripRepo: tripRepo}
}

// Execute removes the cost entry by ID, guarded against missing IDs.
func (uc *DeleteCostEntryUseCase) Execute(ctx context.Context, input DeleteCostEntryInput) error {
	trip, err := loadMutableTrip(ctx, uc.tripRepo, input.TripID)
	if err != nil {
		return err
	}

	if trip.FindCostEntry(input.CostID) == nil {
		return domainerror.NewCostError(
			domainerror.ErrCodeCostEntryNotFound,
			"cost entry not found",
			domainerror.ErrCostEntryNotFound,
		)
	}

	before := len(trip.Costs)
	record, err := collectionAudit(trip, "costs", before, before-1, input.Actor, input.Reason, entity.ChangeTypeDelete)
	if err != nil {
		return err
	}

	trip.RemoveCostEntry(input.CostID)
	if record != nil {
		trip.AppendEditRecords([]entity.EditRecord{*record})
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := uc.tripRepo.Save(ctx, trip); err != nil {
		return fmt.Errorf("failed to save trip: %w", err)
	}

	slog.Info("Cost entry deleted", "tripID", trip.ID, "costID", input.CostID)
	return nil
}
