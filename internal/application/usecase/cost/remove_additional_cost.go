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

// RemoveAdditionalCostInput represents the input for removing an additional cost.
type RemoveAdditionalCostInput struct {
	TripID uuid.UUID
	CostID uuid.UUID
	Actor  string
	Reason string
}

// RemoveAdditionalCostUseCase handles removal of an additional cost from a
// trip, permitted on completed trips under the edit-justification workflow.
type RemoveAdditionalCostUseCase struct {
	tripRepo adapter.TripRepository
}

// NewRemoveAdditionalCostUseCase creates a new RemoveAdditionalCostUseCase instance.
func NewRemoveAdditionalCostUseCase(tripRepo adapter.TripRepository) *RemoveAdditionalCostUseCase {
	return &RemoveAdditionalCostUseCase{tripRepo: tripRepo}
}

// Execute removes the additional cost by ID, guarded against missing IDs.
func (uc *RemoveAdditionalCostUseCase) Execute(ctx context.Context, input RemoveAdditionalCostInput) error {
	trip, err := loadMutableTrip(ctx, uc.tripRepo, input.TripID)
	if err != nil {
		return err
	}

	if trip.FindAdditionalCost(input.CostID) == nil {
		return domainerror.NewCostError(
			domainerror.ErrCodeAdditionalCostNotFound,
			"additional cost not found",
			domainerror.ErrAdditionalCostNotFound,
		)
	}

	before := len(trip.AdditionalCosts)
	record, err := collectionAudit(trip, "additionalCosts", before, before-1, input.Actor, input.Reason, entity.ChangeTypeDelete)
	if err != nil {
		return err
	}

	trip.RemoveAdditionalCost(input.CostID)
	if record != nil {
		trip.AppendEditRecords([]entity.EditRecord{*record})
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := uc.tripRepo.Save(ctx, trip); err != nil {
		return fmt.Errorf("failed to save trip: %w", err)
	}

	slog.Info("Additional cost removed", "tripID", trip.ID, "costID", input.CostID)
	return nil
}
