package cost

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
	"github.com/fleetops/backend/internal/domain/valueobject"
)

// ResolveCostFlagInput represents the input for resolving a flagged cost entry.
type ResolveCostFlagInput struct {
	TripID uuid.UUID
	CostID uuid.UUID
	Actor  string
	Reason string
}

// ResolveCostFlagOutput represents the output of resolving a flag.
type ResolveCostFlagOutput struct {
	Entry               *CostEntryOutput
	UnresolvedFlagCount int
}

// ResolveCostFlagUseCase marks a flagged cost entry as resolved, clearing it
// from the completion gate's blocking count.
type ResolveCostFlagUseCase struct {
	tripRepo adapter.TripRepository
}

// NewResolveCostFlagUseCase creates a new ResolveCostFlagUseCase instance.
func NewResolveCostFlagUseCase(tripRepo adapter.TripRepository) *ResolveCostFlagUseCase {
	return &ResolveCostFlagUseCase{tripRepo: tripRepo}
}

// Execute resolves the flag on a cost entry. Only open flags can be resolved.
func (uc *ResolveCostFlagUseCase) Execute(ctx context.Context, input ResolveCostFlagInput) (*ResolveCostFlagOutput, error) {
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

	if !entry.IsFlagged || entry.FlagResolved {
		return nil, domainerror.NewCostError(
			domainerror.ErrCodeFlagAlreadyResolved,
			"cost entry flag is not open",
			domainerror.ErrFlagAlreadyResolved,
		)
	}

	var record *entity.EditRecord
	if trip.Status != entity.TripStatusActive {
		if strings.TrimSpace(input.Actor) == "" {
			return nil, domainerror.NewEditError(
				domainerror.ErrCodeMissingActor,
				"acting user identity required",
				domainerror.ErrMissingActor,
			)
		}
		if err := valueobject.ValidateEditReason(input.Reason); err != nil {
			return nil, err
		}
		r := entity.NewEditRecord(
			trip.ID, input.Actor, time.Now().UTC(), input.Reason,
			"flagResolved", "false", "true", entity.ChangeTypeUpdate,
		)
		record = &r
	}

	entry.FlagResolved = true
	if record != nil {
		trip.AppendEditRecords([]entity.EditRecord{*record})
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := uc.tripRepo.Save(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	unresolved := trip.UnresolvedFlagCount()
	slog.Info("Cost flag resolved",
		"tripID", trip.ID,
		"costID", entry.ID,
		"remainingUnresolved", unresolved,
	)

	return &ResolveCostFlagOutput{
		Entry:               newCostEntryOutput(entry),
		UnresolvedFlagCount: unresolved,
	}, nil
}
