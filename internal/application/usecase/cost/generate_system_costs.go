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
	"github.com/fleetops/backend/internal/domain/valueobject"
)

// GenerateSystemCostsInput represents the input for the overhead allocator.
type GenerateSystemCostsInput struct {
	TripID uuid.UUID
	Actor  string
	Reason string
}

// GenerateSystemCostsOutput represents the output of the overhead allocator.
type GenerateSystemCostsOutput struct {
	Entries []*CostEntryOutput
}

// GenerateSystemCostsUseCase generates the fixed set of per-day and per-km
// overhead cost entries for a trip. Generation runs at most once per trip:
// if any system-generated entry already exists the call is refused, which
// prevents double-charging overhead on repeated invocation.
type GenerateSystemCostsUseCase struct {
	tripRepo adapter.TripRepository
	norms    valueobject.OverheadNorms
}

// NewGenerateSystemCostsUseCase creates a new GenerateSystemCostsUseCase instance.
func NewGenerateSystemCostsUseCase(
	tripRepo adapter.TripRepository,
	norms valueobject.OverheadNorms,
) *GenerateSystemCostsUseCase {
	return &GenerateSystemCostsUseCase{
		tripRepo: tripRepo,
		norms:    norms,
	}
}

// Execute runs the overhead allocator against the trip.
func (uc *GenerateSystemCostsUseCase) Execute(ctx context.Context, input GenerateSystemCostsInput) (*GenerateSystemCostsOutput, error) {
	trip, err := loadMutableTrip(ctx, uc.tripRepo, input.TripID)
	if err != nil {
		return nil, err
	}

	// Idempotency check before generating anything.
	if trip.HasSystemGeneratedCosts() {
		return nil, domainerror.NewCostError(
			domainerror.ErrCodeSystemCostsAlreadyExist,
			"system-generated costs already exist for this trip",
			domainerror.ErrSystemCostsAlreadyGenerated,
		)
	}

	before := len(trip.Costs)
	entries := valueobject.GenerateOverheadEntries(trip, uc.norms, time.Now().UTC())

	record, err := collectionAudit(trip, "costs", before, before+len(entries), input.Actor, input.Reason, entity.ChangeTypeCreate)
	if err != nil {
		return nil, err
	}

	trip.Costs = append(trip.Costs, entries...)
	if record != nil {
		trip.AppendEditRecords([]entity.EditRecord{*record})
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := uc.tripRepo.Save(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	slog.Info("System overhead costs generated",
		"tripID", trip.ID,
		"entryCount", len(entries),
	)

	outputs := make([]*CostEntryOutput, len(entries))
	for i := range entries {
		outputs[i] = newCostEntryOutput(&entries[i])
	}
	return &GenerateSystemCostsOutput{Entries: outputs}, nil
}
