package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
)

// CompleteTripInput represents the input for completing a trip.
type CompleteTripInput struct {
	TripID uuid.UUID
	Actor  string
}

// CompleteTripOutput represents the output of completing a trip.
type CompleteTripOutput struct {
	Trip *TripOutput
}

// CompleteTripUseCase is the completion gate: it enforces that a trip cannot
// move to completed while unresolved flagged cost entries exist.
type CompleteTripUseCase struct {
	tripRepo adapter.TripRepository
}

// NewCompleteTripUseCase creates a new CompleteTripUseCase instance.
func NewCompleteTripUseCase(tripRepo adapter.TripRepository) *CompleteTripUseCase {
	return &CompleteTripUseCase{tripRepo: tripRepo}
}

// Execute transitions the trip from active to completed. If unresolved
// flagged entries exist, the transition is rejected with the exact blocking
// count and the trip stays active. On success the completion date (date-only)
// and the acting user are stamped.
func (uc *CompleteTripUseCase) Execute(ctx context.Context, input CompleteTripInput) (*CompleteTripOutput, error) {
	if strings.TrimSpace(input.Actor) == "" {
		return nil, domainerror.NewEditError(
			domainerror.ErrCodeMissingActor,
			"acting user identity required",
			domainerror.ErrMissingActor,
		)
	}

	trip, err := uc.tripRepo.FindByID(ctx, input.TripID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTripNotFound) {
			return nil, domainerror.NewTripError(
				domainerror.ErrCodeTripNotFound,
				"trip not found",
				domainerror.ErrTripNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find trip: %w", err)
	}

	if trip.Status != entity.TripStatusActive {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeInvalidTransition,
			fmt.Sprintf("cannot complete a trip in status %q", trip.Status),
			domainerror.ErrInvalidStatusTransition,
		)
	}

	if unresolved := trip.UnresolvedFlagCount(); unresolved > 0 {
		return nil, domainerror.NewIncompleteFlagsError(unresolved)
	}

	now := time.Now().UTC()
	completedAt := now.Truncate(24 * time.Hour)
	trip.Status = entity.TripStatusCompleted
	trip.CompletedAt = &completedAt
	trip.CompletedBy = input.Actor
	trip.UpdatedAt = now

	if err := uc.tripRepo.Save(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	slog.Info("Trip completed",
		"tripID", trip.ID,
		"completedBy", input.Actor,
	)

	return &CompleteTripOutput{Trip: NewTripOutput(trip)}, nil
}
