package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
)

// DeleteTripInput represents the input for trip deletion.
type DeleteTripInput struct {
	TripID uuid.UUID
}

// DeleteTripUseCase handles trip deletion. Only active trips may be deleted;
// completed and invoiced trips carry audit history and are kept.
type DeleteTripUseCase struct {
	tripRepo adapter.TripRepository
}

// NewDeleteTripUseCase creates a new DeleteTripUseCase instance.
func NewDeleteTripUseCase(tripRepo adapter.TripRepository) *DeleteTripUseCase {
	return &DeleteTripUseCase{tripRepo: tripRepo}
}

// Execute deletes the trip document.
func (uc *DeleteTripUseCase) Execute(ctx context.Context, input DeleteTripInput) error {
	trip, err := uc.tripRepo.FindByID(ctx, input.TripID)
	if err != nil {
		if errors.Is(err, domainerror.ErrTripNotFound) {
			return domainerror.NewTripError(
				domainerror.ErrCodeTripNotFound,
				"trip not found",
				domainerror.ErrTripNotFound,
			)
		}
		return fmt.Errorf("failed to find trip: %w", err)
	}

	if trip.Status != entity.TripStatusActive {
		return domainerror.NewTripError(
			domainerror.ErrCodeTripNotActive,
			"only active trips can be deleted",
			domainerror.ErrTripNotActive,
		)
	}

	if err := uc.tripRepo.Delete(ctx, trip.ID); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	slog.Info("Trip deleted", "tripID", trip.ID)
	return nil
}
