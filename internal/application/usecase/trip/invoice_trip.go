package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
)

// InvoiceTripInput represents the input for invoicing a trip.
type InvoiceTripInput struct {
	TripID uuid.UUID
	Actor  string
}

// InvoiceTripOutput represents the output of invoicing a trip.
type InvoiceTripOutput struct {
	Trip *TripOutput
}

// InvoiceTripUseCase transitions a completed trip to its terminal invoiced
// state. The transition is unconditional; no further gate applies.
type InvoiceTripUseCase struct {
	tripRepo adapter.TripRepository
}

// NewInvoiceTripUseCase creates a new InvoiceTripUseCase instance.
func NewInvoiceTripUseCase(tripRepo adapter.TripRepository) *InvoiceTripUseCase {
	return &InvoiceTripUseCase{tripRepo: tripRepo}
}

// Execute transitions the trip from completed to invoiced. Invoicing an
// active trip would skip the completion gate, so only completed trips pass.
func (uc *InvoiceTripUseCase) Execute(ctx context.Context, input InvoiceTripInput) (*InvoiceTripOutput, error) {
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

	if trip.Status != entity.TripStatusCompleted {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeInvalidTransition,
			fmt.Sprintf("cannot invoice a trip in status %q", trip.Status),
			domainerror.ErrInvalidStatusTransition,
		)
	}

	trip.Status = entity.TripStatusInvoiced
	trip.UpdatedAt = time.Now().UTC()

	if err := uc.tripRepo.Save(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	slog.Info("Trip invoiced",
		"tripID", trip.ID,
		"invoicedBy", input.Actor,
	)

	return &InvoiceTripOutput{Trip: NewTripOutput(trip)}, nil
}
