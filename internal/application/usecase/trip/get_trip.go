package trip

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/application/adapter"
	domainerror "github.com/fleetops/backend/internal/domain/error"
	"github.com/fleetops/backend/internal/domain/valueobject"
)

// GetTripInput represents the input for fetching a single trip.
type GetTripInput struct {
	TripID uuid.UUID
}

// GetTripOutput represents the output of fetching a trip, including its
// derived reconciliation metrics.
type GetTripOutput struct {
	Trip *TripOutput
	KPIs valueobject.TripKPIs
}

// GetTripUseCase handles single-trip retrieval.
type GetTripUseCase struct {
	tripRepo adapter.TripRepository
}

// NewGetTripUseCase creates a new GetTripUseCase instance.
func NewGetTripUseCase(tripRepo adapter.TripRepository) *GetTripUseCase {
	return &GetTripUseCase{tripRepo: tripRepo}
}

// Execute fetches the trip and recomputes its KPIs. KPIs are always derived
// fresh from the stored entries, never cached on the document.
func (uc *GetTripUseCase) Execute(ctx context.Context, input GetTripInput) (*GetTripOutput, error) {
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

	return &GetTripOutput{
		Trip: NewTripOutput(trip),
		KPIs: valueobject.CalculateKPIs(trip),
	}, nil
}
