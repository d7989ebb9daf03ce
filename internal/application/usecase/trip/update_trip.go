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
	"github.com/fleetops/backend/internal/domain/valueobject"
)

// UpdateTripInput represents the input for a trip update. Reason is required
// whenever the trip is no longer active; it is ignored for active trips.
type UpdateTripInput struct {
	TripID uuid.UUID
	Actor  string
	Reason string
	Patch  valueobject.TripPatch
}

// UpdateTripOutput represents the output of a trip update.
type UpdateTripOutput struct {
	Trip        *TripOutput
	EditRecords []EditRecordOutput
}

// UpdateTripUseCase handles trip updates, routing mutations of completed
// trips through the edit-justification workflow.
type UpdateTripUseCase struct {
	tripRepo adapter.TripRepository
}

// NewUpdateTripUseCase creates a new UpdateTripUseCase instance.
func NewUpdateTripUseCase(tripRepo adapter.TripRepository) *UpdateTripUseCase {
	return &UpdateTripUseCase{tripRepo: tripRepo}
}

// Execute performs the trip update. Active trips are mutated freely; a
// completed trip demands a non-empty reason and emits one edit record per
// changed field; invoiced trips are terminal and reject all edits. All
// validation happens before any write, so a failed update leaves both the
// in-memory and persisted trip unchanged.
func (uc *UpdateTripUseCase) Execute(ctx context.Context, input UpdateTripInput) (*UpdateTripOutput, error) {
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

	if trip.Status == entity.TripStatusInvoiced {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeTripInvoiced,
			"invoiced trips can no longer be edited",
			domainerror.ErrTripInvoiced,
		)
	}

	if err := validatePatch(trip, input.Patch); err != nil {
		return nil, err
	}

	var records []entity.EditRecord
	if trip.Status != entity.TripStatusActive {
		records, err = valueobject.BuildEditRecords(trip, input.Patch, input.Actor, input.Reason, time.Now().UTC())
		if err != nil {
			return nil, err
		}
	}

	valueobject.ApplyTripPatch(trip, input.Patch)
	trip.AppendEditRecords(records)
	trip.UpdatedAt = time.Now().UTC()

	if err := uc.tripRepo.Save(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	if len(records) > 0 {
		slog.Info("Completed trip edited",
			"tripID", trip.ID,
			"editedBy", input.Actor,
			"fieldsChanged", len(records),
		)
	}

	output := NewTripOutput(trip)
	recordOutputs := make([]EditRecordOutput, len(records))
	for i, r := range records {
		recordOutputs[i] = EditRecordOutput{
			ID:           r.ID,
			TripID:       r.TripID,
			EditedBy:     r.EditedBy,
			EditedAt:     r.EditedAt,
			Reason:       r.Reason,
			FieldChanged: r.FieldChanged,
			OldValue:     r.OldValue,
			NewValue:     r.NewValue,
			ChangeType:   r.ChangeType,
		}
	}

	return &UpdateTripOutput{Trip: output, EditRecords: recordOutputs}, nil
}

// validatePatch checks the patched values against the trip invariants before
// anything is applied.
func validatePatch(trip *entity.Trip, patch valueobject.TripPatch) error {
	if patch.ClientType != nil &&
		*patch.ClientType != entity.ClientTypeInternal && *patch.ClientType != entity.ClientTypeExternal {
		return domainerror.NewTripError(
			domainerror.ErrCodeInvalidClientType,
			"client type must be 'internal' or 'external'",
			domainerror.ErrInvalidClientType,
		)
	}
	if patch.BaseRevenue != nil && patch.BaseRevenue.IsNegative() {
		return domainerror.NewTripError(
			domainerror.ErrCodeNegativeRevenue,
			"base revenue must not be negative",
			domainerror.ErrNegativeRevenue,
		)
	}
	if patch.DistanceKm != nil && patch.DistanceKm.IsNegative() {
		return domainerror.NewTripError(
			domainerror.ErrCodeNegativeDistance,
			"distance must not be negative",
			domainerror.ErrNegativeDistance,
		)
	}

	start := trip.StartDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	end := trip.EndDate
	if patch.EndDate != nil {
		end = *patch.EndDate
	}
	if end.Before(start) {
		return domainerror.NewTripError(
			domainerror.ErrCodeEndBeforeStart,
			"end date must not precede start date",
			domainerror.ErrEndBeforeStart,
		)
	}

	return nil
}
