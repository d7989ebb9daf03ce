package trip

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
	"github.com/fleetops/backend/internal/domain/valueobject"
)

func strPtr(s string) *string { return &s }

func TestUpdateTripUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("active trip edits are unaudited", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewUpdateTripUseCase(repo)

		output, err := uc.Execute(ctx, UpdateTripInput{
			TripID: trip.ID,
			Actor:  "ops@fleet",
			Patch:  valueobject.TripPatch{DriverName: strPtr("P. Sibanda")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Trip.DriverName != "P. Sibanda" {
			t.Errorf("driver not updated: %s", output.Trip.DriverName)
		}
		if len(output.EditRecords) != 0 {
			t.Errorf("active trip edit produced %d audit records", len(output.EditRecords))
		}
		if len(repo.trips[trip.ID].EditHistory) != 0 {
			t.Errorf("edit history written for an active trip")
		}
	})

	t.Run("completed trip edit requires a reason", func(t *testing.T) {
		trip := activeTrip()
		trip.Status = entity.TripStatusCompleted
		repo := newFakeTripRepo(trip)
		uc := NewUpdateTripUseCase(repo)

		_, err := uc.Execute(ctx, UpdateTripInput{
			TripID: trip.ID,
			Actor:  "ops@fleet",
			Patch:  valueobject.TripPatch{DriverName: strPtr("P. Sibanda")},
		})
		if !errors.Is(err, domainerror.ErrEditReasonRequired) {
			t.Fatalf("expected ErrEditReasonRequired, got %v", err)
		}
		if repo.trips[trip.ID].DriverName != "M. Moyo" {
			t.Errorf("rejected edit still mutated the trip")
		}
	})

	t.Run("completed trip edit produces one record per field", func(t *testing.T) {
		trip := activeTrip()
		trip.Status = entity.TripStatusCompleted
		repo := newFakeTripRepo(trip)
		uc := NewUpdateTripUseCase(repo)

		newRevenue := decimal.NewFromInt(19500)
		output, err := uc.Execute(ctx, UpdateTripInput{
			TripID: trip.ID,
			Actor:  "ops@fleet",
			Reason: "client renegotiated the rate",
			Patch: valueobject.TripPatch{
				BaseRevenue: &newRevenue,
				DriverName:  strPtr("P. Sibanda"),
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.EditRecords) != 2 {
			t.Fatalf("expected 2 edit records, got %d", len(output.EditRecords))
		}
		for _, record := range output.EditRecords {
			if record.Reason != "client renegotiated the rate" {
				t.Errorf("record missing reason: %+v", record)
			}
			if record.EditedBy != "ops@fleet" {
				t.Errorf("record missing actor: %+v", record)
			}
		}
		if len(repo.trips[trip.ID].EditHistory) != 2 {
			t.Errorf("edit history not persisted with the trip")
		}
	})

	t.Run("invoiced trip is terminal", func(t *testing.T) {
		trip := activeTrip()
		trip.Status = entity.TripStatusInvoiced
		repo := newFakeTripRepo(trip)
		uc := NewUpdateTripUseCase(repo)

		_, err := uc.Execute(ctx, UpdateTripInput{
			TripID: trip.ID,
			Actor:  "ops@fleet",
			Reason: "reason",
			Patch:  valueobject.TripPatch{DriverName: strPtr("P. Sibanda")},
		})

		var tripErr *domainerror.TripError
		if !errors.As(err, &tripErr) || tripErr.Code != domainerror.ErrCodeTripInvoiced {
			t.Fatalf("expected invoiced trip rejection, got %v", err)
		}
	})

	t.Run("end date before start date is rejected", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewUpdateTripUseCase(repo)

		badEnd := trip.StartDate.AddDate(0, 0, -1)
		_, err := uc.Execute(ctx, UpdateTripInput{
			TripID: trip.ID,
			Actor:  "ops@fleet",
			Patch:  valueobject.TripPatch{EndDate: &badEnd},
		})

		var tripErr *domainerror.TripError
		if !errors.As(err, &tripErr) || tripErr.Code != domainerror.ErrCodeEndBeforeStart {
			t.Fatalf("expected end-before-start rejection, got %v", err)
		}
	})

	t.Run("negative revenue is rejected", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewUpdateTripUseCase(repo)

		negative := decimal.NewFromInt(-100)
		_, err := uc.Execute(ctx, UpdateTripInput{
			TripID: trip.ID,
			Actor:  "ops@fleet",
			Patch:  valueobject.TripPatch{BaseRevenue: &negative},
		})

		var tripErr *domainerror.TripError
		if !errors.As(err, &tripErr) || tripErr.Code != domainerror.ErrCodeNegativeRevenue {
			t.Fatalf("expected negative revenue rejection, got %v", err)
		}
	})
}
