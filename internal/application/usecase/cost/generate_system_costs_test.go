package cost

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
	"github.com/fleetops/backend/internal/domain/valueobject"
)

// fakeTripRepo is an in-memory TripRepository for cost use case tests.
// FindByID hands out copies so only Save changes the stored trip.
type fakeTripRepo struct {
	trips   map[uuid.UUID]*entity.Trip
	saveErr error
}

func newFakeTripRepo(trips ...*entity.Trip) *fakeTripRepo {
	repo := &fakeTripRepo{trips: make(map[uuid.UUID]*entity.Trip)}
	for _, t := range trips {
		repo.trips[t.ID] = t
	}
	return repo
}

func (r *fakeTripRepo) Create(_ context.Context, trip *entity.Trip) error {
	stored := *trip
	r.trips[trip.ID] = &stored
	return nil
}

func (r *fakeTripRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Trip, error) {
	stored, ok := r.trips[id]
	if !ok {
		return nil, domainerror.ErrTripNotFound
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeTripRepo) FindByFilter(_ context.Context, _ adapter.TripFilter) ([]*entity.Trip, error) {
	result := make([]*entity.Trip, 0, len(r.trips))
	for _, stored := range r.trips {
		copied := *stored
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeTripRepo) Save(_ context.Context, trip *entity.Trip) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	stored := *trip
	r.trips[trip.ID] = &stored
	return nil
}

func (r *fakeTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.trips, id)
	return nil
}

func activeTrip() *entity.Trip {
	start := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)
	return entity.NewTrip(
		"TRK-021", "N. Chirwa", "Zambezi Timber", entity.ClientTypeExternal,
		"Lusaka - Livingstone", nil, start, start.AddDate(0, 0, 1),
		decimal.NewFromInt(26000), "ZAR", decimal.NewFromInt(480),
	)
}

func testNorms() valueobject.OverheadNorms {
	return valueobject.OverheadNorms{
		PerDay: []valueobject.OverheadRate{
			{Category: valueobject.SystemCostCategory, SubCategory: "Tracking", Rate: decimal.NewFromInt(35)},
		},
		PerKm: []valueobject.OverheadRate{
			{Category: valueobject.SystemCostCategory, SubCategory: "Tyre Cost per KM", Rate: decimal.NewFromFloat(0.5)},
		},
	}
}

func TestGenerateSystemCostsUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("generates one entry per norm line", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewGenerateSystemCostsUseCase(repo, testNorms())

		output, err := uc.Execute(ctx, GenerateSystemCostsInput{TripID: trip.ID, Actor: "admin@fleet"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(output.Entries))
		}
		for _, entry := range output.Entries {
			if !entry.IsSystemGenerated {
				t.Errorf("entry %q not marked system generated", entry.SubCategory)
			}
		}
		if len(repo.trips[trip.ID].Costs) != 2 {
			t.Errorf("entries not persisted with the trip")
		}
	})

	t.Run("second generation is refused", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewGenerateSystemCostsUseCase(repo, testNorms())

		if _, err := uc.Execute(ctx, GenerateSystemCostsInput{TripID: trip.ID, Actor: "admin@fleet"}); err != nil {
			t.Fatalf("first generation failed: %v", err)
		}

		_, err := uc.Execute(ctx, GenerateSystemCostsInput{TripID: trip.ID, Actor: "admin@fleet"})

		var costErr *domainerror.CostError
		if !errors.As(err, &costErr) || costErr.Code != domainerror.ErrCodeSystemCostsAlreadyExist {
			t.Fatalf("expected already-generated rejection, got %v", err)
		}
		if len(repo.trips[trip.ID].Costs) != 2 {
			t.Errorf("refused generation still appended entries, got %d", len(repo.trips[trip.ID].Costs))
		}
	})

	t.Run("manual entries do not block generation", func(t *testing.T) {
		trip := activeTrip()
		manual := entity.NewCostEntry("Fuel", "Diesel", decimal.NewFromInt(3000), "ZAR", trip.StartDate, "", "")
		trip.Costs = append(trip.Costs, *manual)
		repo := newFakeTripRepo(trip)
		uc := NewGenerateSystemCostsUseCase(repo, testNorms())

		output, err := uc.Execute(ctx, GenerateSystemCostsInput{TripID: trip.ID, Actor: "admin@fleet"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Entries) != 2 {
			t.Errorf("expected 2 generated entries, got %d", len(output.Entries))
		}
	})

	t.Run("completed trip generation needs a reason and is audited", func(t *testing.T) {
		trip := activeTrip()
		trip.Status = entity.TripStatusCompleted
		repo := newFakeTripRepo(trip)
		uc := NewGenerateSystemCostsUseCase(repo, testNorms())

		_, err := uc.Execute(ctx, GenerateSystemCostsInput{TripID: trip.ID, Actor: "admin@fleet"})
		if !errors.Is(err, domainerror.ErrEditReasonRequired) {
			t.Fatalf("expected ErrEditReasonRequired, got %v", err)
		}

		_, err = uc.Execute(ctx, GenerateSystemCostsInput{
			TripID: trip.ID,
			Actor:  "admin@fleet",
			Reason: "overheads missed before completion",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored := repo.trips[trip.ID]
		if len(stored.EditHistory) != 1 {
			t.Fatalf("expected 1 audit record, got %d", len(stored.EditHistory))
		}
		record := stored.EditHistory[0]
		if record.FieldChanged != "costs" {
			t.Errorf("audit record field %q, want costs", record.FieldChanged)
		}
		if record.OldValue != "0" || record.NewValue != "2" {
			t.Errorf("audit count diff %q -> %q, want 0 -> 2", record.OldValue, record.NewValue)
		}
	})

	t.Run("invoiced trip is rejected", func(t *testing.T) {
		trip := activeTrip()
		trip.Status = entity.TripStatusInvoiced
		repo := newFakeTripRepo(trip)
		uc := NewGenerateSystemCostsUseCase(repo, testNorms())

		_, err := uc.Execute(ctx, GenerateSystemCostsInput{TripID: trip.ID, Actor: "admin@fleet", Reason: "reason"})

		var tripErr *domainerror.TripError
		if !errors.As(err, &tripErr) || tripErr.Code != domainerror.ErrCodeTripInvoiced {
			t.Fatalf("expected invoiced trip rejection, got %v", err)
		}
	})
}
