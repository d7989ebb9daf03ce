package trip

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
)

// fakeTripRepo is an in-memory TripRepository backed by a map. FindByID
// returns a copy so use cases only affect the store through Save, the same
// round-trip behavior the document store has.
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

func (r *fakeTripRepo) FindByFilter(_ context.Context, filter adapter.TripFilter) ([]*entity.Trip, error) {
	result := make([]*entity.Trip, 0, len(r.trips))
	for _, stored := range r.trips {
		if filter.ClientName != "" && stored.ClientName != filter.ClientName {
			continue
		}
		if filter.FleetNumber != "" && stored.FleetNumber != filter.FleetNumber {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if stored.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
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
	start := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	return entity.NewTrip(
		"TRK-014", "M. Moyo", "Delta Beverages", entity.ClientTypeExternal,
		"Harare - Mutare", []string{"Rusape"}, start, start.AddDate(0, 0, 2),
		decimal.NewFromInt(18000), "ZAR", decimal.NewFromInt(530),
	)
}

func flaggedEntry(resolved bool) entity.CostEntry {
	entry := entity.NewCostEntry(
		"Fuel", "Diesel", decimal.NewFromInt(4200), "ZAR",
		time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC), "INV-221", "",
	)
	entry.IsFlagged = true
	entry.FlagReason = "receipt amount mismatch"
	entry.FlagResolved = resolved
	return *entry
}

func TestCompleteTripUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps completion date and actor", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewCompleteTripUseCase(repo)

		output, err := uc.Execute(ctx, CompleteTripInput{TripID: trip.ID, Actor: "dispatcher@fleet"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Trip.Status != entity.TripStatusCompleted {
			t.Errorf("expected completed status, got %s", output.Trip.Status)
		}

		stored := repo.trips[trip.ID]
		if stored.Status != entity.TripStatusCompleted {
			t.Errorf("stored trip not completed: %s", stored.Status)
		}
		if stored.CompletedBy != "dispatcher@fleet" {
			t.Errorf("completedBy not stamped: %q", stored.CompletedBy)
		}
		if stored.CompletedAt == nil {
			t.Fatal("completedAt not stamped")
		}
		if !stored.CompletedAt.Equal(stored.CompletedAt.Truncate(24 * time.Hour)) {
			t.Errorf("completedAt carries a time component: %v", stored.CompletedAt)
		}
	})

	t.Run("unresolved flags block completion with exact count", func(t *testing.T) {
		trip := activeTrip()
		trip.Costs = []entity.CostEntry{flaggedEntry(false), flaggedEntry(true), flaggedEntry(false)}
		repo := newFakeTripRepo(trip)
		uc := NewCompleteTripUseCase(repo)

		_, err := uc.Execute(ctx, CompleteTripInput{TripID: trip.ID, Actor: "dispatcher@fleet"})

		var flagsErr *domainerror.IncompleteFlagsError
		if !errors.As(err, &flagsErr) {
			t.Fatalf("expected IncompleteFlagsError, got %v", err)
		}
		if flagsErr.UnresolvedCount != 2 {
			t.Errorf("expected 2 unresolved flags, got %d", flagsErr.UnresolvedCount)
		}
		if repo.trips[trip.ID].Status != entity.TripStatusActive {
			t.Errorf("trip left active status after rejected completion")
		}
	})

	t.Run("completed trip cannot be completed again", func(t *testing.T) {
		trip := activeTrip()
		trip.Status = entity.TripStatusCompleted
		repo := newFakeTripRepo(trip)
		uc := NewCompleteTripUseCase(repo)

		_, err := uc.Execute(ctx, CompleteTripInput{TripID: trip.ID, Actor: "dispatcher@fleet"})

		var tripErr *domainerror.TripError
		if !errors.As(err, &tripErr) || tripErr.Code != domainerror.ErrCodeInvalidTransition {
			t.Fatalf("expected invalid transition error, got %v", err)
		}
	})

	t.Run("missing actor is rejected", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewCompleteTripUseCase(repo)

		_, err := uc.Execute(ctx, CompleteTripInput{TripID: trip.ID, Actor: "  "})
		if !errors.Is(err, domainerror.ErrMissingActor) {
			t.Fatalf("expected ErrMissingActor, got %v", err)
		}
	})

	t.Run("unknown trip is not found", func(t *testing.T) {
		repo := newFakeTripRepo()
		uc := NewCompleteTripUseCase(repo)

		_, err := uc.Execute(ctx, CompleteTripInput{TripID: uuid.New(), Actor: "dispatcher@fleet"})

		var tripErr *domainerror.TripError
		if !errors.As(err, &tripErr) || tripErr.Code != domainerror.ErrCodeTripNotFound {
			t.Fatalf("expected trip not found error, got %v", err)
		}
	})
}
