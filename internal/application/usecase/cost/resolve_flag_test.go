package cost

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
)

func flaggedCostEntry() *entity.CostEntry {
	entry := entity.NewCostEntry(
		"Fuel", "Diesel",
		decimal.NewFromInt(5200), "ZAR",
		time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC),
		"INV-4418", "",
	)
	entry.IsFlagged = true
	entry.FlagReason = "amount exceeds route norm"
	return entry
}

func TestResolveCostFlagUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves an open flag on an active trip", func(t *testing.T) {
		trip := activeTrip()
		entry := flaggedCostEntry()
		trip.Costs = append(trip.Costs, *entry)
		repo := newFakeTripRepo(trip)
		uc := NewResolveCostFlagUseCase(repo)

		output, err := uc.Execute(ctx, ResolveCostFlagInput{
			TripID: trip.ID,
			CostID: entry.ID,
			Actor:  "clerk@fleet",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Entry.FlagResolved {
			t.Error("entry flag not resolved in the output")
		}
		if output.UnresolvedFlagCount != 0 {
			t.Errorf("unresolved count = %d, want 0", output.UnresolvedFlagCount)
		}

		stored := repo.trips[trip.ID]
		if stored.UnresolvedFlagCount() != 0 {
			t.Error("resolution not persisted")
		}
		if len(stored.EditHistory) != 0 {
			t.Error("active trip resolution was audited")
		}
	})

	t.Run("resolved flag cannot be resolved again", func(t *testing.T) {
		trip := activeTrip()
		entry := flaggedCostEntry()
		entry.FlagResolved = true
		trip.Costs = append(trip.Costs, *entry)
		repo := newFakeTripRepo(trip)
		uc := NewResolveCostFlagUseCase(repo)

		_, err := uc.Execute(ctx, ResolveCostFlagInput{
			TripID: trip.ID,
			CostID: entry.ID,
			Actor:  "clerk@fleet",
		})

		var costErr *domainerror.CostError
		if !errors.As(err, &costErr) || costErr.Code != domainerror.ErrCodeFlagAlreadyResolved {
			t.Fatalf("expected flag already resolved rejection, got %v", err)
		}
	})

	t.Run("completed trip resolution requires a reason", func(t *testing.T) {
		trip := activeTrip()
		trip.Status = entity.TripStatusCompleted
		entry := flaggedCostEntry()
		trip.Costs = append(trip.Costs, *entry)
		repo := newFakeTripRepo(trip)
		uc := NewResolveCostFlagUseCase(repo)

		_, err := uc.Execute(ctx, ResolveCostFlagInput{
			TripID: trip.ID,
			CostID: entry.ID,
			Actor:  "auditor@fleet",
		})
		if !errors.Is(err, domainerror.ErrEditReasonRequired) {
			t.Fatalf("expected ErrEditReasonRequired, got %v", err)
		}
		if repo.trips[trip.ID].UnresolvedFlagCount() != 1 {
			t.Error("rejected resolution must leave the flag open")
		}
	})

	t.Run("completed trip resolution records the flag change", func(t *testing.T) {
		trip := activeTrip()
		trip.Status = entity.TripStatusCompleted
		entry := flaggedCostEntry()
		trip.Costs = append(trip.Costs, *entry)
		repo := newFakeTripRepo(trip)
		uc := NewResolveCostFlagUseCase(repo)

		_, err := uc.Execute(ctx, ResolveCostFlagInput{
			TripID: trip.ID,
			CostID: entry.ID,
			Actor:  "auditor@fleet",
			Reason: "receipt verified against supplier statement",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored := repo.trips[trip.ID]
		if len(stored.EditHistory) != 1 {
			t.Fatalf("expected 1 audit record, got %d", len(stored.EditHistory))
		}
		record := stored.EditHistory[0]
		if record.FieldChanged != "flagResolved" {
			t.Errorf("audit field %q, want flagResolved", record.FieldChanged)
		}
		if record.OldValue != "false" || record.NewValue != "true" {
			t.Errorf("audit values %q -> %q, want false -> true", record.OldValue, record.NewValue)
		}
		if record.EditedBy != "auditor@fleet" {
			t.Errorf("audit actor %q, want auditor@fleet", record.EditedBy)
		}
	})
}
