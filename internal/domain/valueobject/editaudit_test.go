package valueobject

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
)

func auditTrip() *entity.Trip {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	trip := entity.NewTrip(
		"TRK-007", "L. Banda", "Umzani Mines", entity.ClientTypeInternal,
		"Bulawayo - Hwange", []string{"Gwanda"}, start, start.AddDate(0, 0, 2),
		decimal.NewFromInt(1000), "ZAR", decimal.NewFromInt(440),
	)
	trip.Status = entity.TripStatusCompleted
	return trip
}

func strPtr(s string) *string { return &s }

func TestBuildEditRecords(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

	t.Run("one record per changed field", func(t *testing.T) {
		trip := auditTrip()
		newRevenue := decimal.NewFromInt(1200)
		patch := TripPatch{
			DriverName:  strPtr("T. Ncube"),
			BaseRevenue: &newRevenue,
		}

		records, err := BuildEditRecords(trip, patch, "ops@fleet", "invoice correction", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}

		byField := map[string]entity.EditRecord{}
		for _, r := range records {
			byField[r.FieldChanged] = r
		}

		driver, ok := byField["driverName"]
		if !ok {
			t.Fatal("expected a driverName record")
		}
		if driver.OldValue != "L. Banda" || driver.NewValue != "T. Ncube" {
			t.Errorf("unexpected driver diff %q -> %q", driver.OldValue, driver.NewValue)
		}
		if driver.EditedBy != "ops@fleet" || driver.Reason != "invoice correction" {
			t.Errorf("record missing actor or reason: %+v", driver)
		}
		if driver.ChangeType != entity.ChangeTypeUpdate {
			t.Errorf("expected update change type, got %s", driver.ChangeType)
		}

		revenue, ok := byField["baseRevenue"]
		if !ok {
			t.Fatal("expected a baseRevenue record")
		}
		if revenue.OldValue != "1000" || revenue.NewValue != "1200" {
			t.Errorf("unexpected revenue diff %q -> %q", revenue.OldValue, revenue.NewValue)
		}
	})

	t.Run("empty reason is rejected", func(t *testing.T) {
		trip := auditTrip()
		patch := TripPatch{DriverName: strPtr("T. Ncube")}

		_, err := BuildEditRecords(trip, patch, "ops@fleet", "   ", now)
		if !errors.Is(err, domainerror.ErrEditReasonRequired) {
			t.Fatalf("expected ErrEditReasonRequired, got %v", err)
		}
	})

	t.Run("missing actor is rejected", func(t *testing.T) {
		trip := auditTrip()
		patch := TripPatch{DriverName: strPtr("T. Ncube")}

		_, err := BuildEditRecords(trip, patch, "", "reason", now)
		if !errors.Is(err, domainerror.ErrMissingActor) {
			t.Fatalf("expected ErrMissingActor, got %v", err)
		}
	})

	t.Run("identical patch is rejected as no change", func(t *testing.T) {
		trip := auditTrip()
		patch := TripPatch{
			DriverName: strPtr(trip.DriverName),
			Route:      strPtr(trip.Route),
		}

		_, err := BuildEditRecords(trip, patch, "ops@fleet", "reason", now)
		if !errors.Is(err, domainerror.ErrNoChangesDetected) {
			t.Fatalf("expected ErrNoChangesDetected, got %v", err)
		}
	})

	t.Run("numerically equal revenue with different scale is not a change", func(t *testing.T) {
		trip := auditTrip()
		sameRevenue := decimal.RequireFromString("1000.00")
		patch := TripPatch{BaseRevenue: &sameRevenue}

		_, err := BuildEditRecords(trip, patch, "ops@fleet", "reason", now)
		if !errors.Is(err, domainerror.ErrNoChangesDetected) {
			t.Fatalf("expected ErrNoChangesDetected for 1000 vs 1000.00, got %v", err)
		}
	})

	t.Run("date fields diff on calendar day", func(t *testing.T) {
		trip := auditTrip()
		sameDay := trip.EndDate.Add(5 * time.Hour)
		patch := TripPatch{EndDate: &sameDay}

		_, err := BuildEditRecords(trip, patch, "ops@fleet", "reason", now)
		if !errors.Is(err, domainerror.ErrNoChangesDetected) {
			t.Fatalf("expected same-day end date to be a no-op, got %v", err)
		}
	})
}

func TestCollectionChangeRecord(t *testing.T) {
	trip := auditTrip()
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

	record := CollectionChangeRecord(trip, "additionalCosts", 2, 3, "ops@fleet", "late toll receipt", entity.ChangeTypeCreate, now)

	if record.FieldChanged != "additionalCosts" {
		t.Errorf("expected additionalCosts field, got %s", record.FieldChanged)
	}
	if record.OldValue != "2" || record.NewValue != "3" {
		t.Errorf("expected count diff 2 -> 3, got %q -> %q", record.OldValue, record.NewValue)
	}
	if record.TripID != trip.ID {
		t.Errorf("record not bound to trip")
	}
	if record.ChangeType != entity.ChangeTypeCreate {
		t.Errorf("expected create change type, got %s", record.ChangeType)
	}
}

func TestApplyTripPatch(t *testing.T) {
	trip := auditTrip()
	offload := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	newDistance := decimal.NewFromInt(455)
	patch := TripPatch{
		Route:       strPtr("Bulawayo - Victoria Falls"),
		OffloadDate: &offload,
		DistanceKm:  &newDistance,
	}

	ApplyTripPatch(trip, patch)

	if trip.Route != "Bulawayo - Victoria Falls" {
		t.Errorf("route not applied: %s", trip.Route)
	}
	if trip.OffloadDate == nil || !trip.OffloadDate.Equal(offload) {
		t.Errorf("offload date not applied")
	}
	if !trip.DistanceKm.Equal(newDistance) {
		t.Errorf("distance not applied: %s", trip.DistanceKm)
	}
	if trip.FleetNumber != "TRK-007" {
		t.Errorf("untouched field changed: %s", trip.FleetNumber)
	}
}
