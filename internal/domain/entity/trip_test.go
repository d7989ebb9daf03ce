package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestIsValidStatus(t *testing.T) {
	t.Run("accepts every lifecycle status", func(t *testing.T) {
		for _, status := range []TripStatus{TripStatusActive, TripStatusCompleted, TripStatusInvoiced} {
			if !IsValidStatus(status) {
				t.Errorf("IsValidStatus(%q) = false, want true", status)
			}
		}
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		for _, raw := range []string{"", "archived", "Active", "COMPLETED"} {
			if IsValidStatus(TripStatus(raw)) {
				t.Errorf("IsValidStatus(%q) = true, want false", raw)
			}
		}
	})
}

func TestTripReportDate(t *testing.T) {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)
	trip := NewTrip(
		"TRK-030", "P. Dube", "Kafue Mills", ClientTypeExternal,
		"Ndola - Kafue", nil, start, end,
		decimal.NewFromInt(15000), "ZAR", decimal.NewFromInt(320),
	)

	t.Run("falls back to the end date", func(t *testing.T) {
		if got := trip.ReportDate(); !got.Equal(end) {
			t.Errorf("ReportDate() = %v, want %v", got, end)
		}
	})

	t.Run("prefers the offload date when set", func(t *testing.T) {
		offload := end.AddDate(0, 0, 2)
		trip.OffloadDate = &offload
		if got := trip.ReportDate(); !got.Equal(offload) {
			t.Errorf("ReportDate() = %v, want %v", got, offload)
		}
	})
}
