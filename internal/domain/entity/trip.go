// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripStatus represents the lifecycle state of a trip.
// Transitions are forward-only: active -> completed -> invoiced.
type TripStatus string

const (
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusInvoiced  TripStatus = "invoiced"
)

// ClientType distinguishes internal fleet work from external client work.
type ClientType string

const (
	ClientTypeInternal ClientType = "internal"
	ClientTypeExternal ClientType = "external"
)

// Trip is the aggregate root for a transport job. It owns its cost entries,
// additional costs and edit history; all of them are persisted as one
// document keyed by the trip ID.
type Trip struct {
	ID              uuid.UUID
	FleetNumber     string
	DriverName      string
	ClientName      string
	ClientType      ClientType
	Route           string
	RouteWaypoints  []string
	StartDate       time.Time
	EndDate         time.Time
	OffloadDate     *time.Time // delivery timestamp; weekly reports fall back to EndDate
	BaseRevenue     decimal.Decimal
	RevenueCurrency string
	DistanceKm      decimal.Decimal
	Status          TripStatus
	Costs           []CostEntry
	AdditionalCosts []AdditionalCost
	EditHistory     []EditRecord
	CompletedAt     *time.Time // date-only, stamped by the completion gate
	CompletedBy     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewTrip creates a new active Trip entity.
func NewTrip(
	fleetNumber string,
	driverName string,
	clientName string,
	clientType ClientType,
	route string,
	routeWaypoints []string,
	startDate time.Time,
	endDate time.Time,
	baseRevenue decimal.Decimal,
	revenueCurrency string,
	distanceKm decimal.Decimal,
) *Trip {
	now := time.Now().UTC()

	return &Trip{
		ID:              uuid.New(),
		FleetNumber:     fleetNumber,
		DriverName:      driverName,
		ClientName:      clientName,
		ClientType:      clientType,
		Route:           route,
		RouteWaypoints:  routeWaypoints,
		StartDate:       startDate,
		EndDate:         endDate,
		BaseRevenue:     baseRevenue,
		RevenueCurrency: revenueCurrency,
		DistanceKm:      distanceKm,
		Status:          TripStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// UnresolvedFlagCount returns the number of cost entries that are flagged
// and not yet resolved. A trip cannot complete while this is non-zero.
func (t *Trip) UnresolvedFlagCount() int {
	count := 0
	for _, c := range t.Costs {
		if c.IsFlagged && !c.FlagResolved {
			count++
		}
	}
	return count
}

// HasSystemGeneratedCosts reports whether the overhead allocator has already
// run for this trip.
func (t *Trip) HasSystemGeneratedCosts() bool {
	for _, c := range t.Costs {
		if c.IsSystemGenerated {
			return true
		}
	}
	return false
}

// FindCostEntry returns a pointer to the cost entry with the given ID, or nil.
func (t *Trip) FindCostEntry(id uuid.UUID) *CostEntry {
	for i := range t.Costs {
		if t.Costs[i].ID == id {
			return &t.Costs[i]
		}
	}
	return nil
}

// RemoveCostEntry removes the cost entry with the given ID, preserving order.
// It reports whether an entry was removed.
func (t *Trip) RemoveCostEntry(id uuid.UUID) bool {
	for i := range t.Costs {
		if t.Costs[i].ID == id {
			t.Costs = append(t.Costs[:i], t.Costs[i+1:]...)
			return true
		}
	}
	return false
}

// FindAdditionalCost returns a pointer to the additional cost with the given
// ID, or nil.
func (t *Trip) FindAdditionalCost(id uuid.UUID) *AdditionalCost {
	for i := range t.AdditionalCosts {
		if t.AdditionalCosts[i].ID == id {
			return &t.AdditionalCosts[i]
		}
	}
	return nil
}

// RemoveAdditionalCost removes the additional cost with the given ID,
// preserving order. It reports whether an entry was removed.
func (t *Trip) RemoveAdditionalCost(id uuid.UUID) bool {
	for i := range t.AdditionalCosts {
		if t.AdditionalCosts[i].ID == id {
			t.AdditionalCosts = append(t.AdditionalCosts[:i], t.AdditionalCosts[i+1:]...)
			return true
		}
	}
	return false
}

// AppendEditRecords appends audit records to the trip's edit history.
// Existing records are never replaced or reordered.
func (t *Trip) AppendEditRecords(records []EditRecord) {
	t.EditHistory = append(t.EditHistory, records...)
}

// ReportDate returns the date used for weekly report bucketing: the offload
// (delivery) date when present, otherwise the trip's end date.
func (t *Trip) ReportDate() time.Time {
	if t.OffloadDate != nil {
		return *t.OffloadDate
	}
	return t.EndDate
}

// IsValidStatus reports whether the given trip status is known.
func IsValidStatus(s TripStatus) bool {
	switch s {
	case TripStatusActive, TripStatusCompleted, TripStatusInvoiced:
		return true
	}
	return false
}
