package valueobject

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
)

// TripPatch is an explicit, exhaustively enumerated set of editable trip
// fields. Nil pointers mean "not touched". Enumerating the fields here (rather
// than a string-keyed map) gives compile-time coverage of the diffing rules.
type TripPatch struct {
	FleetNumber     *string
	DriverName      *string
	ClientName      *string
	ClientType      *entity.ClientType
	Route           *string
	RouteWaypoints  *[]string
	StartDate       *time.Time
	EndDate         *time.Time
	OffloadDate     *time.Time
	BaseRevenue     *decimal.Decimal
	RevenueCurrency *string
	DistanceKm      *decimal.Decimal
}

// IsEmpty reports whether the patch touches no fields.
func (p TripPatch) IsEmpty() bool {
	return p.FleetNumber == nil && p.DriverName == nil && p.ClientName == nil &&
		p.ClientType == nil && p.Route == nil && p.RouteWaypoints == nil &&
		p.StartDate == nil && p.EndDate == nil && p.OffloadDate == nil &&
		p.BaseRevenue == nil && p.RevenueCurrency == nil && p.DistanceKm == nil
}

type fieldChange struct {
	field    string
	oldValue string
	newValue string
}

// ValidateEditReason rejects empty or whitespace-only justification reasons.
func ValidateEditReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domainerror.NewEditError(
			domainerror.ErrCodeEditReasonRequired,
			"editReason required",
			domainerror.ErrEditReasonRequired,
		)
	}
	return nil
}

// BuildEditRecords diffs a patch against the current trip state and produces
// one EditRecord per changed field. Comparison is string-normalized on both
// sides, so a numeric 1000 and the string "1000" never register as a change.
// A patch with zero observable changes is rejected outright: a no-op edit
// must never reach persistence.
func BuildEditRecords(
	trip *entity.Trip,
	patch TripPatch,
	editedBy string,
	reason string,
	now time.Time,
) ([]entity.EditRecord, error) {
	if strings.TrimSpace(editedBy) == "" {
		return nil, domainerror.NewEditError(
			domainerror.ErrCodeMissingActor,
			"acting user identity required",
			domainerror.ErrMissingActor,
		)
	}
	if err := ValidateEditReason(reason); err != nil {
		return nil, err
	}

	changes := diffTrip(trip, patch)
	if len(changes) == 0 {
		return nil, domainerror.NewEditError(
			domainerror.ErrCodeNoChangesDetected,
			"no changes detected",
			domainerror.ErrNoChangesDetected,
		)
	}

	records := make([]entity.EditRecord, 0, len(changes))
	for _, change := range changes {
		records = append(records, entity.NewEditRecord(
			trip.ID,
			editedBy,
			now,
			reason,
			change.field,
			change.oldValue,
			change.newValue,
			entity.ChangeTypeUpdate,
		))
	}
	return records, nil
}

// ApplyTripPatch copies every set patch field onto the trip.
func ApplyTripPatch(trip *entity.Trip, patch TripPatch) {
	if patch.FleetNumber != nil {
		trip.FleetNumber = *patch.FleetNumber
	}
	if patch.DriverName != nil {
		trip.DriverName = *patch.DriverName
	}
	if patch.ClientName != nil {
		trip.ClientName = *patch.ClientName
	}
	if patch.ClientType != nil {
		trip.ClientType = *patch.ClientType
	}
	if patch.Route != nil {
		trip.Route = *patch.Route
	}
	if patch.RouteWaypoints != nil {
		trip.RouteWaypoints = *patch.RouteWaypoints
	}
	if patch.StartDate != nil {
		trip.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		trip.EndDate = *patch.EndDate
	}
	if patch.OffloadDate != nil {
		trip.OffloadDate = patch.OffloadDate
	}
	if patch.BaseRevenue != nil {
		trip.BaseRevenue = *patch.BaseRevenue
	}
	if patch.RevenueCurrency != nil {
		trip.RevenueCurrency = *patch.RevenueCurrency
	}
	if patch.DistanceKm != nil {
		trip.DistanceKm = *patch.DistanceKm
	}
}

// CollectionChangeRecord builds the synthetic audit record for a change to
// one of the trip's cost collections ("costs" or "additionalCosts"). Old and
// new values are the before/after element counts, not a content diff.
func CollectionChangeRecord(
	trip *entity.Trip,
	field string,
	beforeCount int,
	afterCount int,
	editedBy string,
	reason string,
	changeType entity.ChangeType,
	now time.Time,
) entity.EditRecord {
	return entity.NewEditRecord(
		trip.ID,
		editedBy,
		now,
		reason,
		field,
		strconv.Itoa(beforeCount),
		strconv.Itoa(afterCount),
		changeType,
	)
}

func diffTrip(trip *entity.Trip, patch TripPatch) []fieldChange {
	changes := make([]fieldChange, 0, 4)

	appendIfChanged := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, fieldChange{field: field, oldValue: oldValue, newValue: newValue})
		}
	}

	if patch.FleetNumber != nil {
		appendIfChanged("fleetNumber", trip.FleetNumber, *patch.FleetNumber)
	}
	if patch.DriverName != nil {
		appendIfChanged("driverName", trip.DriverName, *patch.DriverName)
	}
	if patch.ClientName != nil {
		appendIfChanged("clientName", trip.ClientName, *patch.ClientName)
	}
	if patch.ClientType != nil {
		appendIfChanged("clientType", string(trip.ClientType), string(*patch.ClientType))
	}
	if patch.Route != nil {
		appendIfChanged("route", trip.Route, *patch.Route)
	}
	if patch.RouteWaypoints != nil {
		appendIfChanged("routeWaypoints", normalizeWaypoints(trip.RouteWaypoints), normalizeWaypoints(*patch.RouteWaypoints))
	}
	if patch.StartDate != nil {
		appendIfChanged("startDate", normalizeDate(trip.StartDate), normalizeDate(*patch.StartDate))
	}
	if patch.EndDate != nil {
		appendIfChanged("endDate", normalizeDate(trip.EndDate), normalizeDate(*patch.EndDate))
	}
	if patch.OffloadDate != nil {
		oldValue := ""
		if trip.OffloadDate != nil {
			oldValue = normalizeDate(*trip.OffloadDate)
		}
		appendIfChanged("offloadDate", oldValue, normalizeDate(*patch.OffloadDate))
	}
	if patch.BaseRevenue != nil {
		// decimal String() trims trailing zeros, so "1000.00" and 1000 agree.
		appendIfChanged("baseRevenue", trip.BaseRevenue.String(), patch.BaseRevenue.String())
	}
	if patch.RevenueCurrency != nil {
		appendIfChanged("revenueCurrency", trip.RevenueCurrency, *patch.RevenueCurrency)
	}
	if patch.DistanceKm != nil {
		appendIfChanged("distanceKm", trip.DistanceKm.String(), patch.DistanceKm.String())
	}

	return changes
}

func normalizeDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func normalizeWaypoints(waypoints []string) string {
	return strings.Join(waypoints, ",")
}
