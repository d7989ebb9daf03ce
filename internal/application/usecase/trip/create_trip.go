// Package trip contains trip lifecycle use cases.
package trip

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
)

// CreateTripInput represents the input for trip creation.
type CreateTripInput struct {
	FleetNumber     string
	DriverName      string
	ClientName      string
	ClientType      entity.ClientType
	Route           string
	RouteWaypoints  []string
	StartDate       time.Time
	EndDate         time.Time
	BaseRevenue     decimal.Decimal
	RevenueCurrency string
	DistanceKm      decimal.Decimal
}

// CreateTripOutput represents the output of trip creation.
type CreateTripOutput struct {
	Trip *TripOutput
}

// CreateTripUseCase handles trip creation logic.
type CreateTripUseCase struct {
	tripRepo adapter.TripRepository
}

// NewCreateTripUseCase creates a new CreateTripUseCase instance.
func NewCreateTripUseCase(tripRepo adapter.TripRepository) *CreateTripUseCase {
	return &CreateTripUseCase{tripRepo: tripRepo}
}

// Execute performs the trip creation. New trips always start active.
func (uc *CreateTripUseCase) Execute(ctx context.Context, input CreateTripInput) (*CreateTripOutput, error) {
	if err := validateTripCore(input); err != nil {
		return nil, err
	}

	trip := entity.NewTrip(
		input.FleetNumber,
		input.DriverName,
		input.ClientName,
		input.ClientType,
		input.Route,
		input.RouteWaypoints,
		input.StartDate,
		input.EndDate,
		input.BaseRevenue,
		input.RevenueCurrency,
		input.DistanceKm,
	)

	if err := uc.tripRepo.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	slog.Info("Trip created",
		"tripID", trip.ID,
		"fleetNumber", trip.FleetNumber,
		"clientName", trip.ClientName,
	)

	return &CreateTripOutput{Trip: NewTripOutput(trip)}, nil
}

// validateTripCore applies the creation-time trip invariants.
func validateTripCore(input CreateTripInput) error {
	missing := []string{}
	if strings.TrimSpace(input.FleetNumber) == "" {
		missing = append(missing, "fleetNumber")
	}
	if strings.TrimSpace(input.DriverName) == "" {
		missing = append(missing, "driverName")
	}
	if strings.TrimSpace(input.ClientName) == "" {
		missing = append(missing, "clientName")
	}
	if strings.TrimSpace(input.Route) == "" {
		missing = append(missing, "route")
	}
	if strings.TrimSpace(input.RevenueCurrency) == "" {
		missing = append(missing, "revenueCurrency")
	}
	if len(missing) > 0 {
		return domainerror.NewTripError(
			domainerror.ErrCodeMissingTripFields,
			"required trip fields missing: "+strings.Join(missing, ", "),
			domainerror.ErrMissingTripFields,
		)
	}

	if input.ClientType != entity.ClientTypeInternal && input.ClientType != entity.ClientTypeExternal {
		return domainerror.NewTripError(
			domainerror.ErrCodeInvalidClientType,
			"client type must be 'internal' or 'external'",
			domainerror.ErrInvalidClientType,
		)
	}

	if input.BaseRevenue.IsNegative() {
		return domainerror.NewTripError(
			domainerror.ErrCodeNegativeRevenue,
			"base revenue must not be negative",
			domainerror.ErrNegativeRevenue,
		)
	}

	if input.DistanceKm.IsNegative() {
		return domainerror.NewTripError(
			domainerror.ErrCodeNegativeDistance,
			"distance must not be negative",
			domainerror.ErrNegativeDistance,
		)
	}

	if input.EndDate.Before(input.StartDate) {
		return domainerror.NewTripError(
			domainerror.ErrCodeEndBeforeStart,
			"end date must not precede start date",
			domainerror.ErrEndBeforeStart,
		)
	}

	return nil
}
