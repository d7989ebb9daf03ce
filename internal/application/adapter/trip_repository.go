// Package adapter defines the interfaces the application layer depends on.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/domain/entity"
)

// TripFilter holds filter criteria for listing trips.
type TripFilter struct {
	Statuses    []entity.TripStatus
	ClientName  string
	FleetNumber string
}

// TripRepository provides access to the trip document collection. Each trip
// is one document keyed by its ID; Save writes the full aggregate back
// (last-write-wins, no version check — the store is the source of truth).
type TripRepository interface {
	// Create persists a new trip document.
	Create(ctx context.Context, trip *entity.Trip) error

	// FindByID retrieves a trip by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error)

	// FindByFilter retrieves trips matching the filter, newest first.
	FindByFilter(ctx context.Context, filter TripFilter) ([]*entity.Trip, error)

	// Save writes the full trip document, including costs, additional costs
	// and edit history.
	Save(ctx context.Context, trip *entity.Trip) error

	// Delete removes a trip document by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
