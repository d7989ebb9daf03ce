// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
	"github.com/fleetops/backend/internal/integration/persistence/model"
)

// tripRepository implements the adapter.TripRepository interface.
type tripRepository struct {
	db *gorm.DB
}

// NewTripRepository creates a new trip repository instance.
func NewTripRepository(db *gorm.DB) adapter.TripRepository {
	return &tripRepository{
		db: db,
	}
}

// Create inserts a new trip document.
func (r *tripRepository) Create(ctx context.Context, trip *entity.Trip) error {
	tripModel, err := model.TripFromEntity(trip)
	if err != nil {
		return domainerror.NewPersistenceError("create trip", err)
	}
	if result := r.db.WithContext(ctx).Create(tripModel); result.Error != nil {
		return domainerror.NewPersistenceError("create trip", result.Error)
	}
	return nil
}

// FindByID retrieves a trip by its ID.
func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	var tripModel model.TripModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&tripModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTripNotFound
		}
		return nil, domainerror.NewPersistenceError("find trip", result.Error)
	}
	trip, err := tripModel.ToEntity()
	if err != nil {
		return nil, domainerror.NewPersistenceError("find trip", err)
	}
	return trip, nil
}

// FindByFilter retrieves trips matching the filter criteria, newest first.
func (r *tripRepository) FindByFilter(ctx context.Context, filter adapter.TripFilter) ([]*entity.Trip, error) {
	query := r.db.WithContext(ctx).Model(&model.TripModel{})

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.ClientName != "" {
		query = query.Where("client_name = ?", filter.ClientName)
	}
	if filter.FleetNumber != "" {
		query = query.Where("fleet_number = ?", filter.FleetNumber)
	}

	var tripModels []model.TripModel
	result := query.Order("start_date DESC, created_at DESC").Find(&tripModels)
	if result.Error != nil {
		return nil, domainerror.NewPersistenceError("list trips", result.Error)
	}

	trips := make([]*entity.Trip, len(tripModels))
	for i, tm := range tripModels {
		trip, err := tm.ToEntity()
		if err != nil {
			return nil, domainerror.NewPersistenceError("list trips", err)
		}
		trips[i] = trip
	}
	return trips, nil
}

// Save writes the full trip document back, replacing the stored row.
func (r *tripRepository) Save(ctx context.Context, trip *entity.Trip) error {
	tripModel, err := model.TripFromEntity(trip)
	if err != nil {
		return domainerror.NewPersistenceError("save trip", err)
	}
	if result := r.db.WithContext(ctx).Save(tripModel); result.Error != nil {
		return domainerror.NewPersistenceError("save trip", result.Error)
	}
	return nil
}

// Delete removes a trip document.
func (r *tripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.TripModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerror.NewPersistenceError("delete trip", result.Error)
	}
	return nil
}
