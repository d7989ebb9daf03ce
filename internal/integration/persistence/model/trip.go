// Package model defines database models for persistence layer.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/entity"
)

// TripModel represents the trips table. Each row is one trip document: the
// owned collections (costs, additional costs, edit history) are serialized
// into JSON columns and written back whole, mirroring the document-per-trip
// store this system replaces.
type TripModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FleetNumber     string          `gorm:"type:varchar(32);not null;index"`
	DriverName      string          `gorm:"type:varchar(128);not null"`
	ClientName      string          `gorm:"type:varchar(128);not null;index"`
	ClientType      string          `gorm:"type:varchar(16);not null"`
	Route           string          `gorm:"type:varchar(255);not null"`
	RouteWaypoints  pq.StringArray  `gorm:"type:text[]"`
	StartDate       time.Time       `gorm:"type:date;not null"`
	EndDate         time.Time       `gorm:"type:date;not null;index"`
	OffloadDate     *time.Time      `gorm:"type:date"`
	BaseRevenue     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	RevenueCurrency string          `gorm:"type:varchar(8);not null"`
	DistanceKm      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	Costs           string          `gorm:"type:text;not null;default:'[]'"`
	AdditionalCosts string          `gorm:"type:text;not null;default:'[]'"`
	EditHistory     string          `gorm:"type:text;not null;default:'[]'"`
	CompletedAt     *time.Time      `gorm:"type:date"`
	CompletedBy     string          `gorm:"type:varchar(128)"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the TripModel.
func (TripModel) TableName() string {
	return "trips"
}

// Document sub-structures. These define the stored JSON shape; renaming a
// field here is a data migration.

type attachmentDocument struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"type"`
}

type costEntryDocument struct {
	ID                uuid.UUID            `json:"id"`
	Category          string               `json:"category"`
	SubCategory       string               `json:"subCategory"`
	Amount            decimal.Decimal      `json:"amount"`
	Currency          string               `json:"currency"`
	Date              time.Time            `json:"date"`
	ReferenceNumber   string               `json:"referenceNumber,omitempty"`
	Notes             string               `json:"notes,omitempty"`
	Attachments       []attachmentDocument `json:"attachments,omitempty"`
	IsFlagged         bool                 `json:"isFlagged"`
	FlagReason        string               `json:"flagReason,omitempty"`
	FlagResolved      bool                 `json:"flagResolved"`
	IsSystemGenerated bool                 `json:"isSystemGenerated"`
	CreatedAt         time.Time            `json:"createdAt"`
}

type additionalCostDocument struct {
	ID          uuid.UUID            `json:"id"`
	Category    string               `json:"category"`
	SubCategory string               `json:"subCategory"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    string               `json:"currency"`
	Date        time.Time            `json:"date"`
	Notes       string               `json:"notes,omitempty"`
	Attachments []attachmentDocument `json:"attachments,omitempty"`
	AddedBy     string               `json:"addedBy"`
	AddedAt     time.Time            `json:"addedAt"`
}

type editRecordDocument struct {
	ID           uuid.UUID `json:"id"`
	TripID       uuid.UUID `json:"tripId"`
	EditedBy     string    `json:"editedBy"`
	EditedAt     time.Time `json:"editedAt"`
	Reason       string    `json:"reason"`
	FieldChanged string    `json:"fieldChanged"`
	OldValue     string    `json:"oldValue"`
	NewValue     string    `json:"newValue"`
	ChangeType   string    `json:"changeType"`
}

// TripFromEntity converts a domain Trip to its database model.
func TripFromEntity(trip *entity.Trip) (*TripModel, error) {
	costs, err := marshalCosts(trip.Costs)
	if err != nil {
		return nil, err
	}
	additionalCosts, err := marshalAdditionalCosts(trip.AdditionalCosts)
	if err != nil {
		return nil, err
	}
	editHistory, err := marshalEditHistory(trip.EditHistory)
	if err != nil {
		return nil, err
	}

	return &TripModel{
		ID:              trip.ID,
		FleetNumber:     trip.FleetNumber,
		DriverName:      trip.DriverName,
		ClientName:      trip.ClientName,
		ClientType:      string(trip.ClientType),
		Route:           trip.Route,
		RouteWaypoints:  pq.StringArray(trip.RouteWaypoints),
		StartDate:       trip.StartDate,
		EndDate:         trip.EndDate,
		OffloadDate:     trip.OffloadDate,
		BaseRevenue:     trip.BaseRevenue,
		RevenueCurrency: trip.RevenueCurrency,
		DistanceKm:      trip.DistanceKm,
		Status:          string(trip.Status),
		Costs:           costs,
		AdditionalCosts: additionalCosts,
		EditHistory:     editHistory,
		CompletedAt:     trip.CompletedAt,
		CompletedBy:     trip.CompletedBy,
		CreatedAt:       trip.CreatedAt,
		UpdatedAt:       trip.UpdatedAt,
	}, nil
}

// ToEntity converts a TripModel to a domain Trip entity.
func (m *TripModel) ToEntity() (*entity.Trip, error) {
	costs, err := unmarshalCosts(m.Costs)
	if err != nil {
		return nil, fmt.Errorf("trip %s: %w", m.ID, err)
	}
	additionalCosts, err := unmarshalAdditionalCosts(m.AdditionalCosts)
	if err != nil {
		return nil, fmt.Errorf("trip %s: %w", m.ID, err)
	}
	editHistory, err := unmarshalEditHistory(m.EditHistory)
	if err != nil {
		return nil, fmt.Errorf("trip %s: %w", m.ID, err)
	}

	return &entity.Trip{
		ID:              m.ID,
		FleetNumber:     m.FleetNumber,
		DriverName:      m.DriverName,
		ClientName:      m.ClientName,
		ClientType:      entity.ClientType(m.ClientType),
		Route:           m.Route,
		RouteWaypoints:  []string(m.RouteWaypoints),
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		OffloadDate:     m.OffloadDate,
		BaseRevenue:     m.BaseRevenue,
		RevenueCurrency: m.RevenueCurrency,
		DistanceKm:      m.DistanceKm,
		Status:          entity.TripStatus(m.Status),
		Costs:           costs,
		AdditionalCosts: additionalCosts,
		EditHistory:     editHistory,
		CompletedAt:     m.CompletedAt,
		CompletedBy:     m.CompletedBy,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

func marshalCosts(costs []entity.CostEntry) (string, error) {
	docs := make([]costEntryDocument, len(costs))
	for i, c := range costs {
		docs[i] = costEntryDocument{
			ID:                c.ID,
			Category:          c.Category,
			SubCategory:       c.SubCategory,
			Amount:            c.Amount,
			Currency:          c.Currency,
			Date:              c.Date,
			ReferenceNumber:   c.ReferenceNumber,
			Notes:             c.Notes,
			Attachments:       attachmentsToDocuments(c.Attachments),
			IsFlagged:         c.IsFlagged,
			FlagReason:        c.FlagReason,
			FlagResolved:      c.FlagResolved,
			IsSystemGenerated: c.IsSystemGenerated,
			CreatedAt:         c.CreatedAt,
		}
	}
	return marshalDocuments(docs, "costs")
}

func unmarshalCosts(raw string) ([]entity.CostEntry, error) {
	var docs []costEntryDocument
	if err := unmarshalDocuments(raw, &docs, "costs"); err != nil {
		return nil, err
	}
	costs := make([]entity.CostEntry, len(docs))
	for i, d := range docs {
		costs[i] = entity.CostEntry{
			ID:                d.ID,
			Category:          d.Category,
			SubCategory:       d.SubCategory,
			Amount:            d.Amount,
			Currency:          d.Currency,
			Date:              d.Date,
			ReferenceNumber:   d.ReferenceNumber,
			Notes:             d.Notes,
			Attachments:       documentsToAttachments(d.Attachments),
			IsFlagged:         d.IsFlagged,
			FlagReason:        d.FlagReason,
			FlagResolved:      d.FlagResolved,
			IsSystemGenerated: d.IsSystemGenerated,
			CreatedAt:         d.CreatedAt,
		}
	}
	return costs, nil
}

func marshalAdditionalCosts(costs []entity.AdditionalCost) (string, error) {
	docs := make([]additionalCostDocument, len(costs))
	for i, c := range costs {
		docs[i] = additionalCostDocument{
			ID:          c.ID,
			Category:    c.Category,
			SubCategory: c.SubCategory,
			Amount:      c.Amount,
			Currency:    c.Currency,
			Date:        c.Date,
			Notes:       c.Notes,
			Attachments: attachmentsToDocuments(c.Attachments),
			AddedBy:     c.AddedBy,
			AddedAt:     c.AddedAt,
		}
	}
	return marshalDocuments(docs, "additionalCosts")
}

func unmarshalAdditionalCosts(raw string) ([]entity.AdditionalCost, error) {
	var docs []additionalCostDocument
	if err := unmarshalDocuments(raw, &docs, "additionalCosts"); err != nil {
		return nil, err
	}
	costs := make([]entity.AdditionalCost, len(docs))
	for i, d := range docs {
		costs[i] = entity.AdditionalCost{
			ID:          d.ID,
			Category:    d.Category,
			SubCategory: d.SubCategory,
			Amount:      d.Amount,
			Currency:    d.Currency,
			Date:        d.Date,
			Notes:       d.Notes,
			Attachments: documentsToAttachments(d.Attachments),
			AddedBy:     d.AddedBy,
			AddedAt:     d.AddedAt,
		}
	}
	return costs, nil
}

func marshalEditHistory(records []entity.EditRecord) (string, error) {
	docs := make([]editRecordDocument, len(records))
	for i, r := range records {
		docs[i] = editRecordDocument{
			ID:           r.ID,
			TripID:       r.TripID,
			EditedBy:     r.EditedBy,
			EditedAt:     r.EditedAt,
			Reason:       r.Reason,
			FieldChanged: r.FieldChanged,
			OldValue:     r.OldValue,
			NewValue:     r.NewValue,
			ChangeType:   string(r.ChangeType),
		}
	}
	return marshalDocuments(docs, "editHistory")
}

func unmarshalEditHistory(raw string) ([]entity.EditRecord, error) {
	var docs []editRecordDocument
	if err := unmarshalDocuments(raw, &docs, "editHistory"); err != nil {
		return nil, err
	}
	records := make([]entity.EditRecord, len(docs))
	for i, d := range docs {
		records[i] = entity.EditRecord{
			ID:           d.ID,
			TripID:       d.TripID,
			EditedBy:     d.EditedBy,
			EditedAt:     d.EditedAt,
			Reason:       d.Reason,
			FieldChanged: d.FieldChanged,
			OldValue:     d.OldValue,
			NewValue:     d.NewValue,
			ChangeType:   entity.ChangeType(d.ChangeType),
		}
	}
	return records, nil
}

func attachmentsToDocuments(attachments []entity.Attachment) []attachmentDocument {
	if len(attachments) == 0 {
		return nil
	}
	docs := make([]attachmentDocument, len(attachments))
	for i, a := range attachments {
		docs[i] = attachmentDocument{
			Filename:    a.Filename,
			URL:         a.URL,
			Size:        a.Size,
			ContentType: a.ContentType,
		}
	}
	return docs
}

func documentsToAttachments(docs []attachmentDocument) []entity.Attachment {
	if len(docs) == 0 {
		return nil
	}
	attachments := make([]entity.Attachment, len(docs))
	for i, d := range docs {
		attachments[i] = entity.Attachment{
			Filename:    d.Filename,
			URL:         d.URL,
			Size:        d.Size,
			ContentType: d.ContentType,
		}
	}
	return attachments
}

func marshalDocuments(docs any, column string) (string, error) {
	raw, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s column: %w", column, err)
	}
	return string(raw), nil
}

func unmarshalDocuments(raw string, dest any, column string) error {
	if raw == "" {
		raw = "[]"
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s column: %w", column, err)
	}
	return nil
}
