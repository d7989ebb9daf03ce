package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType classifies an audited mutation.
type ChangeType string

const (
	ChangeTypeUpdate ChangeType = "update"
	ChangeTypeDelete ChangeType = "delete"
	ChangeTypeCreate ChangeType = "create"
)

// EditRecord is an immutable, append-only log entry describing one
// field-level change to a trip that was no longer active. One record is
// produced per changed field per save operation.
type EditRecord struct {
	ID           uuid.UUID
	TripID       uuid.UUID
	EditedBy     string
	EditedAt     time.Time
	Reason       string
	FieldChanged string
	OldValue     string
	NewValue     string
	ChangeType   ChangeType
}

// NewEditRecord creates an edit record for a single field change.
func NewEditRecord(
	tripID uuid.UUID,
	editedBy string,
	editedAt time.Time,
	reason string,
	fieldChanged string,
	oldValue string,
	newValue string,
	changeType ChangeType,
) EditRecord {
	return EditRecord{
		ID:           uuid.New(),
		TripID:       tripID,
		EditedBy:     editedBy,
		EditedAt:     editedAt,
		Reason:       reason,
		FieldChanged: fieldChanged,
		OldValue:     oldValue,
		NewValue:     newValue,
		ChangeType:   changeType,
	}
}
