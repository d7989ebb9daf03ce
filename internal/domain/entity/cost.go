package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Attachment describes a stored file linked to a cost entry. The attachment
// store returns the descriptor; file contents are never interpreted here.
type Attachment struct {
	Filename    string
	URL         string
	Size        int64
	ContentType string
}

// CostEntry is a single categorized expense line owned exclusively by a Trip.
type CostEntry struct {
	ID                uuid.UUID
	Category          string
	SubCategory       string
	Amount            decimal.Decimal
	Currency          string
	Date              time.Time
	ReferenceNumber   string
	Notes             string
	Attachments       []Attachment
	IsFlagged         bool
	FlagReason        string
	FlagResolved      bool
	IsSystemGenerated bool
	CreatedAt         time.Time
}

// NewCostEntry creates a new cost entry.
func NewCostEntry(
	category string,
	subCategory string,
	amount decimal.Decimal,
	currency string,
	date time.Time,
	referenceNumber string,
	notes string,
) *CostEntry {
	return &CostEntry{
		ID:              uuid.New(),
		Category:        category,
		SubCategory:     subCategory,
		Amount:          amount,
		Currency:        currency,
		Date:            date,
		ReferenceNumber: referenceNumber,
		Notes:           notes,
		CreatedAt:       time.Now().UTC(),
	}
}

// AdditionalCost is an ad hoc cost appended after trip creation (detention,
// tolls, fines). It lives in its own collection because it may be added or
// removed after trip completion, subject to the edit-justification workflow.
type AdditionalCost struct {
	ID          uuid.UUID
	Category    string
	SubCategory string
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
	Notes       string
	Attachments []Attachment
	AddedBy     string
	AddedAt     time.Time
}

// NewAdditionalCost creates a new additional cost entry.
func NewAdditionalCost(
	category string,
	subCategory string,
	amount decimal.Decimal,
	currency string,
	date time.Time,
	notes string,
	addedBy string,
) *AdditionalCost {
	return &AdditionalCost{
		ID:          uuid.New(),
		Category:    category,
		SubCategory: subCategory,
		Amount:      amount,
		Currency:    currency,
		Date:        date,
		Notes:       notes,
		AddedBy:     addedBy,
		AddedAt:     time.Now().UTC(),
	}
}
