// Package cost contains cost entry and additional cost use cases.
package cost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
	"github.com/fleetops/backend/internal/domain/valueobject"
)

// AddCostEntryInput represents the input for adding a cost entry to a trip.
// Reason is required only when the trip is no longer active.
type AddCostEntryInput struct {
	TripID          uuid.UUID
	Actor           string
	Reason          string
	Category        string
	SubCategory     string
	Amount          decimal.Decimal
	Currency        string
	Date            time.Time
	ReferenceNumber string
	Notes           string
	IsFlagged       bool
	FlagReason      string
	Files           []adapter.FileUpload
}

// AddCostEntryOutput represents the output of adding a cost entry.
type AddCostEntryOutput struct {
	Entry *CostEntryOutput
}

// AddCostEntryUseCase handles appending a cost entry to a trip.
type AddCostEntryUseCase struct {
	tripRepo        adapter.TripRepository
	attachmentStore adapter.AttachmentStore
}

// NewAddCostEntryUseCase creates a new AddCostEntryUseCase instance.
func NewAddCostEntryUseCase(
	tripRepo adapter.TripRepository,
	attachmentStore adapter.AttachmentStore,
) *AddCostEntryUseCase {
	return &AddCostEntryUseCase{
		tripRepo:        tripRepo,
		attachmentStore: attachmentStore,
	}
}

// Execute validates and appends the cost entry. Validation runs before
// attachments are stored or any write is attempted.
func (uc *AddCostEntryUseCase) Execute(ctx context.Context, input AddCostEntryInput) (*AddCostEntryOutput, error) {
	if err := validateCostFields(input.Category, input.Amount, input.Currency); err != nil {
		return nil, err
	}
	if input.IsFlagged && strings.TrimSpace(input.FlagReason) == "" {
		return nil, domainerror.NewCostError(
			domainerror.ErrCodeMissingFlagReason,
			"flag reason is required for flagged entries",
			domainerror.ErrMissingFlagReason,
		)
	}

	trip, err := loadMutableTrip(ctx, uc.tripRepo, input.TripID)
	if err != nil {
		return nil, err
	}

	before := len(trip.Costs)
	record, err := collectionAudit(trip, "costs", before, before+1, input.Actor, input.Reason, entity.ChangeTypeCreate)
	if err != nil {
		return nil, err
	}

	entry := entity.NewCostEntry(
		input.Category,
		input.SubCategory,
		input.Amount,
		input.Currency,
		input.Date,
		input.ReferenceNumber,
		input.Notes,
	)
	entry.IsFlagged = input.IsFlagged
	entry.FlagReason = input.FlagReason

	attachments, err := storeUploads(ctx, uc.attachmentStore, trip.ID, input.Files)
	if err != nil {
		return nil, err
	}
	entry.Attachments = attachments

	trip.Costs = append(trip.Costs, *entry)
	if record != nil {
		trip.AppendEditRecords([]entity.EditRecord{*record})
	}
	trip.UpdatedAt = time.Now().UTC()

	if err := uc.tripRepo.Save(ctx, trip); err != nil {
		removeUploads(ctx, uc.attachmentStore, trip.ID, attachments)
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}

	slog.Info("Cost entry added",
		"tripID", trip.ID,
		"costID", entry.ID,
		"category", entry.Category,
		"flagged", entry.IsFlagged,
	)

	return &AddCostEntryOutput{Entry: newCostEntryOutput(entry)}, nil
}

// CostEntryOutput represents a cost entry in cost use case outputs.
type CostEntryOutput struct {
	ID                uuid.UUID
	Category          string
	SubCategory       string
	Amount            decimal.Decimal
	Currency          string
	Date              time.Time
	ReferenceNumber   string
	Notes             string
	Attachments       []entity.Attachment
	IsFlagged         bool
	FlagReason        string
	FlagResolved      bool
	IsSystemGenerated bool
}

func newCostEntryOutput(entry *entity.CostEntry) *CostEntryOutput {
	return &CostEntryOutput{
		ID:                entry.ID,
		Category:          entry.Category,
		SubCategory:       entry.SubCategory,
		Amount:            entry.Amount,
		Currency:          entry.Currency,
		Date:              entry.Date,
		ReferenceNumber:   entry.ReferenceNumber,
		Notes:             entry.Notes,
		Attachments:       entry.Attachments,
		IsFlagged:         entry.IsFlagged,
		FlagReason:        entry.FlagReason,
		FlagResolved:      entry.FlagResolved,
		IsSystemGenerated: entry.IsSystemGenerated,
	}
}

// validateCostFields applies the shared cost entry invariants.
func validateCostFields(category string, amount decimal.Decimal, currency string) error {
	if strings.TrimSpace(category) == "" {
		return domainerror.NewCostError(
			domainerror.ErrCodeMissingCostCategory,
			"cost category is required",
			domainerror.ErrMissingCostCategory,
		)
	}
	if !amount.IsPositive() {
		return domainerror.NewCostError(
			domainerror.ErrCodeInvalidCostAmount,
			"cost amount must be greater than zero",
			domainerror.ErrInvalidCostAmount,
		)
	}
	if strings.TrimSpace(currency) == "" {
		return domainerror.NewCostError(
			domainerror.ErrCodeMissingCostCurrency,
			"cost currency is required",
			domainerror.ErrMissingCostCurrency,
		)
	}
	return nil
}

// loadMutableTrip fetches a trip and rejects mutations of invoiced trips.
func loadMutableTrip(ctx context.Context, repo adapter.TripRepository, id uuid.UUID) (*entity.Trip, error) {
	trip, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrTripNotFound) {
			return nil, domainerror.NewTripError(
				domainerror.ErrCodeTripNotFound,
				"trip not found",
				domainerror.ErrTripNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find trip: %w", err)
	}

	if trip.Status == entity.TripStatusInvoiced {
		return nil, domainerror.NewTripError(
			domainerror.ErrCodeTripInvoiced,
			"invoiced trips can no longer be edited",
			domainerror.ErrTripInvoiced,
		)
	}

	return trip, nil
}

// collectionAudit returns the synthetic audit record required for cost
// collection changes on a non-active trip, or nil when the trip is active.
// The caller appends the record only after the mutation succeeds.
func collectionAudit(
	trip *entity.Trip,
	field string,
	beforeCount int,
	afterCount int,
	actor string,
	reason string,
	changeType entity.ChangeType,
) (*entity.EditRecord, error) {
	if trip.Status == entity.TripStatusActive {
		return nil, nil
	}

	if strings.TrimSpace(actor) == "" {
		return nil, domainerror.NewEditError(
			domainerror.ErrCodeMissingActor,
			"acting user identity required",
			domainerror.ErrMissingActor,
		)
	}
	if err := valueobject.ValidateEditReason(reason); err != nil {
		return nil, err
	}

	record := valueobject.CollectionChangeRecord(
		trip, field, beforeCount, afterCount, actor, reason, changeType, time.Now().UTC(),
	)
	return &record, nil
}

// storeUploads stores all uploaded files and collects their descriptors.
func storeUploads(
	ctx context.Context,
	store adapter.AttachmentStore,
	tripID uuid.UUID,
	files []adapter.FileUpload,
) ([]entity.Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}

	attachments := make([]entity.Attachment, 0, len(files))
	for _, file := range files {
		attachment, err := store.Store(ctx, tripID, file)
		if err != nil {
			removeUploads(ctx, store, tripID, attachments)
			return nil, fmt.Errorf("failed to store attachment %q: %w", file.Filename, err)
		}
		attachments = append(attachments, attachment)
	}
	return attachments, nil
}

// removeUploads deletes stored attachments after a failed trip write so the
// store holds no files the trip document never referenced. Best effort:
// removal failures are logged, the original error still propagates.
func removeUploads(
	ctx context.Context,
	store adapter.AttachmentStore,
	tripID uuid.UUID,
	attachments []entity.Attachment,
) {
	for _, attachment := range attachments {
		if err := store.Remove(ctx, tripID, attachment); err != nil {
			slog.Warn("Failed to remove orphaned attachment",
				"tripID", tripID,
				"filename", attachment.Filename,
				"error", err,
			)
		}
	}
}
