package cost

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
	domainerror "github.com/fleetops/backend/internal/domain/error"
)

// fakeAttachmentStore records stored and removed uploads without touching
// the filesystem.
type fakeAttachmentStore struct {
	stored  []adapter.FileUpload
	removed []entity.Attachment
}

func (s *fakeAttachmentStore) Store(_ context.Context, tripID uuid.UUID, upload adapter.FileUpload) (entity.Attachment, error) {
	s.stored = append(s.stored, upload)
	return entity.Attachment{
		Filename:    upload.Filename,
		URL:         "/uploads/" + tripID.String() + "/" + upload.Filename,
		Size:        upload.Size,
		ContentType: upload.ContentType,
	}, nil
}

func (s *fakeAttachmentStore) Remove(_ context.Context, _ uuid.UUID, attachment entity.Attachment) error {
	s.removed = append(s.removed, attachment)
	return nil
}

func validInput(tripID uuid.UUID) AddCostEntryInput {
	return AddCostEntryInput{
		TripID:      tripID,
		Actor:       "clerk@fleet",
		Category:    "Fuel",
		SubCategory: "Diesel",
		Amount:      decimal.NewFromInt(3800),
		Currency:    "ZAR",
		Date:        time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC),
	}
}

func TestAddCostEntryUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("appends the entry to the trip", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewAddCostEntryUseCase(repo, &fakeAttachmentStore{})

		output, err := uc.Execute(ctx, validInput(trip.ID))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Entry.Category != "Fuel" || !output.Entry.Amount.Equal(decimal.NewFromInt(3800)) {
			t.Errorf("unexpected entry: %+v", output.Entry)
		}

		stored := repo.trips[trip.ID]
		if len(stored.Costs) != 1 {
			t.Fatalf("entry not persisted, got %d costs", len(stored.Costs))
		}
		if len(stored.EditHistory) != 0 {
			t.Errorf("active trip mutation was audited")
		}
	})

	t.Run("stores uploaded receipts as attachments", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		store := &fakeAttachmentStore{}
		uc := NewAddCostEntryUseCase(repo, store)

		input := validInput(trip.ID)
		input.Files = []adapter.FileUpload{
			{Filename: "receipt.pdf", ContentType: "application/pdf", Size: 2048, Reader: strings.NewReader("pdf")},
		}

		output, err := uc.Execute(ctx, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.stored) != 1 {
			t.Fatalf("expected 1 stored upload, got %d", len(store.stored))
		}
		if len(output.Entry.Attachments) != 1 || output.Entry.Attachments[0].Filename != "receipt.pdf" {
			t.Errorf("attachment descriptor missing from the entry: %+v", output.Entry.Attachments)
		}
	})

	t.Run("removes stored uploads when the save fails", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		repo.saveErr = errors.New("store unavailable")
		store := &fakeAttachmentStore{}
		uc := NewAddCostEntryUseCase(repo, store)

		input := validInput(trip.ID)
		input.Files = []adapter.FileUpload{
			{Filename: "receipt.pdf", ContentType: "application/pdf", Size: 2048, Reader: strings.NewReader("pdf")},
		}

		_, err := uc.Execute(ctx, input)
		if err == nil {
			t.Fatal("expected save failure to propagate")
		}
		if len(store.removed) != 1 || store.removed[0].Filename != "receipt.pdf" {
			t.Errorf("expected the stored upload to be removed, got %+v", store.removed)
		}
		if len(repo.trips[trip.ID].Costs) != 0 {
			t.Errorf("failed save must leave the trip unchanged")
		}
	})

	t.Run("flagged entry requires a flag reason", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewAddCostEntryUseCase(repo, &fakeAttachmentStore{})

		input := validInput(trip.ID)
		input.IsFlagged = true

		_, err := uc.Execute(ctx, input)

		var costErr *domainerror.CostError
		if !errors.As(err, &costErr) || costErr.Code != domainerror.ErrCodeMissingFlagReason {
			t.Fatalf("expected missing flag reason rejection, got %v", err)
		}
	})

	t.Run("flagged entry starts unresolved", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewAddCostEntryUseCase(repo, &fakeAttachmentStore{})

		input := validInput(trip.ID)
		input.IsFlagged = true
		input.FlagReason = "amount exceeds route norm"

		output, err := uc.Execute(ctx, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !output.Entry.IsFlagged || output.Entry.FlagResolved {
			t.Errorf("expected open flag, got flagged=%v resolved=%v", output.Entry.IsFlagged, output.Entry.FlagResolved)
		}
		if repo.trips[trip.ID].UnresolvedFlagCount() != 1 {
			t.Errorf("unresolved flag count not reflected on the trip")
		}
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		trip := activeTrip()
		repo := newFakeTripRepo(trip)
		uc := NewAddCostEntryUseCase(repo, &fakeAttachmentStore{})

		input := validInput(trip.ID)
		input.Amount = decimal.Zero

		_, err := uc.Execute(ctx, input)

		var costErr *domainerror.CostError
		if !errors.As(err, &costErr) || costErr.Code != domainerror.ErrCodeInvalidCostAmount {
			t.Fatalf("expected invalid amount rejection, got %v", err)
		}
	})

	t.Run("completed trip addition is audited", func(t *testing.T) {
		trip := activeTrip()
		trip.Status = entity.TripStatusCompleted
		repo := newFakeTripRepo(trip)
		uc := NewAddCostEntryUseCase(repo, &fakeAttachmentStore{})

		input := validInput(trip.ID)
		_, err := uc.Execute(ctx, input)
		if !errors.Is(err, domainerror.ErrEditReasonRequired) {
			t.Fatalf("expected ErrEditReasonRequired, got %v", err)
		}

		input.Reason = "late fuel slip from the driver"
		if _, err := uc.Execute(ctx, input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored := repo.trips[trip.ID]
		if len(stored.EditHistory) != 1 {
			t.Fatalf("expected 1 audit record, got %d", len(stored.EditHistory))
		}
		if stored.EditHistory[0].FieldChanged != "costs" {
			t.Errorf("audit field %q, want costs", stored.EditHistory[0].FieldChanged)
		}
		if stored.EditHistory[0].ChangeType != entity.ChangeTypeCreate {
			t.Errorf("audit change type %q, want create", stored.EditHistory[0].ChangeType)
		}
	})
}
