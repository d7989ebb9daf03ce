package dto

import (
	"github.com/fleetops/backend/internal/application/usecase/cost"
	"github.com/fleetops/backend/internal/domain/entity"
)

// AddCostEntryRequest represents the multipart form for adding a cost entry.
// Receipt files ride alongside under the "files" form key.
type AddCostEntryRequest struct {
	Category        string `form:"category" binding:"required,max=64"`
	SubCategory     string `form:"sub_category" binding:"omitempty,max=64"`
	Amount          string `form:"amount" binding:"required"`
	Currency        string `form:"currency" binding:"required,max=8"`
	Date            string `form:"date" binding:"required"`
	ReferenceNumber string `form:"reference_number" binding:"omitempty,max=64"`
	Notes           string `form:"notes" binding:"omitempty,max=1000"`
	IsFlagged       bool   `form:"is_flagged"`
	FlagReason      string `form:"flag_reason" binding:"omitempty,max=500"`
	EditReason      string `form:"edit_reason" binding:"omitempty,max=1000"`
}

// UpdateCostEntryRequest represents the request body for updating a cost entry.
type UpdateCostEntryRequest struct {
	Category        *string `json:"category,omitempty" binding:"omitempty,max=64"`
	SubCategory     *string `json:"sub_category,omitempty" binding:"omitempty,max=64"`
	Amount          *string `json:"amount,omitempty"`
	Currency        *string `json:"currency,omitempty" binding:"omitempty,max=8"`
	Date            *string `json:"date,omitempty"`
	ReferenceNumber *string `json:"reference_number,omitempty" binding:"omitempty,max=64"`
	Notes           *string `json:"notes,omitempty" binding:"omitempty,max=1000"`
	EditReason      string  `json:"edit_reason,omitempty" binding:"omitempty,max=1000"`
}

// MutationReasonRequest carries the justification reason for deletions,
// flag resolutions and system cost generation.
type MutationReasonRequest struct {
	EditReason string `json:"edit_reason,omitempty" binding:"omitempty,max=1000"`
}

// AddAdditionalCostRequest represents the multipart form for appending an
// additional cost.
type AddAdditionalCostRequest struct {
	Category    string `form:"category" binding:"required,max=64"`
	SubCategory string `form:"sub_category" binding:"omitempty,max=64"`
	Amount      string `form:"amount" binding:"required"`
	Currency    string `form:"currency" binding:"required,max=8"`
	Date        string `form:"date" binding:"required"`
	Notes       string `form:"notes" binding:"omitempty,max=1000"`
	EditReason  string `form:"edit_reason" binding:"omitempty,max=1000"`
}

// AddAdditionalCostResponse represents the response for appending an
// additional cost.
type AddAdditionalCostResponse struct {
	ID string `json:"id"`
}

// ResolveFlagResponse represents the response for resolving a cost flag.
type ResolveFlagResponse struct {
	Entry           CostEntryResponse `json:"entry"`
	UnresolvedFlags int               `json:"unresolved_flags"`
}

// GenerateSystemCostsResponse represents the overhead allocator response.
type GenerateSystemCostsResponse struct {
	Entries []CostEntryResponse `json:"entries"`
}

// ToCostEntryResponse converts a cost use case output to its response DTO.
func ToCostEntryResponse(entry *cost.CostEntryOutput) CostEntryResponse {
	return CostEntryResponse{
		ID:                entry.ID.String(),
		Category:          entry.Category,
		SubCategory:       entry.SubCategory,
		Amount:            entry.Amount.String(),
		Currency:          entry.Currency,
		Date:              entry.Date.Format("2006-01-02"),
		ReferenceNumber:   entry.ReferenceNumber,
		Notes:             entry.Notes,
		Attachments:       entityAttachmentsToResponses(entry.Attachments),
		IsFlagged:         entry.IsFlagged,
		FlagReason:        entry.FlagReason,
		FlagResolved:      entry.FlagResolved,
		IsSystemGenerated: entry.IsSystemGenerated,
	}
}

func entityAttachmentsToResponses(attachments []entity.Attachment) []AttachmentResponse {
	if len(attachments) == 0 {
		return nil
	}
	responses := make([]AttachmentResponse, len(attachments))
	for i, a := range attachments {
		responses[i] = AttachmentResponse{
			Filename:    a.Filename,
			URL:         a.URL,
			Size:        a.Size,
			ContentType: a.ContentType,
		}
	}
	return responses
}
