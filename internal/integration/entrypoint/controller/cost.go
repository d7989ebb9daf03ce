package controller

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/application/usecase/cost"
	"github.com/fleetops/backend/internal/integration/entrypoint/dto"
	"github.com/fleetops/backend/internal/integration/entrypoint/middleware"
)

// CostController handles cost entry and additional cost endpoints.
type CostController struct {
	addUseCase              *cost.AddCostEntryUseCase
	updateUseCase           *cost.UpdateCostEntryUseCase
	deleteUseCase           *cost.DeleteCostEntryUseCase
	resolveFlagUseCase      *cost.ResolveCostFlagUseCase
	addAdditionalUseCase    *cost.AddAdditionalCostUseCase
	removeAdditionalUseCase *cost.RemoveAdditionalCostUseCase
	generateSystemUseCase   *cost.GenerateSystemCostsUseCase
	maxFileSize             int64
}

// NewCostController creates a new cost controller instance.
func NewCostController(
	addUseCase *cost.AddCostEntryUseCase,
	updateUseCase *cost.UpdateCostEntryUseCase,
	deleteUseCase *cost.DeleteCostEntryUseCase,
	resolveFlagUseCase *cost.ResolveCostFlagUseCase,
	addAdditionalUseCase *cost.AddAdditionalCostUseCase,
	removeAdditionalUseCase *cost.RemoveAdditionalCostUseCase,
	generateSystemUseCase *cost.GenerateSystemCostsUseCase,
	maxFileSize int64,
) *CostController {
	return &CostController{
		addUseCase:              addUseCase,
		updateUseCase:           updateUseCase,
		deleteUseCase:           deleteUseCase,
		resolveFlagUseCase:      resolveFlagUseCase,
		addAdditionalUseCase:    addAdditionalUseCase,
		removeAdditionalUseCase: removeAdditionalUseCase,
		generateSystemUseCase:   generateSystemUseCase,
		maxFileSize:             maxFileSize,
	}
}

// Add handles POST /trips/:id/costs requests (multipart form).
func (c *CostController) Add(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}

	var req dto.AddCostEntryRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request: " + err.Error(),
		})
		return
	}

	amount, ok := parseDecimalParam(ctx, req.Amount, "amount")
	if !ok {
		return
	}
	date, ok := parseDateParam(ctx, req.Date, "date")
	if !ok {
		return
	}

	uploads, cleanup, ok := c.openUploads(ctx)
	if !ok {
		return
	}
	defer cleanup()

	actor, _ := middleware.GetActorFromContext(ctx)
	input := cost.AddCostEntryInput{
		TripID:          tripID,
		Actor:           actor,
		Reason:          req.EditReason,
		Category:        req.Category,
		SubCategory:     req.SubCategory,
		Amount:          amount,
		Currency:        req.Currency,
		Date:            date,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		IsFlagged:       req.IsFlagged,
		FlagReason:      req.FlagReason,
		Files:           uploads,
	}

	output, err := c.addUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCostEntryResponse(output.Entry))
}

// Update handles PATCH /trips/:id/costs/:costId requests.
func (c *CostController) Update(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}
	costID, ok := parseCostID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCostEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	input := cost.UpdateCostEntryInput{
		TripID:          tripID,
		CostID:          costID,
		Actor:           actor,
		Reason:          req.EditReason,
		Category:        req.Category,
		SubCategory:     req.SubCategory,
		Currency:        req.Currency,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	}

	if req.Amount != nil {
		amount, ok := parseDecimalParam(ctx, *req.Amount, "amount")
		if !ok {
			return
		}
		input.Amount = &amount
	}
	if req.Date != nil {
		date, ok := parseDateParam(ctx, *req.Date, "date")
		if !ok {
			return
		}
		input.Date = &date
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCostEntryResponse(output.Entry))
}

// Delete handles DELETE /trips/:id/costs/:costId requests.
func (c *CostController) Delete(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}
	costID, ok := parseCostID(ctx)
	if !ok {
		return
	}

	var req dto.MutationReasonRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid request body: " + err.Error(),
			})
			return
		}
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	err := c.deleteUseCase.Execute(ctx.Request.Context(), cost.DeleteCostEntryInput{
		TripID: tripID,
		CostID: costID,
		Actor:  actor,
		Reason: req.EditReason,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ResolveFlag handles POST /trips/:id/costs/:costId/resolve-flag requests.
func (c *CostController) ResolveFlag(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}
	costID, ok := parseCostID(ctx)
	if !ok {
		return
	}

	var req dto.MutationReasonRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid request body: " + err.Error(),
			})
			return
		}
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	output, err := c.resolveFlagUseCase.Execute(ctx.Request.Context(), cost.ResolveCostFlagInput{
		TripID: tripID,
		CostID: costID,
		Actor:  actor,
		Reason: req.EditReason,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ResolveFlagResponse{
		Entry:           dto.ToCostEntryResponse(output.Entry),
		UnresolvedFlags: output.UnresolvedFlagCount,
	})
}

// AddAdditional handles POST /trips/:id/additional-costs requests (multipart form).
func (c *CostController) AddAdditional(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}

	var req dto.AddAdditionalCostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request: " + err.Error(),
		})
		return
	}

	amount, ok := parseDecimalParam(ctx, req.Amount, "amount")
	if !ok {
		return
	}
	date, ok := parseDateParam(ctx, req.Date, "date")
	if !ok {
		return
	}

	uploads, cleanup, ok := c.openUploads(ctx)
	if !ok {
		return
	}
	defer cleanup()

	actor, _ := middleware.GetActorFromContext(ctx)
	output, err := c.addAdditionalUseCase.Execute(ctx.Request.Context(), cost.AddAdditionalCostInput{
		TripID:      tripID,
		Actor:       actor,
		Reason:      req.EditReason,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Amount:      amount,
		Currency:    req.Currency,
		Date:        date,
		Notes:       req.Notes,
		Files:       uploads,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.AddAdditionalCostResponse{ID: output.CostID.String()})
}

// RemoveAdditional handles DELETE /trips/:id/additional-costs/:costId requests.
func (c *CostController) RemoveAdditional(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}
	costID, ok := parseCostID(ctx)
	if !ok {
		return
	}

	var req dto.MutationReasonRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid request body: " + err.Error(),
			})
			return
		}
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	err := c.removeAdditionalUseCase.Execute(ctx.Request.Context(), cost.RemoveAdditionalCostInput{
		TripID: tripID,
		CostID: costID,
		Actor:  actor,
		Reason: req.EditReason,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GenerateSystem handles POST /trips/:id/system-costs requests.
func (c *CostController) GenerateSystem(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}

	var req dto.MutationReasonRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid request body: " + err.Error(),
			})
			return
		}
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	output, err := c.generateSystemUseCase.Execute(ctx.Request.Context(), cost.GenerateSystemCostsInput{
		TripID: tripID,
		Actor:  actor,
		Reason: req.EditReason,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := dto.GenerateSystemCostsResponse{
		Entries: make([]dto.CostEntryResponse, len(output.Entries)),
	}
	for i, entry := range output.Entries {
		response.Entries[i] = dto.ToCostEntryResponse(entry)
	}
	ctx.JSON(http.StatusCreated, response)
}

// openUploads collects the "files" multipart uploads. The returned cleanup
// closes every opened file and must always be deferred.
func (c *CostController) openUploads(ctx *gin.Context) ([]adapter.FileUpload, func(), bool) {
	cleanup := func() {}

	form, err := ctx.MultipartForm()
	if err != nil {
		// No multipart body at all is fine; entries without receipts are legal.
		return nil, cleanup, true
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return nil, cleanup, true
	}

	var opened []multipart.File
	cleanup = func() {
		for _, f := range opened {
			f.Close()
		}
	}

	uploads := make([]adapter.FileUpload, 0, len(headers))
	for _, header := range headers {
		if c.maxFileSize > 0 && header.Size > c.maxFileSize {
			cleanup()
			ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
				Error: "Attachment " + header.Filename + " exceeds the maximum allowed size",
			})
			return nil, func() {}, false
		}

		file, err := header.Open()
		if err != nil {
			cleanup()
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Failed to read attachment " + header.Filename,
			})
			return nil, func() {}, false
		}
		opened = append(opened, file)
		uploads = append(uploads, adapter.FileUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		})
	}

	return uploads, cleanup, true
}

// parseCostID parses the :costId path parameter.
func parseCostID(ctx *gin.Context) (uuid.UUID, bool) {
	costID, err := uuid.Parse(ctx.Param("costId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid cost ID format",
		})
		return uuid.Nil, false
	}
	return costID, true
}
