// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/application/usecase/trip"
	"github.com/fleetops/backend/internal/domain/entity"
	"github.com/fleetops/backend/internal/domain/valueobject"
	"github.com/fleetops/backend/internal/integration/entrypoint/dto"
	"github.com/fleetops/backend/internal/integration/entrypoint/middleware"
)

// TripController handles trip lifecycle endpoints.
type TripController struct {
	listUseCase     *trip.ListTripsUseCase
	createUseCase   *trip.CreateTripUseCase
	getUseCase      *trip.GetTripUseCase
	updateUseCase   *trip.UpdateTripUseCase
	completeUseCase *trip.CompleteTripUseCase
	invoiceUseCase  *trip.InvoiceTripUseCase
	deleteUseCase   *trip.DeleteTripUseCase
}

// NewTripController creates a new trip controller instance.
func NewTripController(
	listUseCase *trip.ListTripsUseCase,
	createUseCase *trip.CreateTripUseCase,
	getUseCase *trip.GetTripUseCase,
	updateUseCase *trip.UpdateTripUseCase,
	completeUseCase *trip.CompleteTripUseCase,
	invoiceUseCase *trip.InvoiceTripUseCase,
	deleteUseCase *trip.DeleteTripUseCase,
) *TripController {
	return &TripController{
		listUseCase:     listUseCase,
		createUseCase:   createUseCase,
		getUseCase:      getUseCase,
		updateUseCase:   updateUseCase,
		completeUseCase: completeUseCase,
		invoiceUseCase:  invoiceUseCase,
		deleteUseCase:   deleteUseCase,
	}
}

// List handles GET /trips requests.
func (c *TripController) List(ctx *gin.Context) {
	input := trip.ListTripsInput{
		ClientName:  ctx.Query("client"),
		FleetNumber: ctx.Query("fleet_number"),
	}

	if statusStr := ctx.Query("status"); statusStr != "" {
		for _, s := range strings.Split(statusStr, ",") {
			status := entity.TripStatus(strings.TrimSpace(s))
			if !entity.IsValidStatus(status) {
				ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
					Error: "Invalid status filter: " + string(status),
				})
				return
			}
			input.Statuses = append(input.Statuses, status)
		}
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := dto.TripListResponse{
		Trips: make([]dto.TripResponse, len(output.Trips)),
		Total: output.Total,
	}
	for i, t := range output.Trips {
		response.Trips[i] = dto.ToTripResponse(t)
	}
	ctx.JSON(http.StatusOK, response)
}

// Create handles POST /trips requests.
func (c *TripController) Create(ctx *gin.Context) {
	var req dto.CreateTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	startDate, ok := parseDateParam(ctx, req.StartDate, "start_date")
	if !ok {
		return
	}
	endDate, ok := parseDateParam(ctx, req.EndDate, "end_date")
	if !ok {
		return
	}
	baseRevenue, ok := parseDecimalParam(ctx, req.BaseRevenue, "base_revenue")
	if !ok {
		return
	}
	distanceKm, ok := parseDecimalParam(ctx, req.DistanceKm, "distance_km")
	if !ok {
		return
	}

	input := trip.CreateTripInput{
		FleetNumber:     req.FleetNumber,
		DriverName:      req.DriverName,
		ClientName:      req.ClientName,
		ClientType:      entity.ClientType(req.ClientType),
		Route:           req.Route,
		RouteWaypoints:  req.RouteWaypoints,
		StartDate:       startDate,
		EndDate:         endDate,
		BaseRevenue:     baseRevenue,
		RevenueCurrency: req.RevenueCurrency,
		DistanceKm:      distanceKm,
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTripResponse(output.Trip))
}

// Get handles GET /trips/:id requests.
func (c *TripController) Get(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), trip.GetTripInput{TripID: tripID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TripDetailResponse{
		Trip: dto.ToTripResponse(output.Trip),
		KPIs: dto.ToTripKPIsResponse(output.KPIs),
	})
}

// KPIs handles GET /trips/:id/kpis requests.
func (c *TripController) KPIs(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), trip.GetTripInput{TripID: tripID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTripKPIsResponse(output.KPIs))
}

// Update handles PATCH /trips/:id requests.
func (c *TripController) Update(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	patch, ok := buildTripPatch(ctx, req)
	if !ok {
		return
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	input := trip.UpdateTripInput{
		TripID: tripID,
		Actor:  actor,
		Reason: req.EditReason,
		Patch:  patch,
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUpdateTripResponse(output))
}

// Complete handles POST /trips/:id/complete requests.
func (c *TripController) Complete(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	output, err := c.completeUseCase.Execute(ctx.Request.Context(), trip.CompleteTripInput{
		TripID: tripID,
		Actor:  actor,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTripResponse(output.Trip))
}

// Invoice handles POST /trips/:id/invoice requests.
func (c *TripController) Invoice(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}

	actor, _ := middleware.GetActorFromContext(ctx)
	output, err := c.invoiceUseCase.Execute(ctx.Request.Context(), trip.InvoiceTripInput{
		TripID: tripID,
		Actor:  actor,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTripResponse(output.Trip))
}

// Delete handles DELETE /trips/:id requests.
func (c *TripController) Delete(ctx *gin.Context) {
	tripID, ok := parseTripID(ctx)
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), trip.DeleteTripInput{TripID: tripID}); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// buildTripPatch converts the update request into a trip patch, reporting
// parse failures directly on the context.
func buildTripPatch(ctx *gin.Context, req dto.UpdateTripRequest) (valueobject.TripPatch, bool) {
	patch := valueobject.TripPatch{
		FleetNumber:    req.FleetNumber,
		DriverName:     req.DriverName,
		ClientName:     req.ClientName,
		Route:          req.Route,
		RouteWaypoints: req.RouteWaypoints,
	}

	if req.ClientType != nil {
		clientType := entity.ClientType(*req.ClientType)
		patch.ClientType = &clientType
	}
	if req.RevenueCurrency != nil {
		patch.RevenueCurrency = req.RevenueCurrency
	}
	if req.StartDate != nil {
		date, ok := parseDateParam(ctx, *req.StartDate, "start_date")
		if !ok {
			return valueobject.TripPatch{}, false
		}
		patch.StartDate = &date
	}
	if req.EndDate != nil {
		date, ok := parseDateParam(ctx, *req.EndDate, "end_date")
		if !ok {
			return valueobject.TripPatch{}, false
		}
		patch.EndDate = &date
	}
	if req.OffloadDate != nil {
		date, ok := parseDateParam(ctx, *req.OffloadDate, "offload_date")
		if !ok {
			return valueobject.TripPatch{}, false
		}
		patch.OffloadDate = &date
	}
	if req.BaseRevenue != nil {
		amount, ok := parseDecimalParam(ctx, *req.BaseRevenue, "base_revenue")
		if !ok {
			return valueobject.TripPatch{}, false
		}
		patch.BaseRevenue = &amount
	}
	if req.DistanceKm != nil {
		distance, ok := parseDecimalParam(ctx, *req.DistanceKm, "distance_km")
		if !ok {
			return valueobject.TripPatch{}, false
		}
		patch.DistanceKm = &distance
	}

	return patch, true
}

// parseTripID parses the :id path parameter, reporting failures on the context.
func parseTripID(ctx *gin.Context) (uuid.UUID, bool) {
	tripID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid trip ID format",
		})
		return uuid.Nil, false
	}
	return tripID, true
}

// parseDateParam parses a YYYY-MM-DD field, reporting failures on the context.
func parseDateParam(ctx *gin.Context, value, field string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + field + " format. Use YYYY-MM-DD",
		})
		return time.Time{}, false
	}
	return date, true
}

// parseDecimalParam parses a decimal string field, reporting failures on the
// context. Amounts travel as strings so no float rounding sneaks in.
func parseDecimalParam(ctx *gin.Context, value, field string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + field + ": not a valid decimal number",
		})
		return decimal.Decimal{}, false
	}
	return amount, true
}
