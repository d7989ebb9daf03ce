package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/fleetops/backend/internal/domain/error"
	"github.com/fleetops/backend/internal/integration/entrypoint/dto"
)

// respondError maps domain errors to HTTP responses. All controllers share
// one mapping so a given error code always carries the same status.
func respondError(ctx *gin.Context, err error) {
	var incompleteErr *domainerror.IncompleteFlagsError
	if errors.As(err, &incompleteErr) {
		ctx.JSON(http.StatusConflict, dto.IncompleteFlagsResponse{
			Error:           incompleteErr.Error(),
			Code:            string(domainerror.ErrCodeIncompleteFlags),
			UnresolvedFlags: incompleteErr.UnresolvedCount,
		})
		return
	}

	var tripErr *domainerror.TripError
	if errors.As(err, &tripErr) {
		ctx.JSON(statusForTripError(tripErr.Code), dto.ErrorResponse{
			Error: tripErr.Message,
			Code:  string(tripErr.Code),
		})
		return
	}

	var costErr *domainerror.CostError
	if errors.As(err, &costErr) {
		ctx.JSON(statusForCostError(costErr.Code), dto.ErrorResponse{
			Error: costErr.Message,
			Code:  string(costErr.Code),
		})
		return
	}

	var editErr *domainerror.EditError
	if errors.As(err, &editErr) {
		ctx.JSON(statusForEditError(editErr.Code), dto.ErrorResponse{
			Error: editErr.Message,
			Code:  string(editErr.Code),
		})
		return
	}

	var persistenceErr *domainerror.PersistenceError
	if errors.As(err, &persistenceErr) {
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error: "Storage backend unavailable",
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusForTripError maps trip error codes to HTTP status codes.
func statusForTripError(code domainerror.TripErrorCode) int {
	switch code {
	case domainerror.ErrCodeTripNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidTransition,
		domainerror.ErrCodeTripInvoiced,
		domainerror.ErrCodeTripNotActive:
		return http.StatusConflict
	case domainerror.ErrCodeMissingTripFields,
		domainerror.ErrCodeInvalidClientType,
		domainerror.ErrCodeNegativeRevenue,
		domainerror.ErrCodeNegativeDistance,
		domainerror.ErrCodeEndBeforeStart:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// statusForCostError maps cost error codes to HTTP status codes.
func statusForCostError(code domainerror.CostErrorCode) int {
	switch code {
	case domainerror.ErrCodeCostEntryNotFound,
		domainerror.ErrCodeAdditionalCostNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeFlagAlreadyResolved,
		domainerror.ErrCodeSystemCostsAlreadyExist:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidCostAmount,
		domainerror.ErrCodeMissingCostCurrency,
		domainerror.ErrCodeMissingCostCategory,
		domainerror.ErrCodeMissingFlagReason:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// statusForEditError maps edit workflow error codes to HTTP status codes.
// Justification failures are 422: the request is well-formed, the edit just
// cannot be accepted without its reason or observable change.
func statusForEditError(code domainerror.EditErrorCode) int {
	switch code {
	case domainerror.ErrCodeMissingActor:
		return http.StatusUnauthorized
	case domainerror.ErrCodeEditReasonRequired,
		domainerror.ErrCodeNoChangesDetected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
