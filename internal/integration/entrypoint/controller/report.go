package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fleetops/backend/internal/application/usecase/report"
	"github.com/fleetops/backend/internal/integration/entrypoint/dto"
)

// ReportController handles reporting endpoints.
type ReportController struct {
	weeklyUseCase    *report.WeeklyReportUseCase
	dashboardUseCase *report.GetDashboardUseCase
}

// NewReportController creates a new report controller instance.
func NewReportController(
	weeklyUseCase *report.WeeklyReportUseCase,
	dashboardUseCase *report.GetDashboardUseCase,
) *ReportController {
	return &ReportController{
		weeklyUseCase:    weeklyUseCase,
		dashboardUseCase: dashboardUseCase,
	}
}

// Weekly handles GET /reports/weekly requests.
func (c *ReportController) Weekly(ctx *gin.Context) {
	input := report.WeeklyReportInput{}
	if yearStr := ctx.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid year filter",
			})
			return
		}
		input.Year = year
	}

	output, err := c.weeklyUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToWeeklyReportResponse(output))
}

// Dashboard handles GET /reports/dashboard requests.
func (c *ReportController) Dashboard(ctx *gin.Context) {
	output, err := c.dashboardUseCase.Execute(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDashboardResponse(output))
}
