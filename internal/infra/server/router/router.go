// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/fleetops/backend/internal/integration/entrypoint/controller"
	"github.com/fleetops/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine           *gin.Engine
	healthController *controller.HealthController
	tripController   *controller.TripController
	costController   *controller.CostController
	reportController *controller.ReportController
	writeRateLimiter *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	tripController *controller.TripController,
	costController *controller.CostController,
	reportController *controller.ReportController,
	writeRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController: healthController,
		tripController:   tripController,
		costController:   costController,
		reportController: reportController,
		writeRateLimiter: writeRateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	r.engine.Use(middleware.Identity())

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Reads are open; every
// mutation requires an acting user and passes the write rate limiter.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		if r.tripController != nil {
			trips := v1.Group("/trips")
			{
				trips.GET("", r.tripController.List)
				trips.GET("/:id", r.tripController.Get)
				trips.GET("/:id/kpis", r.tripController.KPIs)

				writes := trips.Group("")
				writes.Use(middleware.RequireActor())
				if r.writeRateLimiter != nil {
					writes.Use(r.writeRateLimiter.Middleware())
				}
				{
					writes.POST("", r.tripController.Create)
					writes.PATCH("/:id", r.tripController.Update)
					writes.DELETE("/:id", r.tripController.Delete)
					writes.POST("/:id/complete", r.tripController.Complete)
					writes.POST("/:id/invoice", r.tripController.Invoice)

					if r.costController != nil {
						writes.POST("/:id/costs", r.costController.Add)
						writes.PATCH("/:id/costs/:costId", r.costController.Update)
						writes.DELETE("/:id/costs/:costId", r.costController.Delete)
						writes.POST("/:id/costs/:costId/resolve-flag", r.costController.ResolveFlag)
						writes.POST("/:id/system-costs", r.costController.GenerateSystem)
						writes.POST("/:id/additional-costs", r.costController.AddAdditional)
						writes.DELETE("/:id/additional-costs/:costId", r.costController.RemoveAdditional)
					}
				}
			}
		}

		if r.reportController != nil {
			reports := v1.Group("/reports")
			{
				reports.GET("/weekly", r.reportController.Weekly)
				reports.GET("/dashboard", r.reportController.Dashboard)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
