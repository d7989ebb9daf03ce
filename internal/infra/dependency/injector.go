// Package dependency provides dependency injection for the application.
package dependency

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fleetops/backend/config"
	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/application/usecase/cost"
	"github.com/fleetops/backend/internal/application/usecase/report"
	"github.com/fleetops/backend/internal/application/usecase/trip"
	"github.com/fleetops/backend/internal/domain/valueobject"
	"github.com/fleetops/backend/internal/infra/server/router"
	"github.com/fleetops/backend/internal/integration/adapters"
	"github.com/fleetops/backend/internal/integration/entrypoint/controller"
	"github.com/fleetops/backend/internal/integration/entrypoint/middleware"
	"github.com/fleetops/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil; reports then run uncached.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	tripRepo := persistence.NewTripRepository(db)

	// Create adapters
	attachmentStore := adapters.NewFilesystemAttachmentStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	var reportCache adapter.ReportCache
	if redisClient != nil {
		reportCache = adapters.NewRedisReportCache(redisClient)
	} else {
		reportCache = adapters.NewNoopReportCache()
	}

	overheadNorms := loadOverheadNorms(cfg.Overheads)

	// Create trip use cases
	listTripsUseCase := trip.NewListTripsUseCase(tripRepo)
	createTripUseCase := trip.NewCreateTripUseCase(tripRepo)
	getTripUseCase := trip.NewGetTripUseCase(tripRepo)
	updateTripUseCase := trip.NewUpdateTripUseCase(tripRepo)
	completeTripUseCase := trip.NewCompleteTripUseCase(tripRepo)
	invoiceTripUseCase := trip.NewInvoiceTripUseCase(tripRepo)
	deleteTripUseCase := trip.NewDeleteTripUseCase(tripRepo)

	// Create cost use cases
	addCostUseCase := cost.NewAddCostEntryUseCase(tripRepo, attachmentStore)
	updateCostUseCase := cost.NewUpdateCostEntryUseCase(tripRepo)
	deleteCostUseCase := cost.NewDeleteCostEntryUseCase(tripRepo)
	resolveFlagUseCase := cost.NewResolveCostFlagUseCase(tripRepo)
	addAdditionalCostUseCase := cost.NewAddAdditionalCostUseCase(tripRepo, attachmentStore)
	removeAdditionalCostUseCase := cost.NewRemoveAdditionalCostUseCase(tripRepo)
	generateSystemCostsUseCase := cost.NewGenerateSystemCostsUseCase(tripRepo, overheadNorms)

	// Create report use cases
	weeklyReportUseCase := report.NewWeeklyReportUseCase(tripRepo, reportCache, cfg.Reports.CacheTTL)
	dashboardUseCase := report.NewGetDashboardUseCase(tripRepo, reportCache, cfg.Reports.CacheTTL)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	tripController := controller.NewTripController(
		listTripsUseCase,
		createTripUseCase,
		getTripUseCase,
		updateTripUseCase,
		completeTripUseCase,
		invoiceTripUseCase,
		deleteTripUseCase,
	)

	costController := controller.NewCostController(
		addCostUseCase,
		updateCostUseCase,
		deleteCostUseCase,
		resolveFlagUseCase,
		addAdditionalCostUseCase,
		removeAdditionalCostUseCase,
		generateSystemCostsUseCase,
		cfg.Uploads.MaxFileSize,
	)

	reportController := controller.NewReportController(
		weeklyReportUseCase,
		dashboardUseCase,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var writeRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		writeRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		writeRateLimiter = middleware.NewRateLimiter()
	}

	// Create router
	r := router.NewRouter(healthController, tripController, costController, reportController, writeRateLimiter)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: r,
	}
}

// loadOverheadNorms parses the configured overhead norm overrides, falling
// back to the built-in defaults for any side left unset or malformed.
func loadOverheadNorms(cfg config.OverheadsConfig) valueobject.OverheadNorms {
	norms := valueobject.DefaultOverheadNorms()

	if cfg.PerDayRates != "" {
		var rates []valueobject.OverheadRate
		if err := json.Unmarshal([]byte(cfg.PerDayRates), &rates); err != nil {
			slog.Warn("Invalid OVERHEAD_PER_DAY_RATES, using defaults", "error", err)
		} else {
			norms.PerDay = rates
		}
	}
	if cfg.PerKmRates != "" {
		var rates []valueobject.OverheadRate
		if err := json.Unmarshal([]byte(cfg.PerKmRates), &rates); err != nil {
			slog.Warn("Invalid OVERHEAD_PER_KM_RATES, using defaults", "error", err)
		} else {
			norms.PerKm = rates
		}
	}

	return norms
}
