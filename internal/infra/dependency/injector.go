// Package dependency provides dependency injection for the application.
package dependency

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/doron007/subscription-dashboard-sub001/config"
	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/analysis"
	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/billing"
	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/importer"
	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/merge"
	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/period"
	"github.com/doron007/subscription-dashboard-sub001/internal/infra/server/router"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/adapters"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/email"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/entrypoint/controller"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/entrypoint/middleware"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil; the billing cycle report then skips caching.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	vendorRepo := persistence.NewVendorRepository(db)
	subscriptionRepo := persistence.NewSubscriptionRepository(db)
	serviceRepo := persistence.NewServiceRepository(db)
	invoiceRepo := persistence.NewInvoiceRepository(db)
	lineItemRepo := persistence.NewLineItemRepository(db)
	importRunRepo := persistence.NewImportRunRepository(db)

	// Create adapters/services
	extractor := adapters.NewGeminiExtractor(cfg.Gemini.APIKey, cfg.Gemini.ModelName)
	tokenService := adapters.NewTokenService(cfg.Auth.JWTSecret)
	notifier := email.NewResendNotifier(
		cfg.Email.ResendAPIKey,
		cfg.Email.FromName,
		cfg.Email.FromEmail,
		cfg.Email.NotifyEmail,
	)
	var cycleCache adapter.CycleCache
	if redisClient != nil {
		cycleCache = adapters.NewRedisCycleCache(redisClient, cfg.Redis.CycleTTL)
	}

	// Create analysis use cases
	runPipelineUseCase := analysis.NewRunPipelineUseCase(extractor)

	// Create import use cases
	reconcileUseCase := importer.NewReconcileUseCase(invoiceRepo, lineItemRepo)
	executeBatchUseCase := importer.NewExecuteBatchUseCase(
		vendorRepo,
		subscriptionRepo,
		serviceRepo,
		invoiceRepo,
		lineItemRepo,
		importRunRepo,
		notifier,
		cfg.Import.DefaultBatchSize,
	)
	listRunsUseCase := importer.NewListRunsUseCase(importRunRepo)

	// Create merge use cases
	previewMergeUseCase := merge.NewPreviewMergeUseCase(vendorRepo, subscriptionRepo, serviceRepo, invoiceRepo, lineItemRepo)
	executeMergeUseCase := merge.NewExecuteMergeUseCase(vendorRepo, subscriptionRepo, serviceRepo, invoiceRepo, lineItemRepo)

	// Create period and billing use cases
	movePeriodUseCase := period.NewMovePeriodUseCase(invoiceRepo, lineItemRepo)
	getVendorCycleUseCase := billing.NewGetVendorCycleUseCase(vendorRepo, subscriptionRepo, invoiceRepo, cycleCache)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})
	analysisController := controller.NewAnalysisController(runPipelineUseCase)
	importController := controller.NewImportController(reconcileUseCase, executeBatchUseCase, listRunsUseCase)
	mergeController := controller.NewMergeController(previewMergeUseCase, executeMergeUseCase)
	periodController := controller.NewPeriodController(movePeriodUseCase)
	vendorController := controller.NewVendorController(getVendorCycleUseCase)

	// Create middleware
	// Use higher rate limits for test environments to prevent flaky tests
	var uploadRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "test" {
		uploadRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		uploadRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		analysisController,
		importController,
		mergeController,
		periodController,
		vendorController,
		uploadRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: r,
	}
}
