// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/doron007/subscription-dashboard-sub001/internal/integration/entrypoint/controller"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine             *gin.Engine
	healthController   *controller.HealthController
	analysisController *controller.AnalysisController
	importController   *controller.ImportController
	mergeController    *controller.MergeController
	periodController   *controller.PeriodController
	vendorController   *controller.VendorController
	uploadRateLimiter  *middleware.RateLimiter
	authMiddleware     *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	analysisController *controller.AnalysisController,
	importController *controller.ImportController,
	mergeController *controller.MergeController,
	periodController *controller.PeriodController,
	vendorController *controller.VendorController,
	uploadRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:   healthController,
		analysisController: analysisController,
		importController:   importController,
		mergeController:    mergeController,
		periodController:   periodController,
		vendorController:   vendorController,
		uploadRateLimiter:  uploadRateLimiter,
		authMiddleware:     authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		// Invoice analysis routes (require authentication)
		if r.analysisController != nil && r.authMiddleware != nil {
			analysis := v1.Group("/analysis")
			analysis.Use(r.authMiddleware.Authenticate())
			{
				if r.uploadRateLimiter != nil {
					analysis.POST("/invoices", r.uploadRateLimiter.Middleware(), r.analysisController.Analyze)
				} else {
					analysis.POST("/invoices", r.analysisController.Analyze)
				}
			}
		}

		// Bulk import routes (require authentication)
		if r.importController != nil && r.authMiddleware != nil {
			imports := v1.Group("/import")
			imports.Use(r.authMiddleware.Authenticate())
			{
				imports.POST("/reconcile", r.importController.Reconcile)
				imports.POST("/execute", r.importController.Execute)
				imports.GET("/runs", r.importController.ListRuns)
			}
		}

		// Merge routes (require authentication)
		if r.mergeController != nil && r.authMiddleware != nil {
			merges := v1.Group("/merge")
			merges.Use(r.authMiddleware.Authenticate())
			{
				merges.POST("/preview", r.mergeController.Preview)
				merges.POST("/execute", r.mergeController.Execute)
			}
		}

		// Billing period routes (require authentication)
		if r.periodController != nil && r.authMiddleware != nil {
			periods := v1.Group("/periods")
			periods.Use(r.authMiddleware.Authenticate())
			{
				periods.POST("/move", r.periodController.Move)
			}
		}

		// Vendor reporting routes (require authentication)
		if r.vendorController != nil && r.authMiddleware != nil {
			vendors := v1.Group("/vendors")
			vendors.Use(r.authMiddleware.Authenticate())
			{
				vendors.GET("/:id/billing-cycle", r.vendorController.GetBillingCycle)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
