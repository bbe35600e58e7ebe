package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/corrispettivi/registro-api/internal/config"
	"github.com/corrispettivi/registro-api/internal/presentation/http/handler"
	"github.com/corrispettivi/registro-api/internal/presentation/http/middleware"
	"github.com/corrispettivi/registro-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Receipt   *handler.ReceiptHandler
	Dashboard *handler.DashboardHandler
	Sync      *handler.SyncHandler
	Export    *handler.ExportHandler
	Settings  *handler.SettingsHandler
	Relay     *handler.RelayHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Sessions *utils.SessionManager
	Cfg      *config.Config
	Logger   *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes (operator session required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Sessions))

		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	// The relay carries the caller's own Authorization header, so it sits
	// outside the session-protected group.
	router.Any("/api/relay", h.Relay.Relay)

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.POST("/auth/logout", h.Auth.Logout)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.GetStats)
	protected.GET("/dashboard/daily", h.Dashboard.GetDailyTotals)

	// Receipts and the current draft
	registerReceiptRoutes(protected, h)

	// Reconciliation with the upstream collection
	protected.POST("/sync", h.Sync.Sync)

	// CSV export
	protected.GET("/export/csv", h.Export.ExportCSV)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)
	protected.POST("/settings/test", h.Settings.TestConnection)
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers) {
	receipts := protected.Group("/receipts")
	{
		receipts.GET("/draft", h.Receipt.GetDraft)
		receipts.POST("/draft/items", h.Receipt.AddItem)
		receipts.DELETE("/draft/items/:item_id", h.Receipt.RemoveItem)

		receipts.GET("", h.Receipt.List)
		receipts.POST("", h.Receipt.Issue)
		receipts.GET("/number/:number", h.Receipt.GetByNumber)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.POST("/:id/refund", h.Receipt.Refund)
		receipts.POST("/:id/void", h.Receipt.Void)
	}
}
