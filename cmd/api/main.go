package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/corrispettivi/registro-api/internal/application/service"
	"github.com/corrispettivi/registro-api/internal/config"
	"github.com/corrispettivi/registro-api/internal/infrastructure/database"
	"github.com/corrispettivi/registro-api/internal/infrastructure/repository"
	"github.com/corrispettivi/registro-api/internal/infrastructure/upstream"
	"github.com/corrispettivi/registro-api/internal/presentation/http/handler"
	"github.com/corrispettivi/registro-api/internal/presentation/http/routes"
	"github.com/corrispettivi/registro-api/pkg/logger"
	"github.com/corrispettivi/registro-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		OutputPath: cfg.Logger.OutputPath,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Open the register store
	store, err := database.New(database.Config{Path: cfg.Database.Path}, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	// The operator password hash must be provisioned before first start.
	passwordHash := cfg.Auth.PasswordHash
	if passwordHash == "" {
		zapLogger.Warn("AUTH_PASSWORD_HASH not set, using default password 'admin'")
		generated, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			zapLogger.Fatal("Failed to generate fallback password hash", zap.Error(err))
		}
		passwordHash = string(generated)
	}

	// Initialize session manager
	sessions := utils.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)

	// Initialize repositories
	receiptRepo := repository.NewReceiptRepository(store)
	settingsRepo := repository.NewSettingsRepository(store)

	// Initialize the upstream fiscal API client
	upstreamClient := upstream.NewClient(upstream.Config{
		ProductionURL: cfg.Upstream.ProductionURL,
		SandboxURL:    cfg.Upstream.SandboxURL,
		Timeout:       cfg.Upstream.Timeout,
	}, zapLogger)

	// Initialize services
	authService := service.NewAuthService(settingsRepo, sessions, passwordHash, zapLogger)
	ledgerService := service.NewLedgerService(receiptRepo, settingsRepo, upstreamClient, zapLogger)
	syncService := service.NewSyncService(receiptRepo, settingsRepo, upstreamClient, zapLogger)
	statsService := service.NewStatsService(receiptRepo)
	exportService := service.NewExportService(receiptRepo)
	settingsService := service.NewSettingsService(settingsRepo, upstreamClient, zapLogger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Receipt:   handler.NewReceiptHandler(ledgerService),
		Dashboard: handler.NewDashboardHandler(statsService),
		Sync:      handler.NewSyncHandler(syncService),
		Export:    handler.NewExportHandler(exportService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Relay:     handler.NewRelayHandler(upstreamClient, zapLogger),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Sessions: sessions,
		Cfg:      cfg,
		Logger:   zapLogger,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	zapLogger.Info("Starting server",
		zap.String("service", cfg.App.Name),
		zap.String("port", port),
		zap.String("env", cfg.App.Env))

	if err := router.Run(":" + port); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
