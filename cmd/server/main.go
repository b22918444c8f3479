package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	financeapp "github.com/agendify/backend/internal/application/finance"
	insightapp "github.com/agendify/backend/internal/application/insight"
	integrationapp "github.com/agendify/backend/internal/application/integration"
	messagingapp "github.com/agendify/backend/internal/application/messaging"
	"github.com/agendify/backend/internal/infrastructure/ai"
	"github.com/agendify/backend/internal/infrastructure/auth"
	"github.com/agendify/backend/internal/infrastructure/config"
	"github.com/agendify/backend/internal/infrastructure/logger"
	"github.com/agendify/backend/internal/infrastructure/persistence"
	"github.com/agendify/backend/internal/infrastructure/whatsapp"
	"github.com/agendify/backend/internal/interfaces/http/handler"
	"github.com/agendify/backend/internal/interfaces/http/middleware"
	"github.com/agendify/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Agendify Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	suggestionRepo := persistence.NewGormSuggestionRepository(db.DB)
	whatsappLogRepo := persistence.NewGormWhatsAppLogRepository(db.DB)

	// Initialize external provider clients
	geminiClient := ai.NewGeminiClient(cfg.Gemini)
	whatsappClient := whatsapp.NewClient(cfg.WhatsApp)

	// Initialize application services
	extractionService := financeapp.NewExtractionService(
		categoryRepo, expenseRepo, suggestionRepo, geminiClient, log)
	suggestionService := insightapp.NewSuggestionService(
		expenseRepo, suggestionRepo, geminiClient, log)
	inboundService := messagingapp.NewInboundService(
		profileRepo, whatsappLogRepo, extractionService, cfg.WhatsApp.VerifyToken, log)
	notificationService := messagingapp.NewNotificationService(whatsappClient, log)
	probeService := integrationapp.NewProbeService(geminiClient, whatsappClient, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	webhookHandler := handler.NewWebhookHandler(inboundService)
	aiHandler := handler.NewAIHandler(extractionService, suggestionService)
	messageHandler := handler.NewMessageHandler(notificationService)
	probeHandler := handler.NewProbeHandler(probeService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// security headers, CORS, body size limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication for API routes. The webhook endpoints are called by
	// the provider and authenticate via the verify token instead; the
	// connection probes are operator tooling.
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/whatsapp/webhook",
			"/api/v1/ai/test-connection",
			"/api/v1/whatsapp/test-connection",
		},
		Logger: log,
	}))

	// WhatsApp domain: webhook, outbound messages, connectivity probe
	whatsappRoutes := router.NewDomainGroup("whatsapp", "/whatsapp")
	whatsappRoutes.GET("/webhook", webhookHandler.Verify)
	whatsappRoutes.POST("/webhook", webhookHandler.Receive)
	whatsappRoutes.POST("/messages", messageHandler.Send)
	whatsappRoutes.POST("/test-connection", probeHandler.TestWhatsApp)

	// AI domain: extraction, suggestions, connectivity probe
	aiRoutes := router.NewDomainGroup("ai", "/ai")
	aiRoutes.POST("/expenses/extract", aiHandler.ExtractExpense)
	aiRoutes.POST("/suggestions/generate", aiHandler.GenerateSuggestions)
	aiRoutes.GET("/suggestions", aiHandler.ListSuggestions)
	aiRoutes.PUT("/suggestions/:id/status", aiHandler.UpdateSuggestionStatus)
	aiRoutes.POST("/test-connection", probeHandler.TestGemini)

	r.Register(whatsappRoutes).Register(aiRoutes)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
