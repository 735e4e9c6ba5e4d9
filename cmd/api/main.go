// Puppy Tracker API
//
// REST API for logging puppy care events and reading back what they mean.
//
//	@title			Puppy Tracker API
//	@version		1.0
//	@description	Log potty, sleep, meal and walk events; read sleep state, potty predictions, walk plans and statistics.
//
//	@BasePath	/v1
//
//	@tag.name			puppies
//	@tag.description	Puppy profile endpoints
//
//	@tag.name			events
//	@tag.description	Care event logging endpoints
//
//	@tag.name			care
//	@tag.description	Derived sleep, potty, walk and statistics views
//
//	@tag.name			insights
//	@tag.description	LLM care digest
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/api"
	"github.com/blaisecz/puppy-tracker/internal/api/handler"
	"github.com/blaisecz/puppy-tracker/internal/config"
	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/internal/langfuse"
	"github.com/blaisecz/puppy-tracker/internal/llm"
	"github.com/blaisecz/puppy-tracker/internal/logging"
	"github.com/blaisecz/puppy-tracker/internal/repository"
	"github.com/blaisecz/puppy-tracker/internal/seed"
	"github.com/blaisecz/puppy-tracker/internal/service"
	"github.com/blaisecz/puppy-tracker/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Connect to database
	db, err := config.NewDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(&domain.Puppy{}, &domain.Event{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database migration completed")

	if cfg.Seed {
		logger.Info("seeding database with sample data")
		if err := seed.Run(db, logger); err != nil {
			logger.Fatal("failed to seed database", zap.Error(err))
		}
	}

	// Initialize repositories
	puppyRepo := repository.NewPuppyRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Initialize services
	clock := service.Clock(service.SystemClock)
	puppyService := service.NewPuppyService(puppyRepo, cfg.Prediction, clock)
	eventService := service.NewEventService(eventRepo, puppyRepo, logger)
	careService := service.NewCareService(puppyRepo, eventRepo, clock)

	// OpenAI client is nil when no key is configured; the digest then answers 503.
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIDigestModel)
	if openaiClient == nil {
		logger.Warn("OpenAI API key not configured, insights endpoint will be unavailable")
	}
	insightsService := service.NewInsightsService(careService, puppyRepo, openaiClient, logger)

	langfuseClient := langfuse.NewClient(langfuse.Config{
		BaseURL:     cfg.LangfuseBaseURL,
		PublicKey:   cfg.LangfusePublicKey,
		SecretKey:   cfg.LangfuseSecretKey,
		Environment: cfg.LangfuseEnv,
	}, logger)

	// Initialize handlers
	puppyHandler := handler.NewPuppyHandler(puppyService)
	eventHandler := handler.NewEventHandler(eventService)
	careHandler := handler.NewCareHandler(careService)
	insightsHandler := handler.NewInsightsHandler(insightsService, langfuseClient, logger)

	// Setup router
	router := api.NewRouter(puppyHandler, eventHandler, careHandler, insightsHandler, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", zap.Error(err))
	}
}
