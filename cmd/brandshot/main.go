// Package main is the entry point for the brandshot server.
// It loads configuration, opens the configured storage backend, wires the
// generation pipeline, and starts the HTTP server and scheduled jobs with
// graceful shutdown support.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"brandshot/internal/ai"
	"brandshot/internal/cache"
	"brandshot/internal/config"
	"brandshot/internal/database"
	"brandshot/internal/generation"
	"brandshot/internal/handlers"
	"brandshot/internal/logging"
	"brandshot/internal/middleware"
	"brandshot/internal/references"
	"brandshot/internal/router"
	"brandshot/internal/scheduler"
	"brandshot/internal/storage"
	"brandshot/internal/store"
	"brandshot/internal/upload"
)

func main() {
	// Load configuration from .env, CONFIG_FILE, and the environment.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	logger, logCloser := logging.New(logging.Options{
		Level: cfg.LogLevel,
		JSON:  !cfg.IsDev(),
		File:  cfg.LogFile,
	})
	defer logging.Close(logCloser)
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.StorageDriver,
		"demo_mode", cfg.DemoMode,
	)

	blobs, closeStorage, err := openStorage(cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	// Initialize data stores.
	projectStore := store.NewProjectStore(blobs)
	campaignStore := store.NewCampaignStore(blobs)
	requestStore := store.NewRequestStore(blobs)
	referenceStore := store.NewReferenceStore(blobs)
	assetStore := store.NewAssetStore(blobs)

	// Seed development data (no-op if a project already exists).
	if cfg.IsDev() && cfg.SeedData {
		if err := store.Seed(context.Background(), projectStore, campaignStore); err != nil {
			slog.Error("failed to seed store", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the provider status cache (optional).
	var statusCache *cache.StatusCache
	if cfg.ValkeyHost != "" {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		statusCache = cache.NewStatusCache(valkeyClient, cache.DefaultStatusTTL)
	} else {
		slog.Warn("valkey not configured, provider status is probed on every health check")
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, cfg.ImageProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIChatModel, ImageModel: cfg.OpenAIImageModel, BaseURL: cfg.OpenAIBaseURL, Timeout: cfg.GenerationTimeout},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, ImageModel: cfg.GeminiImageModel, BaseURL: cfg.GeminiBaseURL, Timeout: cfg.GenerationTimeout},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL, Timeout: cfg.GenerationTimeout},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL, Timeout: cfg.GenerationTimeout},
	})

	slog.Info("ai providers initialized",
		"text", aiRegistry.ActiveName(),
		"image", aiRegistry.ActiveImageName(),
		"available", aiRegistry.Available(),
		"image_generation", aiRegistry.SupportsImageGeneration(),
	)

	// Generation pipeline: optimize, generate, fetch, with bounded retries.
	imageModel := cfg.OpenAIImageModel
	if cfg.ImageProvider == "gemini" {
		imageModel = cfg.GeminiImageModel
	}
	orchestrator := generation.NewOrchestrator(
		generation.NewOptimizer(aiRegistry),
		generation.NewGenerator(aiRegistry, generation.ImageSettings{
			Model:    imageModel,
			Size:     cfg.OpenAIImageSize,
			Quality:  cfg.OpenAIImageQuality,
			DemoMode: cfg.DemoMode,
		}),
		generation.NewFetcher(cfg.GenerationTimeout),
		generation.OrchestratorConfig{
			MaxAttempts: cfg.MaxGenerationRetries,
			Backoff:     cfg.RetryBackoff,
			Timeout:     cfg.GenerationTimeout,
		},
	)
	generationService := generation.NewService(projectStore, campaignStore, requestStore, referenceStore, assetStore, orchestrator)
	healthChecker := generation.NewHealthChecker(aiRegistry, statusCache, 10*time.Second)
	referenceService := references.NewService(projectStore, campaignStore, referenceStore)
	uploads := upload.NewProcessor(blobs, cfg.TempDir, cfg.UploadMaxBytes)

	// Scheduled maintenance jobs.
	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		loc, err := cfg.Location()
		if err != nil {
			slog.Error("invalid scheduler timezone", "error", err)
			os.Exit(1)
		}
		sched, err = scheduler.New(loc, scheduler.DefaultJobs(scheduler.Deps{
			Uploads:   uploads,
			Projects:  projectStore,
			Campaigns: campaignStore,
			Assets:    assetStore,
		})...)
		if err != nil {
			slog.Error("failed to create scheduler", "error", err)
			os.Exit(1)
		}
		sched.Start()
	}

	api := handlers.New(handlers.Deps{
		Projects:   projectStore,
		Campaigns:  campaignStore,
		Requests:   requestStore,
		Assets:     assetStore,
		Blobs:      blobs,
		References: referenceService,
		Generation: generationService,
		Health:     healthChecker,
		Uploads:    uploads,
		Scheduler:  sched,
		Providers: handlers.ProviderInfo{
			Text:     aiRegistry.ActiveName(),
			Image:    aiRegistry.ActiveImageName(),
			DemoMode: cfg.DemoMode,
		},
	})

	limiter := middleware.NewRateLimiter(cfg.GenerateRateLimit, time.Minute)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(api, limiter)

	// WriteTimeout must cover a full generation: every attempt may spend
	// GENERATION_TIMEOUT per provider call plus the backoff between them.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if sched != nil {
		if err := sched.Stop(ctx); err != nil {
			slog.Error("scheduler did not stop cleanly", "error", err)
		}
	}

	slog.Info("server stopped gracefully")
}

// openStorage opens the backend selected by STORAGE_DRIVER. The returned
// function releases any database connection.
func openStorage(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		s, err := storage.NewS3Store(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return s, func() {}, nil

	case config.StoragePostgres, config.StorageSQLite:
		driver, dsn := database.DriverPostgres, cfg.DSN()
		if cfg.StorageDriver == config.StorageSQLite {
			driver, dsn = database.DriverSQLite, cfg.SQLitePath
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		db, err := database.Connect(driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db, driver); err != nil {
			db.Close()
			return nil, nil, err
		}
		return storage.NewSQLStore(db, driver), func() { db.Close() }, nil

	default:
		s, err := storage.NewFSStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("filesystem storage ready", "dir", cfg.DataDir)
		return s, func() {}, nil
	}
}

// writeTimeout bounds how long a generate call may hold its connection.
func writeTimeout(cfg *config.Config) time.Duration {
	perAttempt := 3 * cfg.GenerationTimeout
	var backoff time.Duration
	for n := 1; n < cfg.MaxGenerationRetries; n++ {
		backoff += time.Duration(n) * cfg.RetryBackoff
	}
	return time.Duration(cfg.MaxGenerationRetries)*perAttempt + backoff + 30*time.Second
}
