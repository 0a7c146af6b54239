package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/temminks/fantastic-umbrella/config"
	"github.com/temminks/fantastic-umbrella/internal/catalog"
	"github.com/temminks/fantastic-umbrella/internal/snapshot"
	"github.com/temminks/fantastic-umbrella/internal/source"
	"github.com/temminks/fantastic-umbrella/logger"
	"github.com/temminks/fantastic-umbrella/services/cache"
	"github.com/temminks/fantastic-umbrella/services/publisher"
	"github.com/temminks/fantastic-umbrella/services/worker"
)

// catalogTimeout bounds every request of one enrichment batch
const catalogTimeout = 40 * time.Second

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("run_interval", cfg.RunInterval).
		Str("snapshot_dir", cfg.SnapshotDir).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	var pub publisher.Publisher
	if cfg.PublishEnabled {
		redisPublisher := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMax,
		)
		defer redisPublisher.Close()
		pub = redisPublisher

		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	// Create course sources
	sources := source.CreateSources(&cfg, cacheService)
	log.Info().
		Int("source_count", len(sources)).
		Msg("Created course sources")

	// Create the enrichment and persistence stages
	enricher := catalog.NewEnricher(cfg.CatalogBaseURL, catalogTimeout)
	enricher.Progress = func(parsed int) {
		logger.ForEnricher().Info().Int("parsed", parsed).Msg("parsed courses")
	}
	store := snapshot.NewStore(cfg.SnapshotDir)

	// Create and start worker
	w := worker.NewWorker(
		ctx,
		sources,
		enricher,
		store,
		pub,
		cfg.RunInterval,
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting course grabber worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}
