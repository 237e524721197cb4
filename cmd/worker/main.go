package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/config"
	"github.com/landsearch-microservice/internal/geometry"
	"github.com/landsearch-microservice/internal/pkg/logger"
	"github.com/landsearch-microservice/internal/repository/cache"
	"github.com/landsearch-microservice/internal/repository/memory"
	"github.com/landsearch-microservice/internal/repository/postgres"
	redisRepo "github.com/landsearch-microservice/internal/repository/redis"
	"github.com/landsearch-microservice/internal/usecase"
	"github.com/landsearch-microservice/internal/worker"
	"github.com/landsearch-microservice/internal/worker/parcel"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Parcel Processing Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	schemaCtx, schemaCancel := context.WithTimeout(ctx, 10*time.Second)
	defer schemaCancel()
	if err := db.EnsureSchema(schemaCtx); err != nil {
		log.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	// 4. Connect to Redis. The stream consumer blocks on reads, so it
	// gets its own client next to the cache one.
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	streamClient, err := cache.NewRedisStreams(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis streams", zap.Error(err))
	}
	defer func() {
		if err := streamClient.Close(); err != nil {
			log.Error("Failed to close Redis streams connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	parcelRepo := postgres.NewParcelRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(streamClient, log)
	recentParcels := memory.NewRecentParcels(cfg.Cache.RecentParcels)
	stagingRecent := memory.NewRecentParcels(cfg.Cache.StagingParcels)

	// 6. Initialize geometry components
	converter, err := geometry.NewGridConverter(cfg.Geo.SourceCRS, cfg.Geo.TargetCRS)
	if err != nil {
		log.Fatal("Failed to initialize coordinate transformation", zap.Error(err))
	}
	defer converter.Close()

	matcher, err := geometry.NewReferenceNameMatcher(cfg.Geo.ReferenceNamePattern)
	if err != nil {
		log.Fatal("Failed to compile reference name pattern", zap.Error(err))
	}

	// 7. Initialize use cases
	builderUC := usecase.NewParcelBuilderUseCase(converter, matcher, log)
	parcelUC := usecase.NewParcelUseCase(
		parcelRepo,
		recentParcels,
		stagingRecent,
		cacheRepo,
		builderUC,
		log,
	)

	// 8. Initialize workers
	processingWorker := parcel.NewProcessingWorker(
		streamRepo,
		parcelUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)

	// 9. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(processingWorker)

	// 10. Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Cancel context to stop workers
	cancel()

	// Stop worker manager
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
