package main

// @title LandSearch Microservice API
// @version 1.0.0
// @description Microservice for Ghana site plan geometry and search. Converts surveyed grid coordinates to WGS84, assembles parcel boundary measurements into polygon rings, and answers overlap, radius and exact coordinate queries across the stored corpus.
// @description
// @description Main capabilities:
// @description - Process raw extraction output into reviewable site plans
// @description - Stage, approve and manage the stored plan corpus
// @description - Search site plans by polygon overlap, radius or exact points
// @description - Export plan geometry as GeoJSON for map clients

// @contact.name API Support
// @contact.email support@landsearch-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/landsearch-microservice/docs"
	"github.com/landsearch-microservice/internal/config"
	httpDelivery "github.com/landsearch-microservice/internal/delivery/http"
	"github.com/landsearch-microservice/internal/delivery/http/handler"
	"github.com/landsearch-microservice/internal/geometry"
	"github.com/landsearch-microservice/internal/pkg/logger"
	"github.com/landsearch-microservice/internal/repository/cache"
	"github.com/landsearch-microservice/internal/repository/memory"
	"github.com/landsearch-microservice/internal/repository/postgres"
	"github.com/landsearch-microservice/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting LandSearch Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

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

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Ensure schema and check connections
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize repositories
	parcelRepo := postgres.NewParcelRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	recentParcels := memory.NewRecentParcels(cfg.Cache.RecentParcels)
	stagingRecent := memory.NewRecentParcels(cfg.Cache.StagingParcels)

	log.Info("Repositories initialized")

	// 7. Initialize geometry components
	converter, err := geometry.NewGridConverter(cfg.Geo.SourceCRS, cfg.Geo.TargetCRS)
	if err != nil {
		log.Fatal("Failed to initialize coordinate transformation", zap.Error(err))
	}
	defer converter.Close()

	matcher, err := geometry.NewReferenceNameMatcher(cfg.Geo.ReferenceNamePattern)
	if err != nil {
		log.Fatal("Failed to compile reference name pattern", zap.Error(err))
	}

	engine := geometry.NewEngine(log, cfg.Geo.ExactMatchTolerance)

	// 8. Initialize use cases
	builderUC := usecase.NewParcelBuilderUseCase(converter, matcher, log)

	parcelUC := usecase.NewParcelUseCase(
		parcelRepo,
		recentParcels,
		stagingRecent,
		cacheRepo,
		builderUC,
		log,
	)

	searchUC := usecase.NewSearchUseCase(
		parcelRepo,
		recentParcels,
		cacheRepo,
		engine,
		log,
		cfg.Cache.SearchCacheTTL,
		cfg.Geo.DefaultSearchRadius,
	)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP handlers
	searchHandler := handler.NewSearchHandler(searchUC, log)
	parcelHandler := handler.NewParcelHandler(parcelUC, log)

	// 10. Initialize HTTP server
	server := httpDelivery.NewServer(cfg, log, searchHandler, parcelHandler)

	log.Info("HTTP server initialized")

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
