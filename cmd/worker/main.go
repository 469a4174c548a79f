package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/address-tiles/internal/config"
	"github.com/address-tiles/internal/pkg/logger"
	"github.com/address-tiles/internal/repository/cache"
	"github.com/address-tiles/internal/repository/postgres"
	redisRepo "github.com/address-tiles/internal/repository/redis"
	"github.com/address-tiles/internal/usecase"
	"github.com/address-tiles/internal/worker"
	"github.com/address-tiles/internal/worker/tiles"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "address-tiles-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Tiles Recompute Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_batch_size", cfg.Worker.MaxBatchSize),
		zap.Duration("stream_read_timeout", cfg.Worker.StreamReadTimeout),
		zap.Int("batch_concurrency", cfg.Tiles.BatchConcurrency))

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

	// 4. Connect to Redis: один клиент для кеша и стримов
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	streetRepo := postgres.NewStreetRepository(db)
	addressRepo := postgres.NewAddressRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)

	// 6. Initialize use cases
	tileUC, err := usecase.NewTileUseCase(
		streetRepo,
		addressRepo,
		cacheRepo,
		log,
		cfg.Tiles.Zoom,
		cfg.Tiles.BatchConcurrency,
		cfg.Cache.TilesCacheTTL,
	)
	if err != nil {
		log.Fatal("Failed to initialize tile use case", zap.Error(err))
	}

	// 7. Initialize workers
	recomputeWorker := tiles.NewRecomputeWorker(
		streamRepo,
		tileUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxBatchSize,
		log,
	)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(recomputeWorker)

	// 8. Run until signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
