package main

// @title Address Tiles API
// @version 1.0.0
// @description Покрытие адресов и улиц тайлами z/x/y (Web-Mercator) и пересчет производных данных BAL.
// @description
// @description Основные возможности:
// @description - Покрытие произвольной точки и линии тайлами
// @description - Пересчет тайлов адресной точки и ее улицы
// @description - Пакетный пересчет улиц и всех улиц BAL
// @description - Чтение сохраненных тайлов улицы через кеш

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/address-tiles/docs"
	"github.com/address-tiles/internal/config"
	httpDelivery "github.com/address-tiles/internal/delivery/http"
	"github.com/address-tiles/internal/delivery/http/handler"
	"github.com/address-tiles/internal/pkg/logger"
	"github.com/address-tiles/internal/repository/cache"
	"github.com/address-tiles/internal/repository/postgres"
	"github.com/address-tiles/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "address-tiles-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Address Tiles API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Int("point_min_zoom", cfg.Tiles.Zoom.Point.MinZoom),
		zap.Int("point_max_zoom", cfg.Tiles.Zoom.Point.MaxZoom),
		zap.Int("trace_zoom", cfg.Tiles.Zoom.Trace.Zoom),
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

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Repositories
	streetRepo := postgres.NewStreetRepository(db)
	addressRepo := postgres.NewAddressRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	// 7. Use cases
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

	// 8. HTTP
	tileHandler := handler.NewTileHandler(tileUC, log)

	server := httpDelivery.NewServer(cfg, log, tileHandler, map[string]httpDelivery.HealthChecker{
		"postgres": db,
		"redis":    redisClient,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
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
