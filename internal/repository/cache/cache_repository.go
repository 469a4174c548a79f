package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/address-tiles/internal/domain"
	"github.com/address-tiles/internal/domain/repository"
)

const streetTilesKeyPrefix = "tiles:voie:"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func streetTilesKey(id uuid.UUID) string {
	return streetTilesKeyPrefix + id.String()
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// GetStreetTiles получает тайлы улицы из кеша
func (r *cacheRepository) GetStreetTiles(ctx context.Context, streetID uuid.UUID) (*domain.StreetTiles, error) {
	data, err := r.Get(ctx, streetTilesKey(streetID))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var tiles domain.StreetTiles
	if err := json.Unmarshal(data, &tiles); err != nil {
		r.logger.Error("Failed to unmarshal street tiles from cache",
			zap.String("street_id", streetID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("unmarshal street tiles: %w", err)
	}

	return &tiles, nil
}

// SetStreetTiles сохраняет тайлы улицы в кеше
func (r *cacheRepository) SetStreetTiles(ctx context.Context, streetID uuid.UUID, tiles *domain.StreetTiles, ttl time.Duration) error {
	data, err := json.Marshal(tiles)
	if err != nil {
		r.logger.Error("Failed to marshal street tiles", zap.Error(err))
		return fmt.Errorf("marshal street tiles: %w", err)
	}

	return r.Set(ctx, streetTilesKey(streetID), data, ttl)
}

func (r *cacheRepository) DeleteStreetTiles(ctx context.Context, streetID uuid.UUID) error {
	return r.Delete(ctx, streetTilesKey(streetID))
}
