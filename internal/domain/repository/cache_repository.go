package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/address-tiles/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetStreetTiles получает тайлы улицы из кеша, nil при промахе
	GetStreetTiles(ctx context.Context, streetID uuid.UUID) (*domain.StreetTiles, error)

	// SetStreetTiles сохраняет тайлы улицы в кеше
	SetStreetTiles(ctx context.Context, streetID uuid.UUID, tiles *domain.StreetTiles, ttl time.Duration) error

	// DeleteStreetTiles инвалидирует тайлы улицы
	DeleteStreetTiles(ctx context.Context, streetID uuid.UUID) error
}
