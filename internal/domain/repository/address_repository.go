package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/address-tiles/internal/domain"
)

// AddressRepository определяет методы для работы с адресными точками (numéros)
type AddressRepository interface {
	// GetByID возвращает не удаленную адресную точку по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AddressPoint, error)

	// ListByStreet возвращает не удаленные точки улицы в порядке номеров
	ListByStreet(ctx context.Context, streetID uuid.UUID) ([]*domain.AddressPoint, error)

	// UpdateTiles перезаписывает тайлы точки; nil очищает колонку
	UpdateTiles(ctx context.Context, id uuid.UUID, tiles domain.TileSet) error
}
