package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/address-tiles/internal/domain"
)

// StreetRepository определяет методы для работы с улицами (voies)
type StreetRepository interface {
	// GetByID возвращает не удаленную улицу по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Street, error)

	// GetByIDs возвращает не удаленные улицы; отсутствующие ID пропускаются
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Street, error)

	// ListIDsByBal возвращает ID всех не удаленных улиц адресной базы
	ListIDsByBal(ctx context.Context, balID uuid.UUID) ([]uuid.UUID, error)

	// UpdateTiles перезаписывает производные данные улицы целиком
	UpdateTiles(ctx context.Context, id uuid.UUID, tiles domain.StreetTiles) error
}
