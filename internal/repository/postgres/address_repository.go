package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/address-tiles/internal/domain"
	"github.com/address-tiles/internal/domain/repository"
	"github.com/address-tiles/internal/pkg/errors"
)

const addressColumns = `
	id, bal_id, voie_id, numero, suffixe, positions, tiles, updated_at, deleted_at`

type addressRow struct {
	ID        uuid.UUID      `db:"id"`
	BalID     uuid.UUID      `db:"bal_id"`
	StreetID  uuid.UUID      `db:"voie_id"`
	Number    int            `db:"numero"`
	Suffix    *string        `db:"suffixe"`
	Positions []byte         `db:"positions"`
	Tiles     pq.StringArray `db:"tiles"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

func (row *addressRow) toDomain() (*domain.AddressPoint, error) {
	positions, err := decodePositions(row.Positions)
	if err != nil {
		return nil, err
	}

	return &domain.AddressPoint{
		ID:        row.ID,
		BalID:     row.BalID,
		StreetID:  row.StreetID,
		Number:    row.Number,
		Suffix:    row.Suffix,
		Positions: positions,
		Tiles:     tileSetFromArray(row.Tiles),
		UpdatedAt: row.UpdatedAt,
		DeletedAt: row.DeletedAt,
	}, nil
}

type addressRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAddressRepository(db *DB) repository.AddressRepository {
	return &addressRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *addressRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AddressPoint, error) {
	query := `SELECT ` + addressColumns + `
		FROM numeros
		WHERE id = $1 AND deleted_at IS NULL`

	var row addressRow
	err := r.db.GetContext(ctx, &row, query, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrAddressNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get address by ID", zap.String("numero_id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	addr, err := row.toDomain()
	if err != nil {
		r.logger.Error("Failed to decode positions", zap.String("numero_id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return addr, nil
}

func (r *addressRepository) ListByStreet(ctx context.Context, streetID uuid.UUID) ([]*domain.AddressPoint, error) {
	query := `SELECT ` + addressColumns + `
		FROM numeros
		WHERE voie_id = $1 AND deleted_at IS NULL
		ORDER BY numero, suffixe NULLS FIRST, id`

	var rows []addressRow
	if err := r.db.SelectContext(ctx, &rows, query, streetID); err != nil {
		r.logger.Error("Failed to list addresses of street", zap.String("street_id", streetID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	addrs := make([]*domain.AddressPoint, 0, len(rows))
	for i := range rows {
		addr, err := rows[i].toDomain()
		if err != nil {
			r.logger.Warn("Failed to decode positions, skipping",
				zap.String("numero_id", rows[i].ID.String()),
				zap.Error(err))
			continue
		}
		addrs = append(addrs, addr)
	}

	return addrs, nil
}

func (r *addressRepository) UpdateTiles(ctx context.Context, id uuid.UUID, tiles domain.TileSet) error {
	query := `
		UPDATE numeros
		SET tiles = $2,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, tileArray(tiles))
	if err != nil {
		r.logger.Error("Failed to update address tiles", zap.String("numero_id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return errors.ErrAddressNotFound
	}

	return nil
}
