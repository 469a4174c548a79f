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

const streetColumns = `
	id, bal_id, nom, type_numerotation, trace, centroid,
	centroid_tiles, trace_tiles, updated_at, deleted_at`

type streetRow struct {
	ID            uuid.UUID      `db:"id"`
	BalID         uuid.UUID      `db:"bal_id"`
	Name          string         `db:"nom"`
	NumberingMode string         `db:"type_numerotation"`
	Trace         []byte         `db:"trace"`
	Centroid      []byte         `db:"centroid"`
	CentroidTiles pq.StringArray `db:"centroid_tiles"`
	TraceTiles    pq.StringArray `db:"trace_tiles"`
	UpdatedAt     time.Time      `db:"updated_at"`
	DeletedAt     *time.Time     `db:"deleted_at"`
}

func (row *streetRow) toDomain() (*domain.Street, error) {
	trace, err := decodeLine(row.Trace)
	if err != nil {
		return nil, err
	}
	centroid, err := decodePoint(row.Centroid)
	if err != nil {
		return nil, err
	}

	return &domain.Street{
		ID:            row.ID,
		BalID:         row.BalID,
		Name:          row.Name,
		NumberingMode: domain.NumberingMode(row.NumberingMode),
		Trace:         trace,
		StreetTiles: domain.StreetTiles{
			Centroid:      centroid,
			CentroidTiles: tileSetFromArray(row.CentroidTiles),
			TraceTiles:    tileSetFromArray(row.TraceTiles),
		},
		UpdatedAt: row.UpdatedAt,
		DeletedAt: row.DeletedAt,
	}, nil
}

type streetRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewStreetRepository(db *DB) repository.StreetRepository {
	return &streetRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *streetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Street, error) {
	query := `SELECT ` + streetColumns + `
		FROM voies
		WHERE id = $1 AND deleted_at IS NULL`

	var row streetRow
	err := r.db.GetContext(ctx, &row, query, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrStreetNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get street by ID", zap.String("street_id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	street, err := row.toDomain()
	if err != nil {
		r.logger.Error("Failed to decode street geometry", zap.String("street_id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return street, nil
}

func (r *streetRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Street, error) {
	if len(ids) == 0 {
		return []*domain.Street{}, nil
	}

	query := `SELECT ` + streetColumns + `
		FROM voies
		WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL
		ORDER BY nom`

	var rows []streetRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(uuidStrings(ids))); err != nil {
		r.logger.Error("Failed to get streets by IDs", zap.Int("count", len(ids)), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	streets := make([]*domain.Street, 0, len(rows))
	for i := range rows {
		street, err := rows[i].toDomain()
		if err != nil {
			// Битая геометрия одной улицы не должна ломать выборку
			r.logger.Warn("Failed to decode street geometry, skipping",
				zap.String("street_id", rows[i].ID.String()),
				zap.Error(err))
			continue
		}
		streets = append(streets, street)
	}

	return streets, nil
}

func (r *streetRepository) ListIDsByBal(ctx context.Context, balID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM voies
		WHERE bal_id = $1 AND deleted_at IS NULL
		ORDER BY nom`

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, balID); err != nil {
		r.logger.Error("Failed to list streets of BAL", zap.String("bal_id", balID.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return ids, nil
}

func (r *streetRepository) UpdateTiles(ctx context.Context, id uuid.UUID, tiles domain.StreetTiles) error {
	centroid, err := encodePoint(tiles.Centroid)
	if err != nil {
		r.logger.Error("Failed to encode centroid", zap.String("street_id", id.String()), zap.Error(err))
		return errors.ErrInternalServer
	}

	query := `
		UPDATE voies
		SET centroid = $2,
			centroid_tiles = $3,
			trace_tiles = $4,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id,
		nullableJSON(centroid),
		tileArray(tiles.CentroidTiles),
		tileArray(tiles.TraceTiles),
	)
	if err != nil {
		r.logger.Error("Failed to update street tiles", zap.String("street_id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return errors.ErrStreetNotFound
	}

	return nil
}
