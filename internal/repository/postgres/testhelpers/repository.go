package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/address-tiles/internal/domain/repository"
	"github.com/address-tiles/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

func NewStreetRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.StreetRepository {
	return postgres.NewStreetRepository(NewDBForTest(db, logger))
}

func NewAddressRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.AddressRepository {
	return postgres.NewAddressRepository(NewDBForTest(db, logger))
}
