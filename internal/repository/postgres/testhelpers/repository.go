package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/landsearch-microservice/internal/domain/repository"
	"github.com/landsearch-microservice/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewParcelRepositoryForTest creates a parcel repository with test database and logger
func NewParcelRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ParcelRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewParcelRepository(pgDB)
}
