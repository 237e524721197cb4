package postgres

import (
	"context"
	"fmt"
)

// Parcel documents are stored as JSONB; owners are lifted into an
// array column so ownership lookups stay indexable.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS land_parcels (
		id         SERIAL PRIMARY KEY,
		user_id    TEXT NOT NULL DEFAULT '',
		owners     TEXT[] NOT NULL DEFAULT '{}',
		data       JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS land_parcels_staging (
		id         SERIAL PRIMARY KEY,
		user_id    TEXT NOT NULL DEFAULT '',
		file_name  TEXT NOT NULL DEFAULT '',
		status     INTEGER NOT NULL DEFAULT 1,
		upload_id  TEXT NOT NULL DEFAULT '',
		data       JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_land_parcels_user_id ON land_parcels (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_land_parcels_owners ON land_parcels USING GIN (owners)`,
	`CREATE INDEX IF NOT EXISTS idx_land_parcels_staging_user_id ON land_parcels_staging (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_land_parcels_staging_upload ON land_parcels_staging (upload_id, status)`,
}

// EnsureSchema creates the parcel tables and indexes if they are
// missing. Safe to run on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	db.logger.Info("Database schema ensured")
	return nil
}
