package testhelpers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"github.com/landsearch-microservice/internal/domain"
)

// InsertApprovedParcel inserts a parcel document into the approved table
// and returns its row id
func InsertApprovedParcel(db *sql.DB, userID string, owners []string, parcel *domain.ProcessedParcel) (string, error) {
	raw, err := json.Marshal(parcel)
	if err != nil {
		return "", fmt.Errorf("encode parcel: %w", err)
	}
	return InsertApprovedJSON(db, userID, owners, string(raw))
}

// InsertApprovedJSON inserts a raw document into the approved table,
// useful for seeding rows the loaders should tolerate or skip
func InsertApprovedJSON(db *sql.DB, userID string, owners []string, raw string) (string, error) {
	if owners == nil {
		owners = []string{}
	}

	var rowID int64
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO land_parcels (user_id, owners, data) VALUES ($1, $2, $3) RETURNING id`,
		userID, pq.Array(owners), raw,
	).Scan(&rowID)
	if err != nil {
		return "", fmt.Errorf("insert approved parcel: %w", err)
	}
	return strconv.FormatInt(rowID, 10), nil
}

// InsertStagingParcel inserts a parcel document into the staging table
// and returns its row id
func InsertStagingParcel(db *sql.DB, userID, uploadID, fileName string, status int, parcel *domain.ProcessedParcel) (string, error) {
	raw, err := json.Marshal(parcel)
	if err != nil {
		return "", fmt.Errorf("encode parcel: %w", err)
	}

	var rowID int64
	err = db.QueryRowContext(context.Background(),
		`INSERT INTO land_parcels_staging (user_id, file_name, status, upload_id, data)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		userID, fileName, status, uploadID, raw,
	).Scan(&rowID)
	if err != nil {
		return "", fmt.Errorf("insert staging parcel: %w", err)
	}
	return strconv.FormatInt(rowID, 10), nil
}

// CountStagingRows returns the number of staging rows with the given id
func CountStagingRows(db *sql.DB, id string) (int, error) {
	var count int
	err := db.QueryRowContext(context.Background(),
		`SELECT count(*) FROM land_parcels_staging WHERE id::text = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count staging rows: %w", err)
	}
	return count, nil
}
