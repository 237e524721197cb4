package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/domain/repository"
	"github.com/landsearch-microservice/internal/pkg/errors"
)

type parcelRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewParcelRepository creates a new ParcelRepository over the parcel
// and staging tables
func NewParcelRepository(db *DB) repository.ParcelRepository {
	return &parcelRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// List returns every approved parcel. Rows whose document no longer
// unmarshals are skipped, not fatal.
func (r *parcelRepository) List(ctx context.Context) ([]*domain.ProcessedParcel, error) {
	query := `SELECT id, data FROM land_parcels ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list parcels", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collectApproved(rows)
}

// ListByUser returns approved parcels stored by one user
func (r *parcelRepository) ListByUser(ctx context.Context, userID string) ([]*domain.ProcessedParcel, error) {
	query := `SELECT id, data FROM land_parcels WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list parcels by user", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collectApproved(rows)
}

// ListByOwner returns approved parcels whose owners include the name
func (r *parcelRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.ProcessedParcel, error) {
	query := `SELECT id, data FROM land_parcels WHERE $1 = ANY(owners) ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		r.logger.Error("Failed to list parcels by owner", zap.String("owner", owner), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collectApproved(rows)
}

// ListStaging returns staging rows by status, optionally narrowed to a
// user and an upload session. Staging parcels always answer to their
// row id.
func (r *parcelRepository) ListStaging(ctx context.Context, userID, uploadID string, status int) ([]*domain.ProcessedParcel, error) {
	query := `SELECT id, data FROM land_parcels_staging WHERE status = $1`
	args := []interface{}{status}

	if userID != "" {
		args = append(args, userID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if uploadID != "" {
		args = append(args, uploadID)
		query += ` AND upload_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list staging parcels",
			zap.String("user_id", userID),
			zap.String("upload_id", uploadID),
			zap.Int("status", status),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collectStaging(rows)
}

// GetByID returns one approved parcel by row id or embedded document id
func (r *parcelRepository) GetByID(ctx context.Context, id string) (*domain.ProcessedParcel, error) {
	query := `SELECT id, data FROM land_parcels WHERE id::text = $1 OR data->>'id' = $1 LIMIT 1`

	var rowID int64
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rowID, &raw)
	if err == sql.ErrNoRows {
		return nil, errors.ErrParcelNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get parcel", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	parcel, err := decodeParcel(raw, rowID, false)
	if err != nil {
		r.logger.Error("Failed to decode parcel", zap.Int64("row_id", rowID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return parcel, nil
}

// Store inserts an approved parcel and drops its staging row in the
// same transaction, so an approval can never duplicate a document
func (r *parcelRepository) Store(ctx context.Context, parcel *domain.ProcessedParcel, userID string) (string, error) {
	raw, err := json.Marshal(parcel)
	if err != nil {
		r.logger.Error("Failed to encode parcel", zap.Error(err))
		return "", errors.ErrInternalServer
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return "", errors.ErrDatabaseError
	}
	defer tx.Rollback()

	if parcel.ID != "" {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM land_parcels_staging WHERE id::text = $1`, parcel.ID); err != nil {
			r.logger.Error("Failed to remove staging row", zap.String("id", parcel.ID), zap.Error(err))
			return "", errors.ErrDatabaseError
		}
	}

	var rowID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO land_parcels (user_id, owners, data) VALUES ($1, $2, $3) RETURNING id`,
		userID, pq.Array(parcelOwners(parcel)), raw,
	).Scan(&rowID)
	if err != nil {
		r.logger.Error("Failed to insert parcel", zap.Error(err))
		return "", errors.ErrDatabaseError
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit parcel store", zap.Error(err))
		return "", errors.ErrDatabaseError
	}

	return strconv.FormatInt(rowID, 10), nil
}

// StoreStaging inserts a freshly processed upload into the staging table
func (r *parcelRepository) StoreStaging(ctx context.Context, parcel *domain.ProcessedParcel, userID, uploadID, fileName string, status int) (string, error) {
	raw, err := json.Marshal(parcel)
	if err != nil {
		r.logger.Error("Failed to encode staging parcel", zap.Error(err))
		return "", errors.ErrInternalServer
	}

	var rowID int64
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO land_parcels_staging (user_id, file_name, status, upload_id, data)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		userID, fileName, status, uploadID, raw,
	).Scan(&rowID)
	if err != nil {
		r.logger.Error("Failed to insert staging parcel",
			zap.String("upload_id", uploadID),
			zap.Error(err))
		return "", errors.ErrDatabaseError
	}

	return strconv.FormatInt(rowID, 10), nil
}

// Update replaces the document of an approved parcel
func (r *parcelRepository) Update(ctx context.Context, parcel *domain.ProcessedParcel) error {
	raw, err := json.Marshal(parcel)
	if err != nil {
		r.logger.Error("Failed to encode parcel", zap.Error(err))
		return errors.ErrInternalServer
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE land_parcels
		 SET data = $2, owners = $3, updated_at = now()
		 WHERE id::text = $1 OR data->>'id' = $1`,
		parcel.ID, raw, pq.Array(parcelOwners(parcel)),
	)
	if err != nil {
		r.logger.Error("Failed to update parcel", zap.String("id", parcel.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return r.requireRow(res, parcel.ID)
}

// UpdateStaging replaces the document of a staging parcel
func (r *parcelRepository) UpdateStaging(ctx context.Context, parcel *domain.ProcessedParcel) error {
	raw, err := json.Marshal(parcel)
	if err != nil {
		r.logger.Error("Failed to encode staging parcel", zap.Error(err))
		return errors.ErrInternalServer
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE land_parcels_staging SET data = $2, updated_at = now() WHERE id::text = $1`,
		parcel.ID, raw,
	)
	if err != nil {
		r.logger.Error("Failed to update staging parcel", zap.String("id", parcel.ID), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return r.requireRow(res, parcel.ID)
}

// Delete removes an approved parcel by row id or embedded document id
func (r *parcelRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM land_parcels WHERE id::text = $1 OR data->>'id' = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete parcel", zap.String("id", id), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return r.requireRow(res, id)
}

// DeleteStaging removes a staging parcel
func (r *parcelRepository) DeleteStaging(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM land_parcels_staging WHERE id::text = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete staging parcel", zap.String("id", id), zap.Error(err))
		return errors.ErrDatabaseError
	}
	return r.requireRow(res, id)
}

func (r *parcelRepository) requireRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to read affected rows", zap.Error(err))
		return errors.ErrDatabaseError
	}
	if affected == 0 {
		return errors.ErrParcelNotFound.WithDetails(map[string]interface{}{
			"id": id,
		})
	}
	return nil
}

func (r *parcelRepository) collectApproved(rows *sql.Rows) ([]*domain.ProcessedParcel, error) {
	return r.collect(rows, false)
}

func (r *parcelRepository) collectStaging(rows *sql.Rows) ([]*domain.ProcessedParcel, error) {
	return r.collect(rows, true)
}

func (r *parcelRepository) collect(rows *sql.Rows, forceRowID bool) ([]*domain.ProcessedParcel, error) {
	parcels := make([]*domain.ProcessedParcel, 0)
	for rows.Next() {
		var rowID int64
		var raw []byte
		if err := rows.Scan(&rowID, &raw); err != nil {
			r.logger.Error("Failed to scan parcel row", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}

		parcel, err := decodeParcel(raw, rowID, forceRowID)
		if err != nil {
			r.logger.Warn("Skipping undecodable parcel row",
				zap.Int64("row_id", rowID),
				zap.Error(err))
			continue
		}
		parcels = append(parcels, parcel)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed while iterating parcel rows", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return parcels, nil
}

// decodeParcel unmarshals a stored document. Approved rows keep the id
// embedded in the document when present; staging rows always take the
// row id, which is what review and approval key on.
func decodeParcel(raw []byte, rowID int64, forceRowID bool) (*domain.ProcessedParcel, error) {
	var parcel domain.ProcessedParcel
	if err := json.Unmarshal(raw, &parcel); err != nil {
		return nil, err
	}
	if forceRowID || parcel.ID == "" {
		parcel.ID = strconv.FormatInt(rowID, 10)
	}
	return &parcel, nil
}

func parcelOwners(parcel *domain.ProcessedParcel) []string {
	if parcel.PlotInfo == nil || parcel.PlotInfo.Owners == nil {
		return []string{}
	}
	return parcel.PlotInfo.Owners
}
