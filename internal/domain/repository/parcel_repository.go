package repository

import (
	"context"

	"github.com/landsearch-microservice/internal/domain"
)

// ParcelRepository defines persistence for processed site plans.
// Approved parcels live in the main table; parcels awaiting review live
// in the staging table together with their upload bookkeeping.
type ParcelRepository interface {
	// List returns all approved parcels
	List(ctx context.Context) ([]*domain.ProcessedParcel, error)

	// ListByUser returns approved parcels stored by the given user
	ListByUser(ctx context.Context, userID string) ([]*domain.ProcessedParcel, error)

	// ListByOwner returns approved parcels whose plot owners include the name
	ListByOwner(ctx context.Context, owner string) ([]*domain.ProcessedParcel, error)

	// ListStaging returns staging parcels filtered by user, upload
	// session (empty = any) and status (ParcelStatusUnprocessed or
	// ParcelStatusFailed)
	ListStaging(ctx context.Context, userID, uploadID string, status int) ([]*domain.ProcessedParcel, error)

	// GetByID returns one approved parcel
	GetByID(ctx context.Context, id string) (*domain.ProcessedParcel, error)

	// Store inserts an approved parcel and removes its staging row if
	// one exists. Returns the storage id.
	Store(ctx context.Context, parcel *domain.ProcessedParcel, userID string) (string, error)

	// StoreStaging inserts a staging row for a freshly processed upload
	StoreStaging(ctx context.Context, parcel *domain.ProcessedParcel, userID, uploadID, fileName string, status int) (string, error)

	// Update replaces the document of an approved parcel
	Update(ctx context.Context, parcel *domain.ProcessedParcel) error

	// UpdateStaging replaces the document of a staging parcel
	UpdateStaging(ctx context.Context, parcel *domain.ProcessedParcel) error

	// Delete removes an approved parcel
	Delete(ctx context.Context, id string) error

	// DeleteStaging removes a staging parcel
	DeleteStaging(ctx context.Context, id string) error
}
