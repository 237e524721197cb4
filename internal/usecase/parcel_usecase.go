package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/domain/repository"
	"github.com/landsearch-microservice/internal/geometry"
	"github.com/landsearch-microservice/internal/pkg/errors"
	"github.com/landsearch-microservice/internal/pkg/metrics"
	"github.com/landsearch-microservice/internal/usecase/dto"
)

// ParcelUseCase - use case for the site plan lifecycle: processing raw
// extraction output, staging, approval, updates and deletion
type ParcelUseCase struct {
	parcelRepo    repository.ParcelRepository
	recentRepo    repository.RecentParcelsRepository
	stagingRecent repository.RecentParcelsRepository
	cacheRepo     repository.CacheRepository
	builder       *ParcelBuilderUseCase
	logger        *zap.Logger
}

// NewParcelUseCase - creates a new ParcelUseCase. recentRepo buffers
// approved parcels for search, stagingRecent buffers freshly processed
// uploads awaiting review.
func NewParcelUseCase(
	parcelRepo repository.ParcelRepository,
	recentRepo repository.RecentParcelsRepository,
	stagingRecent repository.RecentParcelsRepository,
	cacheRepo repository.CacheRepository,
	builder *ParcelBuilderUseCase,
	logger *zap.Logger,
) *ParcelUseCase {
	return &ParcelUseCase{
		parcelRepo:    parcelRepo,
		recentRepo:    recentRepo,
		stagingRecent: stagingRecent,
		cacheRepo:     cacheRepo,
		builder:       builder,
		logger:        logger,
	}
}

// ListAll - returns approved parcels, optionally narrowed to one user
func (uc *ParcelUseCase) ListAll(ctx context.Context, userID string) (*dto.ParcelListResponse, error) {
	var (
		parcels []*domain.ProcessedParcel
		err     error
	)
	if userID == "" {
		parcels, err = uc.parcelRepo.List(ctx)
	} else {
		parcels, err = uc.parcelRepo.ListByUser(ctx, userID)
	}
	if err != nil {
		uc.logger.Error("Failed to list parcels", zap.Error(err))
		return nil, err
	}
	return listResponse(parcels), nil
}

// ListByOwner - returns approved parcels whose owners include the name
func (uc *ParcelUseCase) ListByOwner(ctx context.Context, owner string) (*dto.ParcelListResponse, error) {
	if owner == "" {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "owner is required",
		})
	}
	parcels, err := uc.parcelRepo.ListByOwner(ctx, owner)
	if err != nil {
		uc.logger.Error("Failed to list parcels by owner", zap.Error(err))
		return nil, err
	}
	return listResponse(parcels), nil
}

// ListUnapproved - returns staged parcels awaiting review for a user,
// optionally narrowed to one upload session
func (uc *ParcelUseCase) ListUnapproved(ctx context.Context, userID, uploadID string) (*dto.ParcelListResponse, error) {
	parcels, err := uc.parcelRepo.ListStaging(ctx, userID, uploadID, domain.ParcelStatusUnprocessed)
	if err != nil {
		uc.logger.Error("Failed to list unapproved parcels", zap.Error(err))
		return nil, err
	}
	return listResponse(parcels), nil
}

// ListFailed - returns uploads whose processing failed
func (uc *ParcelUseCase) ListFailed(ctx context.Context, userID string) (*dto.ParcelListResponse, error) {
	parcels, err := uc.parcelRepo.ListStaging(ctx, userID, "", domain.ParcelStatusFailed)
	if err != nil {
		uc.logger.Error("Failed to list failed uploads", zap.Error(err))
		return nil, err
	}
	return listResponse(parcels), nil
}

// Get - returns one approved parcel by id
func (uc *ParcelUseCase) Get(ctx context.Context, id string) (*dto.ParcelDTO, error) {
	parcel, err := uc.parcelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ConvertParcel(parcel)
	return &out, nil
}

// GeoJSON - renders the ring of an approved parcel as a GeoJSON
// Feature document for map clients
func (uc *ParcelUseCase) GeoJSON(ctx context.Context, id string) ([]byte, error) {
	parcel, err := uc.parcelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	feature, err := geometry.ParcelFeature(parcel)
	if err != nil {
		return nil, errors.ErrInsufficientPoints.WithDetails(map[string]interface{}{
			"parcel_id": id,
		})
	}

	raw, err := feature.MarshalJSON()
	if err != nil {
		uc.logger.Error("Failed to marshal parcel feature",
			zap.String("parcel_id", id),
			zap.Error(err))
		return nil, errors.ErrInternalServer
	}
	return raw, nil
}

// Process - converts one raw extraction document into a processed
// parcel. On success the parcel is staged for review; on failure a
// placeholder row carrying the file name is staged instead so the
// upload shows up in the failed list.
func (uc *ParcelUseCase) Process(ctx context.Context, req dto.ProcessRequest) (*dto.ProcessResponse, error) {
	parcel, skipped, err := uc.builder.Build(req.Document)
	if err != nil {
		metrics.ParcelsProcessedTotal.WithLabelValues("failed").Inc()
		uc.logger.Error("Failed to process document",
			zap.String("file_name", req.FileName),
			zap.String("upload_id", req.UploadID),
			zap.Error(err))

		if req.ShouldStore() {
			placeholder := failedParcel(req.FileName)
			if _, storeErr := uc.parcelRepo.StoreStaging(ctx, placeholder, req.UserID, req.UploadID, req.FileName, domain.ParcelStatusFailed); storeErr != nil {
				uc.logger.Error("Failed to record failed upload", zap.Error(storeErr))
			}
		}
		return nil, err
	}

	metrics.ParcelsProcessedTotal.WithLabelValues("processed").Inc()

	stored := false
	if req.ShouldStore() {
		id, storeErr := uc.parcelRepo.StoreStaging(ctx, parcel, req.UserID, req.UploadID, req.FileName, domain.ParcelStatusUnprocessed)
		if storeErr != nil {
			uc.logger.Error("Failed to stage processed parcel", zap.Error(storeErr))
			return nil, storeErr
		}
		parcel.ID = id
		uc.stagingRecent.Append(parcel)
		stored = true
	}

	return &dto.ProcessResponse{
		Parcel:        dto.ConvertParcel(parcel),
		SkippedPoints: dto.ConvertSkippedPoints(skipped),
		Stored:        stored,
	}, nil
}

// Recompute - reconverts a parcel's coordinates from its grid values
// and rebuilds the ring. The result is returned for review only; the
// stored document is left untouched.
func (uc *ParcelUseCase) Recompute(ctx context.Context, id string, parcel *domain.ProcessedParcel, removeReference bool) (*dto.RecomputeResponse, error) {
	if parcel == nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "parcel body is required",
		})
	}
	if parcel.ID == "" {
		parcel.ID = id
	}

	out, skipped, err := uc.builder.Recompute(parcel, removeReference)
	if err != nil {
		uc.logger.Error("Failed to recompute parcel coordinates",
			zap.String("parcel_id", parcel.ID),
			zap.Error(err))
		return nil, err
	}

	return &dto.RecomputeResponse{
		Parcel:        dto.ConvertParcel(out),
		SkippedPoints: dto.ConvertSkippedPoints(skipped),
	}, nil
}

// Approve - moves a reviewed parcel from staging into the approved
// table. The staging row with the same id is removed in the same
// transaction.
func (uc *ParcelUseCase) Approve(ctx context.Context, parcel *domain.ProcessedParcel, userID string) (*dto.StoreResponse, error) {
	if parcel == nil {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "parcel body is required",
		})
	}

	id, err := uc.parcelRepo.Store(ctx, parcel, userID)
	if err != nil {
		uc.logger.Error("Failed to approve parcel", zap.Error(err))
		return nil, err
	}

	uc.invalidate(ctx)
	uc.stagingRecent.Clear()

	uc.logger.Info("Parcel approved",
		zap.String("parcel_id", id),
		zap.String("user_id", userID))

	return &dto.StoreResponse{ID: id}, nil
}

// StoreBulk - stores a batch of parcels as approved in one call
func (uc *ParcelUseCase) StoreBulk(ctx context.Context, parcels []*domain.ProcessedParcel, userID string) (*dto.BulkStoreResponse, error) {
	if len(parcels) == 0 {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "at least one parcel is required",
		})
	}

	ids := make([]string, 0, len(parcels))
	for _, p := range parcels {
		if p == nil {
			continue
		}
		id, err := uc.parcelRepo.Store(ctx, p, userID)
		if err != nil {
			uc.logger.Error("Failed to store parcel in bulk",
				zap.Int("stored_so_far", len(ids)),
				zap.Error(err))
			return nil, err
		}
		ids = append(ids, id)
	}

	uc.invalidate(ctx)

	return &dto.BulkStoreResponse{IDs: ids, Total: len(ids)}, nil
}

// Update - replaces the stored document of an approved parcel
func (uc *ParcelUseCase) Update(ctx context.Context, id string, parcel *domain.ProcessedParcel) error {
	if parcel == nil {
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "parcel body is required",
		})
	}
	if parcel.ID == "" {
		parcel.ID = id
	}

	if err := uc.parcelRepo.Update(ctx, parcel); err != nil {
		uc.logger.Error("Failed to update parcel", zap.String("parcel_id", parcel.ID), zap.Error(err))
		return err
	}

	uc.invalidate(ctx)
	return nil
}

// UpdateStaging - replaces the stored document of a staging parcel
func (uc *ParcelUseCase) UpdateStaging(ctx context.Context, id string, parcel *domain.ProcessedParcel) error {
	if parcel == nil {
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "parcel body is required",
		})
	}
	if parcel.ID == "" {
		parcel.ID = id
	}

	if err := uc.parcelRepo.UpdateStaging(ctx, parcel); err != nil {
		uc.logger.Error("Failed to update staging parcel", zap.String("parcel_id", parcel.ID), zap.Error(err))
		return err
	}

	uc.stagingRecent.Clear()
	return nil
}

// Delete - removes a parcel. unapproved selects the staging table.
func (uc *ParcelUseCase) Delete(ctx context.Context, id string, unapproved bool) error {
	var err error
	if unapproved {
		err = uc.parcelRepo.DeleteStaging(ctx, id)
	} else {
		err = uc.parcelRepo.Delete(ctx, id)
	}
	if err != nil {
		uc.logger.Error("Failed to delete parcel",
			zap.String("parcel_id", id),
			zap.Bool("unapproved", unapproved),
			zap.Error(err))
		return err
	}

	if unapproved {
		uc.stagingRecent.Clear()
	} else {
		uc.invalidate(ctx)
	}
	return nil
}

// Metadata - collects the distinct attribute values across approved
// parcels for client filter dropdowns. Blank fields count as "Unknown".
func (uc *ParcelUseCase) Metadata(ctx context.Context) (*dto.MetadataResponse, error) {
	corpus := uc.recentRepo.Snapshot()
	if len(corpus) == 0 {
		parcels, err := uc.parcelRepo.List(ctx)
		if err != nil {
			uc.logger.Error("Failed to load parcels for metadata", zap.Error(err))
			return nil, err
		}
		uc.recentRepo.Append(parcels...)
		corpus = parcels
	}

	return &dto.MetadataResponse{Metadata: extractPlotMetadata(corpus)}, nil
}

// invalidate drops the caches that mirror the approved table
func (uc *ParcelUseCase) invalidate(ctx context.Context) {
	uc.recentRepo.Clear()
	if err := uc.cacheRepo.InvalidateSearches(ctx); err != nil {
		uc.logger.Warn("Failed to invalidate search cache", zap.Error(err))
	}
}

// extractPlotMetadata gathers sorted distinct values of the four
// filterable attributes
func extractPlotMetadata(parcels []*domain.ProcessedParcel) domain.PlotMetadata {
	regions := make(map[string]struct{})
	districts := make(map[string]struct{})
	localities := make(map[string]struct{})
	plotNumbers := make(map[string]struct{})

	for _, p := range parcels {
		if p == nil || p.PlotInfo == nil {
			continue
		}
		regions[orUnknown(p.PlotInfo.Region)] = struct{}{}
		districts[orUnknown(p.PlotInfo.District)] = struct{}{}
		localities[orUnknown(p.PlotInfo.Locality)] = struct{}{}
		plotNumbers[orUnknown(p.PlotInfo.PlotNumber)] = struct{}{}
	}

	return domain.PlotMetadata{
		Regions:     sortedKeys(regions),
		Districts:   sortedKeys(districts),
		Localities:  sortedKeys(localities),
		PlotNumbers: sortedKeys(plotNumbers),
	}
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// failedParcel builds the placeholder stored for an upload that could
// not be processed; the file name stands in for the plot number
func failedParcel(fileName string) *domain.ProcessedParcel {
	return &domain.ProcessedParcel{
		PlotInfo:       &domain.PlotInfo{PlotNumber: fileName},
		SurveyPoints:   []domain.SurveyPoint{},
		BoundaryPoints: []domain.BoundaryPoint{},
		PointList:      []domain.ConvertedCoords{},
	}
}

func listResponse(parcels []*domain.ProcessedParcel) *dto.ParcelListResponse {
	items := dto.ConvertParcels(parcels)
	return &dto.ParcelListResponse{Parcels: items, Total: len(items)}
}
