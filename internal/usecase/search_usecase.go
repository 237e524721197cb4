package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/domain/repository"
	"github.com/landsearch-microservice/internal/geometry"
	"github.com/landsearch-microservice/internal/pkg/errors"
	"github.com/landsearch-microservice/internal/pkg/metrics"
	"github.com/landsearch-microservice/internal/pkg/utils"
	"github.com/landsearch-microservice/internal/usecase/dto"
)

// SearchUseCase - use case for searching stored site plans
type SearchUseCase struct {
	parcelRepo    repository.ParcelRepository
	recentRepo    repository.RecentParcelsRepository
	cacheRepo     repository.CacheRepository
	engine        *geometry.Engine
	logger        *zap.Logger
	cacheTTL      time.Duration
	defaultRadius float64
}

// NewSearchUseCase - creates a new SearchUseCase
func NewSearchUseCase(
	parcelRepo repository.ParcelRepository,
	recentRepo repository.RecentParcelsRepository,
	cacheRepo repository.CacheRepository,
	engine *geometry.Engine,
	logger *zap.Logger,
	cacheTTL time.Duration,
	defaultRadius float64,
) *SearchUseCase {
	return &SearchUseCase{
		parcelRepo:    parcelRepo,
		recentRepo:    recentRepo,
		cacheRepo:     cacheRepo,
		engine:        engine,
		logger:        logger,
		cacheTTL:      cacheTTL,
		defaultRadius: defaultRadius,
	}
}

// Search - runs a site plan search against the stored corpus. The
// corpus comes from the recent-parcels buffer when it is warm and is
// loaded from storage otherwise; attribute filters narrow it before
// the geometric comparison runs.
func (uc *SearchUseCase) Search(ctx context.Context, req dto.SearchRequest) (*dto.SearchResponse, error) {
	filters := req.ToFilters()
	mode := searchMode(filters.Match)

	key, err := searchCacheKey(req)
	if err == nil {
		cached, cacheErr := uc.cacheRepo.GetSearchResult(ctx, key)
		if cacheErr != nil {
			uc.logger.Warn("Search cache lookup failed", zap.Error(cacheErr))
		}
		if cached != nil {
			metrics.SearchCacheHitsTotal.Inc()
			return dto.NewSearchResponse(cached, filters.PlotNumber), nil
		}
		metrics.SearchCacheMissesTotal.Inc()
	}

	radius := filters.SearchRadius
	if filters.Match == domain.MatchRadius {
		if radius <= 0 {
			radius = uc.defaultRadius
		}
		if !utils.ValidateRadius(radius) {
			return nil, errors.ErrInvalidRadius.WithDetails(map[string]interface{}{
				"search_radius": radius,
			})
		}
	}

	start := time.Now()

	corpus, err := uc.loadCorpus(ctx)
	if err != nil {
		return nil, err
	}
	corpus = filterByAttributes(corpus, filters)

	var result *domain.SearchResult
	switch filters.Match {
	case domain.MatchRadius:
		result = &domain.SearchResult{Matches: uc.engine.Radius(corpus, filters.Coordinates, radius)}

	case domain.MatchExact:
		result = &domain.SearchResult{Matches: uc.engine.Exact(corpus, filters.Coordinates, filters.Tolerance)}

	default:
		matches, overlaps := uc.engine.Overlap(corpus, filters.Coordinates)
		result = &domain.SearchResult{Matches: matches, Overlaps: overlaps}
	}

	metrics.SearchesTotal.WithLabelValues(mode).Inc()
	metrics.SearchDurationMs.WithLabelValues(mode).Observe(float64(time.Since(start).Milliseconds()))

	if key != "" {
		if cacheErr := uc.cacheRepo.SetSearchResult(ctx, key, result, uc.cacheTTL); cacheErr != nil {
			uc.logger.Warn("Failed to cache search result", zap.Error(cacheErr))
		}
	}

	uc.logger.Info("Search completed",
		zap.String("mode", mode),
		zap.Int("corpus_size", len(corpus)),
		zap.Int("matches", len(result.Matches)),
		zap.Duration("duration", time.Since(start)))

	return dto.NewSearchResponse(result, filters.PlotNumber), nil
}

// loadCorpus returns the parcels to search over, refilling the
// recent-parcels buffer from storage when it is empty
func (uc *SearchUseCase) loadCorpus(ctx context.Context) ([]*domain.ProcessedParcel, error) {
	corpus := uc.recentRepo.Snapshot()
	if len(corpus) > 0 {
		return corpus, nil
	}

	parcels, err := uc.parcelRepo.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to load parcels for search", zap.Error(err))
		return nil, err
	}
	uc.recentRepo.Append(parcels...)
	return parcels, nil
}

// filterByAttributes keeps parcels whose descriptive fields match the
// non-empty filters (case-insensitive)
func filterByAttributes(parcels []*domain.ProcessedParcel, filters domain.SearchFilters) []*domain.ProcessedParcel {
	if filters.Region == "" && filters.District == "" && filters.Locality == "" {
		return parcels
	}

	out := make([]*domain.ProcessedParcel, 0, len(parcels))
	for _, p := range parcels {
		if p == nil || p.PlotInfo == nil {
			continue
		}
		if filters.Region != "" && !strings.EqualFold(p.PlotInfo.Region, filters.Region) {
			continue
		}
		if filters.District != "" && !strings.EqualFold(p.PlotInfo.District, filters.District) {
			continue
		}
		if filters.Locality != "" && !strings.EqualFold(p.PlotInfo.Locality, filters.Locality) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// searchCacheKey derives a stable cache key from the full request
func searchCacheKey(req dto.SearchRequest) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return "search:" + hex.EncodeToString(sum[:]), nil
}

func searchMode(m domain.MatchType) string {
	if m == "" {
		return "overlap"
	}
	return string(m)
}
