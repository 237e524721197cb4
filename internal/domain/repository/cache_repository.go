package repository

import (
	"context"
	"time"

	"github.com/landsearch-microservice/internal/domain"
)

// CacheRepository defines the shared response cache
type CacheRepository interface {
	// Get returns the cached value for a key, nil on a miss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// GetSearchResult returns a cached search response, nil on a miss
	GetSearchResult(ctx context.Context, key string) (*domain.SearchResult, error)

	// SetSearchResult caches a search response with a TTL
	SetSearchResult(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error

	// InvalidateSearches drops all cached search responses; called
	// after any write to the parcel tables
	InvalidateSearches(ctx context.Context) error
}
