package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// searchKeyPattern matches every cached search response. Keys are
// written by the search usecase as "search:<request hash>".
const searchKeyPattern = "search:*"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetSearchResult returns a cached search response, nil on a miss
func (r *cacheRepository) GetSearchResult(ctx context.Context, key string) (*domain.SearchResult, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var result domain.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Error("Failed to unmarshal search result from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal search result: %w", err)
	}

	return &result, nil
}

// SetSearchResult caches a search response with a TTL
func (r *cacheRepository) SetSearchResult(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Error("Failed to marshal search result", zap.Error(err))
		return fmt.Errorf("marshal search result: %w", err)
	}

	return r.Set(ctx, key, data, ttl)
}

// InvalidateSearches drops every cached search response. Runs after any
// parcel write, so searches never serve stale geometry.
func (r *cacheRepository) InvalidateSearches(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, searchKeyPattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Failed to scan search cache keys", zap.Error(err))
		return fmt.Errorf("cache scan error: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Failed to invalidate search cache", zap.Int("keys", len(keys)), zap.Error(err))
		return fmt.Errorf("cache invalidate error: %w", err)
	}

	r.logger.Debug("Search cache invalidated", zap.Int("keys", len(keys)))
	return nil
}
