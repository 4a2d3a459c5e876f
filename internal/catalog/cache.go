package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/intern-match/internal/opportunity"
)

const (
	DefaultCacheKey = "intern-match:catalog"
	DefaultCacheTTL = 5 * time.Minute
)

var errCacheMiss = errors.New("cache miss")

type listingCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache stores serialized catalog listings in Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss
	}
	return data, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// CachedStore serves the listing from the cache when present and fills it
// from the backing store otherwise. Cache failures never fail a request.
type CachedStore struct {
	store  Store
	cache  listingCache
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedStore(store Store, cache listingCache, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{store: store, cache: cache, key: DefaultCacheKey, ttl: ttl, logger: logger}
}

func (s *CachedStore) ListOpportunities(ctx context.Context) ([]*opportunity.Opportunity, error) {
	if items, ok := s.cached(ctx); ok {
		return items, nil
	}

	items, err := s.store.ListOpportunities(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("failed to encode catalog for cache", zap.Error(err))
		return items, nil
	}
	if err := s.cache.Set(ctx, s.key, data, s.ttl); err != nil {
		s.logger.Warn("failed to store catalog in cache", zap.Error(err))
	}

	return items, nil
}

func (s *CachedStore) cached(ctx context.Context) ([]*opportunity.Opportunity, bool) {
	data, err := s.cache.Get(ctx, s.key)
	switch {
	case errors.Is(err, errCacheMiss):
		s.logger.Debug("catalog cache miss", zap.String("key", s.key))
		return nil, false
	case err != nil:
		s.logger.Warn("catalog cache unavailable", zap.Error(err))
		return nil, false
	}

	var items []*opportunity.Opportunity
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("discarding malformed cached catalog", zap.Error(err))
		return nil, false
	}

	s.logger.Debug("catalog served from cache", zap.String("key", s.key), zap.Int("items", len(items)))
	return items, true
}
