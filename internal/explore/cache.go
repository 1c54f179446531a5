package explore

import (
	"context"
	"time"

	"github.com/johnrirwin/yatra/internal/cache"
	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/metrics"
	"github.com/johnrirwin/yatra/internal/models"
)

const cacheName = "explore"

// ResultCache stores explore results by normalized query key.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.PlaceSearchResult, bool)
	Set(ctx context.Context, key string, result *models.PlaceSearchResult, ttl time.Duration)
}

// MemoryResultCache keeps results in the process-local TTL cache.
type MemoryResultCache struct {
	cache   *cache.Cache
	metrics *metrics.Metrics
}

func NewMemoryResultCache(c *cache.Cache, m *metrics.Metrics) *MemoryResultCache {
	return &MemoryResultCache{cache: c, metrics: m}
}

func (c *MemoryResultCache) Get(ctx context.Context, key string) (*models.PlaceSearchResult, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	result, ok := v.(*models.PlaceSearchResult)
	return result, ok
}

func (c *MemoryResultCache) Set(ctx context.Context, key string, result *models.PlaceSearchResult, ttl time.Duration) {
	c.cache.SetWithTTL(key, result, ttl)
	c.metrics.SetCacheEntries(cacheName, c.cache.Len())
}

// RedisResultCache shares results across instances. Redis failures degrade to
// a miss so explore keeps answering from upstream.
type RedisResultCache struct {
	cache  *cache.RedisCache
	logger *logging.Logger
}

func NewRedisResultCache(c *cache.RedisCache, logger *logging.Logger) *RedisResultCache {
	return &RedisResultCache{cache: c, logger: logger}
}

func (c *RedisResultCache) Get(ctx context.Context, key string) (*models.PlaceSearchResult, bool) {
	var result models.PlaceSearchResult
	found, err := c.cache.GetJSON(ctx, key, &result)
	if err != nil {
		c.logger.Warn("Explore cache read failed", logging.WithFields(map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		}))
		return nil, false
	}
	if !found {
		return nil, false
	}
	if result.Places == nil {
		result.Places = []models.Place{}
	}
	return &result, true
}

func (c *RedisResultCache) Set(ctx context.Context, key string, result *models.PlaceSearchResult, ttl time.Duration) {
	if err := c.cache.SetJSON(ctx, key, result, ttl); err != nil {
		c.logger.Warn("Explore cache write failed", logging.WithFields(map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		}))
	}
}
