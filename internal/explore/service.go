// Package explore answers place searches for a query and location, behind a
// per-client rate limit and a short-lived result cache.
package explore

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/metrics"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/ratelimit"
	"github.com/johnrirwin/yatra/internal/textutil"
)

const (
	DefaultTTL = 5 * time.Minute

	// sharedSearchTimeout bounds a search that outlives the request which
	// started it.
	sharedSearchTimeout = 30 * time.Second

	metricsRoute = "explore"
)

// Searcher runs an uncached place search.
type Searcher interface {
	Search(ctx context.Context, q models.PlaceQuery) (*models.PlaceSearchResult, error)
}

// Service owns the explore flow. Concurrent misses for the same key share a
// single upstream search, which runs detached from any one caller so a
// departing client cannot fail the others.
type Service struct {
	limiter  ratelimit.RateLimiter
	cache    ResultCache
	searcher Searcher
	ttl      time.Duration
	metrics  *metrics.Metrics
	logger   *logging.Logger
	group    singleflight.Group
}

func NewService(limiter ratelimit.RateLimiter, cache ResultCache, searcher Searcher, ttl time.Duration, m *metrics.Metrics, logger *logging.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		limiter:  limiter,
		cache:    cache,
		searcher: searcher,
		ttl:      ttl,
		metrics:  m,
		logger:   logger,
	}
}

// Allow consumes one admission for clientKey. Callers check it before
// looking at the request body so malformed requests still count.
func (s *Service) Allow(clientKey string) bool {
	allowed := s.limiter.Allow(clientKey)
	s.metrics.ObserveRateLimit(metricsRoute, allowed)
	if !allowed {
		s.logger.Debug("Explore request rate limited", logging.WithField("client", clientKey))
	}
	return allowed
}

// RetryAfter reports how long clientKey should wait before its next request,
// or 0 when the limiter cannot say.
func (s *Service) RetryAfter(clientKey string) time.Duration {
	advisor, ok := s.limiter.(ratelimit.RetryAdvisor)
	if !ok {
		return 0
	}
	return advisor.RetryAfter(clientKey)
}

// CacheKey is the normalized lookup key for q. The query is length-prefixed
// so a "::" inside either field cannot collide with another pair.
func CacheKey(q models.PlaceQuery) string {
	query := textutil.Fold(q.Query)
	return strconv.Itoa(len(query)) + ":" + query + "::" + textutil.Fold(q.Location)
}

// Search validates q and returns its places. The boolean reports a cache hit.
func (s *Service) Search(ctx context.Context, q models.PlaceQuery) (*models.PlaceSearchResult, bool, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, false, err
	}

	key := CacheKey(q)
	if result, ok := s.cache.Get(ctx, key); ok {
		s.metrics.ObserveCache(cacheName, true)
		return result, true, nil
	}
	s.metrics.ObserveCache(cacheName, false)

	ch := s.group.DoChan(key, func() (interface{}, error) {
		searchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedSearchTimeout)
		defer cancel()

		result, err := s.searcher.Search(searchCtx, q)
		if err != nil {
			return nil, err
		}
		s.cache.Set(searchCtx, key, result, s.ttl)
		return result, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}

	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		s.logger.Error("Explore search failed", logging.WithFields(map[string]interface{}{
			"query":    q.Query,
			"location": q.Location,
			"error":    err.Error(),
		}))
		return nil, false, err
	}

	if shared {
		s.logger.Debug("Explore search shared with concurrent request", logging.WithField("key", key))
	}
	return v.(*models.PlaceSearchResult), false, nil
}
