package ratelimit

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/johnrirwin/yatra/internal/logging"
)

const redisTimeout = 2 * time.Second

// RedisIntervalLimiter is the distributed form of IntervalLimiter.
type RedisIntervalLimiter struct {
	client      *redis.Client
	prefix      string
	minInterval time.Duration
}

// NewRedisIntervalLimiter creates a Redis-backed interval limiter
func NewRedisIntervalLimiter(client *redis.Client, prefix string, minInterval time.Duration) *RedisIntervalLimiter {
	if prefix == "" {
		prefix = "ratelimit:interval:"
	}
	return &RedisIntervalLimiter{
		client:      client,
		prefix:      prefix,
		minInterval: minInterval,
	}
}

func (l *RedisIntervalLimiter) key(k string) string {
	return l.prefix + k
}

// Allow returns true if key has not been admitted within minInterval.
func (l *RedisIntervalLimiter) Allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	// SET NX with expiry: the first caller in each interval wins.
	set, err := l.client.SetNX(ctx, l.key(key), time.Now().Unix(), l.minInterval).Result()
	if err != nil {
		// Fail open on Redis errors
		return true
	}

	return set
}

// RetryAfter returns how long until key can make another request
func (l *RedisIntervalLimiter) RetryAfter(key string) time.Duration {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	ttl, err := l.client.PTTL(ctx, l.key(key)).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

// tokenBucketScript mirrors TokenBucket.Allow. State is a hash of
// {tokens, ts}; ts is seconds as a float. Returns 1 when admitted.
var tokenBucketScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
  tokens = capacity
  ts = now
end

local elapsed = now - ts
if elapsed > 0 and rate > 0 then
  tokens = math.min(capacity, tokens + elapsed * rate)
end
if now > ts then
  ts = now
end

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', tostring(ts))
if ttl > 0 then
  redis.call('PEXPIRE', KEYS[1], ttl)
end
return allowed
`)

// RedisTokenBucket shares token bucket state across server instances. The
// refill-and-spend step runs as one Lua script, so concurrent requests for a
// key cannot lose updates. Keys expire once a bucket would be full again.
type RedisTokenBucket struct {
	client       *redis.Client
	prefix       string
	capacity     float64
	refillPerSec float64
	logger       *logging.Logger
	now          Clock
}

// NewRedisTokenBucket creates a Redis-backed token bucket limiter
func NewRedisTokenBucket(client *redis.Client, prefix string, capacity, refillPerSec float64, logger *logging.Logger) *RedisTokenBucket {
	if prefix == "" {
		prefix = "ratelimit:bucket:"
	}
	if capacity < 0 {
		capacity = 0
	}
	return &RedisTokenBucket{
		client:       client,
		prefix:       prefix,
		capacity:     capacity,
		refillPerSec: refillPerSec,
		logger:       logger,
		now:          time.Now,
	}
}

// keyTTL is how long an untouched bucket takes to refill completely. Zero
// means the key never expires because the bucket never refills.
func (l *RedisTokenBucket) keyTTL() time.Duration {
	if l.refillPerSec <= 0 {
		return 0
	}
	seconds := math.Ceil(l.capacity/l.refillPerSec) + 1
	return time.Duration(seconds) * time.Second
}

// Allow checks and spends a token for key. Redis failures admit the request.
func (l *RedisTokenBucket) Allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	now := float64(l.now().UnixMicro()) / 1e6
	allowed, err := tokenBucketScript.Run(ctx, l.client, []string{l.prefix + key},
		l.capacity,
		l.refillPerSec,
		now,
		l.keyTTL().Milliseconds(),
	).Int()
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("Rate limiter unavailable, admitting request", logging.WithField("error", err.Error()))
		}
		return true
	}

	return allowed == 1
}

// RetryAfter reads key's bucket without spending a token. Redis failures
// report 0 so callers do not advertise a wait they cannot back up.
func (l *RedisTokenBucket) RetryAfter(key string) time.Duration {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	state, err := l.client.HMGet(ctx, l.prefix+key, "tokens", "ts").Result()
	if err != nil || len(state) != 2 || state[0] == nil || state[1] == nil {
		return 0
	}
	tokens, err := strconv.ParseFloat(fmt.Sprint(state[0]), 64)
	if err != nil {
		return 0
	}
	ts, err := strconv.ParseFloat(fmt.Sprint(state[1]), 64)
	if err != nil {
		return 0
	}

	now := float64(l.now().UnixMicro()) / 1e6
	if elapsed := now - ts; elapsed > 0 && l.refillPerSec > 0 {
		tokens = math.Min(l.capacity, tokens+elapsed*l.refillPerSec)
	}
	return waitForToken(tokens, l.refillPerSec)
}

var (
	_ RateLimiter  = (*RedisIntervalLimiter)(nil)
	_ RateLimiter  = (*RedisTokenBucket)(nil)
	_ RetryAdvisor = (*RedisIntervalLimiter)(nil)
	_ RetryAdvisor = (*RedisTokenBucket)(nil)
)
