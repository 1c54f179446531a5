package ratelimit

import "time"

// RateLimiter decides admission for a request identified by an opaque key
// (client address, phone number, ...). Implementations exist for a single
// process (TokenBucket, IntervalLimiter) and for a shared Redis (RedisTokenBucket,
// RedisIntervalLimiter).
type RateLimiter interface {
	// Allow reports whether a request from key may proceed now.
	// A false result is a rejection, not an error.
	Allow(key string) bool
}

// RetryAdvisor is implemented by limiters that can tell a rejected key how
// long to wait. RetryAfter returns 0 when the key would be admitted now and a
// negative duration when it will never be admitted again.
type RetryAdvisor interface {
	RetryAfter(key string) time.Duration
}

// Clock returns the current time. Limiters take one so tests can advance time
// without sleeping.
type Clock func() time.Time
