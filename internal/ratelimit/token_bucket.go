package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// TokenBucket is a per-key token bucket. Each key starts with capacity tokens,
// regains refillPerSec tokens per second up to capacity, and spends exactly one
// token per admitted request. Tokens are real-valued.
//
// A TokenBucket is safe for concurrent use. State lives in process memory and
// is lost on restart.
type TokenBucket struct {
	mu           sync.Mutex
	buckets      map[string]*bucket
	capacity     float64
	refillPerSec float64
	now          Clock
}

// TokenBucketOption configures a TokenBucket.
type TokenBucketOption func(*TokenBucket)

// WithClock overrides the wall clock.
func WithClock(now Clock) TokenBucketOption {
	return func(l *TokenBucket) {
		if now != nil {
			l.now = now
		}
	}
}

// NewTokenBucket creates a limiter allowing bursts of capacity requests and a
// sustained rate of refillPerSec. A capacity of zero rejects everything; a
// refillPerSec of zero or less never refills, so each key gets a fixed quota.
func NewTokenBucket(capacity, refillPerSec float64, opts ...TokenBucketOption) *TokenBucket {
	if capacity < 0 {
		capacity = 0
	}
	l := &TokenBucket{
		buckets:      make(map[string]*bucket),
		capacity:     capacity,
		refillPerSec: refillPerSec,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow refills the key's bucket for the time elapsed since its last check and
// spends one token if at least one is available.
func (l *TokenBucket) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: now}
		l.buckets[key] = b
	}

	b.tokens = l.refilled(b, now)
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Remaining returns the tokens key would have right now without changing any
// state. Unknown keys report full capacity.
func (l *TokenBucket) Remaining(key string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		return l.capacity
	}
	return l.refilled(b, l.now())
}

// RetryAfter estimates how long key must wait for its next token. It returns 0
// when a request would be admitted now and -1 when the bucket never refills.
func (l *TokenBucket) RetryAfter(key string) time.Duration {
	return waitForToken(l.Remaining(key), l.refillPerSec)
}

func waitForToken(tokens, refillPerSec float64) time.Duration {
	if tokens >= 1 {
		return 0
	}
	if refillPerSec <= 0 {
		return -1
	}
	seconds := (1 - tokens) / refillPerSec
	return time.Duration(seconds * float64(time.Second))
}

// Len returns the number of tracked keys.
func (l *TokenBucket) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Sweep drops buckets that have refilled to capacity. Such a bucket behaves
// exactly like a key that was never seen, so dropping it only reclaims memory.
// Buckets that never refill are kept, since dropping them would reset a quota.
func (l *TokenBucket) Sweep() int {
	if l.refillPerSec <= 0 {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, b := range l.buckets {
		if l.refilled(b, now) >= l.capacity {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until the returned stop func is called.
func (l *TokenBucket) StartSweeper(interval time.Duration) (stop func()) {
	return startSweeper(interval, func() { l.Sweep() })
}

// refilled must be called with l.mu held.
func (l *TokenBucket) refilled(b *bucket, now time.Time) float64 {
	tokens := b.tokens
	if l.refillPerSec <= 0 {
		return tokens
	}
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return tokens
	}
	tokens += elapsed * l.refillPerSec
	if tokens > l.capacity {
		tokens = l.capacity
	}
	return tokens
}

func startSweeper(interval time.Duration, sweep func()) func() {
	if interval <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweep()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}

var (
	_ RateLimiter  = (*TokenBucket)(nil)
	_ RetryAdvisor = (*TokenBucket)(nil)
)
