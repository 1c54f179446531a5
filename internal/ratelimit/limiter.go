package ratelimit

import (
	"sync"
	"time"
)

// IntervalLimiter admits at most one request per key every minInterval. It
// throttles OTP sends per phone number.
type IntervalLimiter struct {
	mu          sync.Mutex
	keys        map[string]time.Time
	minInterval time.Duration
	now         Clock
}

func NewIntervalLimiter(minInterval time.Duration, now Clock) *IntervalLimiter {
	if now == nil {
		now = time.Now
	}
	return &IntervalLimiter{
		keys:        make(map[string]time.Time),
		minInterval: minInterval,
		now:         now,
	}
}

func (l *IntervalLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	last, exists := l.keys[key]
	if !exists || now.Sub(last) >= l.minInterval {
		l.keys[key] = now
		return true
	}

	return false
}

// RetryAfter returns how long until key can make another request.
func (l *IntervalLimiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, exists := l.keys[key]
	if !exists {
		return 0
	}
	wait := l.minInterval - l.now().Sub(last)
	if wait < 0 {
		return 0
	}
	return wait
}

// Sweep forgets keys whose interval has passed.
func (l *IntervalLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, last := range l.keys {
		if now.Sub(last) >= l.minInterval {
			delete(l.keys, key)
			removed++
		}
	}
	return removed
}

func (l *IntervalLimiter) StartSweeper(interval time.Duration) (stop func()) {
	return startSweeper(interval, func() { l.Sweep() })
}

var (
	_ RateLimiter  = (*IntervalLimiter)(nil)
	_ RetryAdvisor = (*IntervalLimiter)(nil)
)
