package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is an in-memory TTL cache. Expired entries are treated as absent and
// removed when next read; an optional sweeper removes the rest. With a
// positive MaxEntries, inserting a new key into a full cache evicts the entry
// closest to expiry.
type Cache struct {
	mu         sync.Mutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// Options configures a Cache. Zero values mean: no default TTL for Set, no size
// bound, no background sweep, wall clock.
type Options struct {
	DefaultTTL    time.Duration
	MaxEntries    int
	SweepInterval time.Duration
	Now           func() time.Time
}

func New(ttl time.Duration) *Cache {
	return NewWithOptions(Options{DefaultTTL: ttl, SweepInterval: time.Minute})
}

func NewWithOptions(opts Options) *Cache {
	c := &Cache{
		items:      make(map[string]entry),
		ttl:        opts.DefaultTTL,
		maxEntries: opts.MaxEntries,
		now:        opts.Now,
		stopCh:     make(chan struct{}),
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.SweepInterval > 0 {
		go c.cleanup(opts.SweepInterval)
	}
	return c
}

// Get returns the value for key. An entry past its expiry is deleted and
// reported absent.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores or overwrites key with expiresAt = now + ttl.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.evictLocked(now)
	}

	c.items[key] = entry{
		value:     value,
		expiresAt: now.Add(ttl),
	}
}

// Len counts stored entries, including expired ones not yet removed.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stop ends the background sweeper. It is safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *Cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.RemoveExpired()
		case <-c.stopCh:
			return
		}
	}
}

// RemoveExpired deletes every expired entry and returns how many were removed.
func (c *Cache) RemoveExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// evictLocked frees one slot, preferring expired entries.
func (c *Cache) evictLocked(now time.Time) {
	var victim string
	var victimExpiry time.Time
	found := false

	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
			return
		}
		if !found || e.expiresAt.Before(victimExpiry) {
			victim, victimExpiry, found = key, e.expiresAt, true
		}
	}
	if found {
		delete(c.items, victim)
	}
}
