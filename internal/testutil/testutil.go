// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Clock is a manually advanced clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// RedisClient connects to YATRA_TEST_REDIS_ADDR using DB 15 and flushes it.
// The test is skipped when the variable is unset or Redis is unreachable.
func RedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("YATRA_TEST_REDIS_ADDR")
	if addr == "" || testing.Short() {
		t.Skip("YATRA_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skip("Redis not available:", err)
	}
	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

// DatabaseURL returns YATRA_TEST_DATABASE_URL or skips the test.
func DatabaseURL(t *testing.T) string {
	t.Helper()

	url := os.Getenv("YATRA_TEST_DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("YATRA_TEST_DATABASE_URL not set")
	}
	return url
}
