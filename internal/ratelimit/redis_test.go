package ratelimit

import (
	"testing"
	"time"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/testutil"
)

func TestRedisTokenBucket_MatchesInMemorySemantics(t *testing.T) {
	client := testutil.RedisClient(t)
	clock := testutil.NewClock(time.Unix(1_700_000_000, 0))

	l := NewRedisTokenBucket(client, "test:bucket:", 10, 1, logging.New(logging.LevelError))
	l.now = clock.Now

	for i := 0; i < 10; i++ {
		if !l.Allow("ip1") {
			t.Fatalf("call %d rejected", i+1)
		}
	}
	if l.Allow("ip1") {
		t.Fatal("11th call admitted")
	}

	clock.Advance(5 * time.Second)
	admitted := 0
	for l.Allow("ip1") && admitted <= 10 {
		admitted++
	}
	if admitted != 5 {
		t.Fatalf("admitted %d after 5s, want 5", admitted)
	}

	if !l.Allow("ip2") {
		t.Fatal("independent key rejected")
	}

	if got := l.RetryAfter("ip1"); got != time.Second {
		t.Fatalf("RetryAfter(ip1) = %v, want 1s", got)
	}
	clock.Advance(250 * time.Millisecond)
	if got := l.RetryAfter("ip1"); got != 750*time.Millisecond {
		t.Fatalf("RetryAfter(ip1) = %v, want 750ms", got)
	}
	if got := l.RetryAfter("never-seen"); got != 0 {
		t.Fatalf("RetryAfter for unseen key = %v, want 0", got)
	}
}

func TestRedisTokenBucket_KeyTTL(t *testing.T) {
	l := NewRedisTokenBucket(nil, "", 10, 4, nil)
	if got := l.keyTTL(); got != 4*time.Second {
		t.Fatalf("keyTTL = %v, want 4s", got)
	}

	fixed := NewRedisTokenBucket(nil, "", 10, 0, nil)
	if got := fixed.keyTTL(); got != 0 {
		t.Fatalf("keyTTL for non-refilling bucket = %v, want 0", got)
	}
}

func TestRedisIntervalLimiter(t *testing.T) {
	client := testutil.RedisClient(t)
	l := NewRedisIntervalLimiter(client, "test:interval:", time.Minute)

	if !l.Allow("phone") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("phone") {
		t.Fatal("second request should be throttled")
	}
	if wait := l.RetryAfter("phone"); wait <= 0 || wait > time.Minute {
		t.Fatalf("RetryAfter = %v, want (0, 1m]", wait)
	}
	if wait := l.RetryAfter("other-phone"); wait != 0 {
		t.Fatalf("RetryAfter for unseen key = %v, want 0", wait)
	}
}
