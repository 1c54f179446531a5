package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/johnrirwin/yatra/internal/testutil"
)

type searchResult struct {
	Places []string `json:"places"`
}

func newTestCache(maxEntries int) (*Cache, *testutil.Clock) {
	clock := testutil.NewClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewWithOptions(Options{MaxEntries: maxEntries, Now: clock.Now}), clock
}

func TestCache_SetThenGet(t *testing.T) {
	c, _ := newTestCache(0)
	want := searchResult{Places: []string{"Red Fort", "Qutub Minar"}}

	c.SetWithTTL("museums::new delhi", want, 5*time.Minute)

	got, ok := c.Get("museums::new delhi")
	if !ok {
		t.Fatal("Get() reported miss immediately after Set")
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("Get() = %v, want %v", got, want)
	}
}

func TestCache_LazyExpiryRemovesEntry(t *testing.T) {
	c, clock := newTestCache(0)
	c.SetWithTTL("q::loc", searchResult{Places: []string{"x"}}, 300000*time.Millisecond)

	clock.Advance(300000 * time.Millisecond)
	if _, ok := c.Get("q::loc"); !ok {
		t.Fatal("entry expired at exactly its ttl, want still present")
	}

	clock.Advance(time.Millisecond)
	if _, ok := c.Get("q::loc"); ok {
		t.Fatal("Get() returned entry after ttl")
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after expired Get, want 0", c.Len())
	}
}

func TestCache_ExpiredEntryStaysUntilTouched(t *testing.T) {
	c, clock := newTestCache(0)
	c.SetWithTTL("a", 1, time.Second)
	c.SetWithTTL("b", 2, time.Hour)
	clock.Advance(2 * time.Second)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 before any read", c.Len())
	}
	if removed := c.RemoveExpired(); removed != 1 {
		t.Fatalf("RemoveExpired() = %d, want 1", removed)
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatal("live entry removed by sweep")
	}
}

func TestCache_OverwriteResetsExpiry(t *testing.T) {
	c, clock := newTestCache(0)
	c.SetWithTTL("k", "old", time.Second)
	clock.Advance(900 * time.Millisecond)
	c.SetWithTTL("k", "new", time.Second)
	clock.Advance(900 * time.Millisecond)

	got, ok := c.Get("k")
	if !ok || got != "new" {
		t.Fatalf("Get() = %v, %v; want new, true", got, ok)
	}
}

func TestCache_KeysAreIndependent(t *testing.T) {
	c, clock := newTestCache(0)
	c.SetWithTTL("short", 1, time.Second)
	c.SetWithTTL("long", 2, time.Minute)
	clock.Advance(2 * time.Second)

	if _, ok := c.Get("short"); ok {
		t.Fatal("short entry should be expired")
	}
	if v, ok := c.Get("long"); !ok || v != 2 {
		t.Fatalf("Get(long) = %v, %v; want 2, true", v, ok)
	}
}

func TestCache_MaxEntriesEvictsSoonestExpiry(t *testing.T) {
	c, _ := newTestCache(2)
	c.SetWithTTL("a", 1, time.Minute)
	c.SetWithTTL("b", 2, time.Second)
	c.SetWithTTL("c", 3, time.Hour)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("entry closest to expiry should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry a evicted unexpectedly")
	}

	c.SetWithTTL("a", 10, time.Minute)
	if c.Len() != 2 {
		t.Fatalf("overwrite changed size to %d", c.Len())
	}
}

func TestCache_MaxEntriesPrefersExpired(t *testing.T) {
	c, clock := newTestCache(2)
	c.SetWithTTL("stale", 1, time.Second)
	c.SetWithTTL("fresh", 2, time.Hour)
	clock.Advance(2 * time.Second)
	c.SetWithTTL("new", 3, time.Second)

	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("live entry evicted while an expired one existed")
	}
}

func TestCache_DefaultTTL(t *testing.T) {
	clock := testutil.NewClock(time.Now())
	c := NewWithOptions(Options{DefaultTTL: time.Minute, Now: clock.Now})
	c.Set("k", "v")

	clock.Advance(61 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("Set should use the default ttl")
	}
}

func TestCache_StopIsIdempotent(t *testing.T) {
	c := New(time.Minute)
	c.Stop()
	c.Stop()
}

func TestRedisCache_RoundTrip(t *testing.T) {
	client := testutil.RedisClient(t)
	c := NewRedis(client, "test:cache:")
	ctx := context.Background()

	if err := c.SetJSON(ctx, "q::loc", searchResult{Places: []string{"Hawa Mahal"}}, time.Minute); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var got searchResult
	ok, err := c.GetJSON(ctx, "q::loc", &got)
	if err != nil || !ok {
		t.Fatalf("GetJSON() = %v, %v; want hit", ok, err)
	}
	if len(got.Places) != 1 || got.Places[0] != "Hawa Mahal" {
		t.Fatalf("GetJSON() decoded %+v", got)
	}

	ok, err = c.GetJSON(ctx, "missing", &got)
	if err != nil || ok {
		t.Fatalf("GetJSON(missing) = %v, %v; want miss without error", ok, err)
	}
}
