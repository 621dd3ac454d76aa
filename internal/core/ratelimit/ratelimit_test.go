package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a settable clock for deterministic window tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiterExactWindowCount(t *testing.T) {
	clock := newFakeClock()
	limiter := New(NewMemoryStore(time.Minute), 5, time.Minute, clock.Now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if !limiter.Allow(ctx, "1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	for i := 0; i < 3; i++ {
		if limiter.Allow(ctx, "1.2.3.4") {
			t.Fatalf("request beyond limit should be refused")
		}
	}
}

func TestLimiterWindowReset(t *testing.T) {
	clock := newFakeClock()
	limiter := New(NewMemoryStore(time.Minute), 2, time.Minute, clock.Now)
	ctx := context.Background()

	limiter.Allow(ctx, "1.2.3.4")
	limiter.Allow(ctx, "1.2.3.4")
	if limiter.Allow(ctx, "1.2.3.4") {
		t.Fatal("third request in window should be refused")
	}

	clock.Advance(time.Minute)

	if !limiter.Allow(ctx, "1.2.3.4") {
		t.Fatal("new window should admit requests again")
	}
}

func TestLimiterIdentitiesIndependent(t *testing.T) {
	clock := newFakeClock()
	limiter := New(NewMemoryStore(time.Minute), 1, time.Minute, clock.Now)
	ctx := context.Background()

	if !limiter.Allow(ctx, "1.2.3.4") {
		t.Fatal("first identity should be allowed")
	}
	if limiter.Allow(ctx, "1.2.3.4") {
		t.Fatal("first identity should now be refused")
	}
	if !limiter.Allow(ctx, "5.6.7.8") {
		t.Fatal("second identity must not share the first's window")
	}
}

func TestLimiterConcurrentSameIdentity(t *testing.T) {
	clock := newFakeClock()
	limiter := New(NewMemoryStore(time.Minute), 10, time.Minute, clock.Now)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow(ctx, "1.2.3.4") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Errorf("allowed = %d, want exactly 10", allowed)
	}
}

func TestMemoryStoreEvictsStaleIdentities(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(time.Minute)
	limiter := New(store, 5, time.Minute, clock.Now)
	ctx := context.Background()

	limiter.Allow(ctx, "old-client")
	if store.Len() != 1 {
		t.Fatalf("tracked identities = %d, want 1", store.Len())
	}

	// Idle long past the stale horizon; a hit from another identity
	// triggers the opportunistic sweep.
	clock.Advance(10 * time.Minute)
	limiter.Allow(ctx, "fresh-client")

	if store.Len() != 1 {
		t.Errorf("tracked identities = %d, want 1 after eviction", store.Len())
	}
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Time) (int, error) {
	return 0, errors.New("store down")
}

func TestLimiterFailsOpenOnStoreError(t *testing.T) {
	limiter := New(failingStore{}, 1, time.Minute, nil)

	if !limiter.Allow(context.Background(), "1.2.3.4") {
		t.Error("a broken store must not refuse traffic")
	}
}
