package ratelimit

import (
	"context"
	"sync"
	"time"
)

// staleAfterWindows is how many idle windows an identity survives
// before eviction reclaims its entry.
const staleAfterWindows = 3

type memoryEntry struct {
	windowStart time.Time
	count       int
	lastSeen    time.Time
}

// MemoryStore is the default in-process window counter. Stale
// identities are evicted opportunistically during Incr so the map
// stays bounded by active-identity churn.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	window  time.Duration

	lastSweep time.Time
}

// NewMemoryStore creates an in-memory store for the given window length.
func NewMemoryStore(window time.Duration) *MemoryStore {
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		window:  window,
	}
}

// Incr records a hit for identity in the window starting at windowStart
// and returns the resulting count.
func (s *MemoryStore) Incr(_ context.Context, identity string, windowStart time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[identity]
	if !ok {
		e = &memoryEntry{}
		s.entries[identity] = e
	}

	if !e.windowStart.Equal(windowStart) {
		e.windowStart = windowStart
		e.count = 0
	}
	e.count++
	e.lastSeen = windowStart

	s.maybeSweep(windowStart)

	return e.count, nil
}

// maybeSweep evicts identities idle for several windows. Runs at most
// once per window so the cost stays negligible. Caller holds the lock.
func (s *MemoryStore) maybeSweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.window {
		return
	}
	s.lastSweep = now

	cutoff := now.Add(-staleAfterWindows * s.window)
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}

// Len reports the number of tracked identities.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
