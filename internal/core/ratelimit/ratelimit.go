// Package ratelimit bounds requests per client identity over a fixed
// 60-second window. The store and clock are injectable so tests run
// against a deterministic clock and isolated state.
package ratelimit

import (
	"context"
	"time"
)

// Clock supplies the current time. Production uses time.Now.
type Clock func() time.Time

// Store counts hits per identity within a window. Incr returns the
// identity's request count for the window containing windowStart,
// after recording the new hit. Counting must be atomic with respect to
// concurrent requests from the same identity.
type Store interface {
	Incr(ctx context.Context, identity string, windowStart time.Time) (int, error)
}

// Limiter decides whether a client identity may proceed.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    Clock
}

// New creates a limiter allowing limit requests per window per identity.
func New(store Store, limit int, window time.Duration, now Clock) *Limiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &Limiter{store: store, limit: limit, window: window, now: now}
}

// Allow reports whether identity may make another request right now.
// Exactly limit requests pass per window; the rest are refused until
// the window rolls over. A store failure fails open: throttling is a
// protection, not a correctness gate, and must not take the service
// down with it.
func (l *Limiter) Allow(ctx context.Context, identity string) bool {
	windowStart := l.now().Truncate(l.window)

	count, err := l.store.Incr(ctx, identity, windowStart)
	if err != nil {
		return true
	}
	return count <= l.limit
}

// Limit returns the configured per-window request limit.
func (l *Limiter) Limit() int {
	return l.limit
}

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration {
	return l.window
}
