package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore counts windows in Redis so multiple instances share one
// rate-limit view. Keys carry the window start and expire on their own,
// which makes eviction Redis's problem.
type RedisStore struct {
	client *redis.Client
	window time.Duration
}

// NewRedisStore creates a Redis-backed window counter.
func NewRedisStore(client *redis.Client, window time.Duration) *RedisStore {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisStore{client: client, window: window}
}

// Incr atomically increments the identity's counter for the window and
// returns the new count. INCR+EXPIRE run in one pipeline round trip.
func (s *RedisStore) Incr(ctx context.Context, identity string, windowStart time.Time) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%d", identity, windowStart.Unix())

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit store: %w", err)
	}

	return int(incr.Val()), nil
}
