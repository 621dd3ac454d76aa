package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emrekir/vidprobe/internal/core/media"
)

// blockingEngine parks every probe until released and records the peak
// number of concurrent invocations.
type blockingEngine struct {
	release chan struct{}
	active  int32
	peak    int32
	mu      sync.Mutex
}

func (e *blockingEngine) Probe(ctx context.Context, url string, _ Profile) (*media.ProbeResult, error) {
	n := atomic.AddInt32(&e.active, 1)
	e.mu.Lock()
	if n > e.peak {
		e.peak = n
	}
	e.mu.Unlock()
	defer atomic.AddInt32(&e.active, -1)

	select {
	case <-e.release:
	case <-ctx.Done():
		return nil, NewError(KindTimeout, ctx.Err().Error())
	}
	return &media.ProbeResult{Meta: media.Metadata{Title: url}}, nil
}

func TestPoolBoundsConcurrency(t *testing.T) {
	eng := &blockingEngine{release: make(chan struct{})}
	pool := NewPool(eng, 2, 10)
	pool.Start()
	defer pool.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			pool.Probe(ctx, "https://example.com/v", Profile{})
		}()
	}

	// Give submissions time to reach the workers, then open the gate
	time.Sleep(50 * time.Millisecond)
	close(eng.release)
	wg.Wait()

	e := eng
	e.mu.Lock()
	peak := e.peak
	e.mu.Unlock()
	if peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestPoolPropagatesResult(t *testing.T) {
	eng := &blockingEngine{release: make(chan struct{})}
	close(eng.release)

	pool := NewPool(eng, 1, 1)
	pool.Start()
	defer pool.Stop()

	result, err := pool.Probe(context.Background(), "https://example.com/v", Profile{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Meta.Title != "https://example.com/v" {
		t.Errorf("result = %q", result.Meta.Title)
	}
}

func TestPoolTimesOutWhenSaturated(t *testing.T) {
	eng := &blockingEngine{release: make(chan struct{})}
	defer close(eng.release)

	pool := NewPool(eng, 1, 1)
	pool.Start()

	// Occupy the single worker and fill the queue
	go pool.Probe(context.Background(), "https://example.com/busy", Profile{})
	go pool.Probe(context.Background(), "https://example.com/queued", Profile{})
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := pool.Probe(ctx, "https://example.com/late", Profile{})
	var engErr *Error
	if !errors.As(err, &engErr) || engErr.Kind != KindTimeout {
		t.Fatalf("expected timeout error, got %v", err)
	}
}
