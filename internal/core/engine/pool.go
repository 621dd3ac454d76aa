package engine

import (
	"context"
	"sync"

	"github.com/emrekir/vidprobe/internal/core/media"
)

// Pool bounds concurrent engine invocations with a fixed worker set.
// Request goroutines submit probes and wait; the subprocess fan-out can
// never exceed the worker count. Pool itself implements Engine.
type Pool struct {
	engine  Engine
	tasks   chan *probeTask
	workers int
	wg      sync.WaitGroup
}

type probeTask struct {
	ctx     context.Context
	url     string
	profile Profile
	out     chan probeOutcome
}

type probeOutcome struct {
	result *media.ProbeResult
	err    error
}

// NewPool wraps engine with a worker pool of the given size.
func NewPool(engine Engine, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 10
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &Pool{
		engine:  engine,
		tasks:   make(chan *probeTask, queueSize),
		workers: workers,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop drains the queue and waits for in-flight probes to finish.
func (p *Pool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		// The submitter may have given up while the task was queued
		if task.ctx.Err() != nil {
			task.out <- probeOutcome{err: NewError(KindTimeout, task.ctx.Err().Error())}
			continue
		}
		result, err := p.engine.Probe(task.ctx, task.url, task.profile)
		task.out <- probeOutcome{result: result, err: err}
	}
}

// Probe submits a probe and waits for its outcome. When the pool is
// saturated the submission blocks until a slot frees or ctx expires, so
// overload degrades to a timeout instead of unbounded concurrency.
func (p *Pool) Probe(ctx context.Context, url string, profile Profile) (*media.ProbeResult, error) {
	task := &probeTask{
		ctx:     ctx,
		url:     url,
		profile: profile,
		out:     make(chan probeOutcome, 1),
	}

	select {
	case p.tasks <- task:
	case <-ctx.Done():
		return nil, NewError(KindTimeout, ctx.Err().Error())
	}

	select {
	case outcome := <-task.out:
		return outcome.result, outcome.err
	case <-ctx.Done():
		// The worker will still deliver into the buffered channel;
		// the task is abandoned, not leaked.
		return nil, NewError(KindTimeout, ctx.Err().Error())
	}
}
