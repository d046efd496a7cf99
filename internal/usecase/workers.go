package usecase

import (
	"context"
	"log/slog"
	"sync"

	"TalentScout/internal/ports"
)

// Pool executes fire-and-forget tasks on a fixed set of workers. Submitted
// work has no return channel; whatever it produces is observable only
// through the repository. A panicking task is contained to its own run.
type Pool struct {
	logger  *slog.Logger
	workers int
	tasks   chan func(ctx context.Context)

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

var _ ports.Dispatcher = (*Pool)(nil)

// NewPool sizes the worker set and its queue; zero values get sane defaults.
func NewPool(workers, queueSize int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pool{
		logger:  logger,
		tasks:   make(chan func(ctx context.Context), queueSize),
		done:    make(chan struct{}),
		stopped: true,
		workers: workers,
	}
}

// Start launches the workers. Tasks receive the pool's base context, which
// outlives any single trigger: a run that outlives its caller completes
// detached.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.stopped {
		return
	}
	p.stopped = false

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}

	go func() {
		p.wg.Wait()
		close(p.done)
	}()
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(ctx, task)
	}
}

func (p *Pool) run(ctx context.Context, task func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil && p.logger != nil {
			p.logger.Error("background task panicked", "panic", r)
		}
	}()
	task(ctx)
}

// Submit enqueues a task. It reports false when the queue is full or the
// pool is stopped; callers treat that as a degraded, logged condition.
func (p *Pool) Submit(task func(ctx context.Context)) bool {
	if task == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return false
	}

	select {
	case p.tasks <- task:
		return true
	default:
		if p.logger != nil {
			p.logger.Warn("background queue full, task dropped")
		}
		return false
	}
}

// Stop closes the queue and waits for in-flight tasks, bounded by ctx.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
