package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

// Task is one blocking graph round trip to run on the pool.
type Task func(ctx context.Context) (any, error)

// TaskResult is delivered on the future channel returned by Dispatch.
type TaskResult struct {
	Value any
	Err   error
}

type poolItem struct {
	ctx context.Context
	fn  Task
	out chan TaskResult
}

// Pool runs blocking graph-protocol calls on a fixed number of workers so a
// slow round trip never stalls a request-handling goroutine. Capacity is
// independent of request concurrency.
type Pool struct {
	items     chan poolItem
	limiter   *rate.Limiter
	logger    *slog.Logger
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewPool creates a pool with the given number of workers. If rps > 0,
// submissions are rate limited across all workers.
func NewPool(workers int, rps float64) *Pool {
	if workers <= 0 {
		workers = 4
	}

	p := &Pool{
		items:  make(chan poolItem, workers*2),
		logger: slog.Default().With("component", "graph_pool"),
	}
	if rps > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(rps), workers)
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	p.logger.Debug("worker pool started", "workers", workers, "rps", rps)
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for item := range p.items {
		if p.limiter != nil {
			if err := p.limiter.Wait(item.ctx); err != nil {
				item.out <- TaskResult{Err: fmt.Errorf("rate limiter: %w", err)}
				continue
			}
		}

		// Once a task reaches a worker it runs to completion; caller-side
		// cancellation stops waiting but does not abort the round trip.
		runCtx := context.WithoutCancel(item.ctx)
		value, err := item.fn(runCtx)
		item.out <- TaskResult{Value: value, Err: err}
	}
}

// Dispatch enqueues fn and returns a future channel delivering exactly one
// TaskResult. If ctx is cancelled before a worker picks the task up, the
// result carries ctx.Err().
func (p *Pool) Dispatch(ctx context.Context, fn Task) <-chan TaskResult {
	out := make(chan TaskResult, 1)
	item := poolItem{ctx: ctx, fn: fn, out: out}

	select {
	case p.items <- item:
	case <-ctx.Done():
		out <- TaskResult{Err: ctx.Err()}
	}
	return out
}

// Run dispatches fn and blocks the calling goroutine (never a worker) until
// the task finishes or ctx is cancelled.
func (p *Pool) Run(ctx context.Context, fn Task) (any, error) {
	out := p.Dispatch(ctx, fn)
	select {
	case res := <-out:
		return res.Value, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting work and waits for in-flight tasks to finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.items)
		p.wg.Wait()
		p.logger.Debug("worker pool stopped")
	})
}
