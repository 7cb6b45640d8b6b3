// Package dispatch moves queued tasks onto the worker pool.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/hupe1980/pixload/internal/pool"
	"github.com/hupe1980/pixload/internal/queue"
	"github.com/hupe1980/pixload/internal/resource"
)

// RunFunc executes one task on a worker.
type RunFunc[T any] func(ctx context.Context, item T)

// Dispatcher is the single consumer of a TaskQueue. It waits for a free
// worker slot before taking the next task, so the queue's ordering policy is
// applied at the moment a worker becomes available.
type Dispatcher[T any] struct {
	queue  *queue.TaskQueue[T]
	pool   *pool.WorkerPool
	rc     *resource.Controller
	run    RunFunc[T]
	logger *slog.Logger

	dispatched atomic.Int64
}

// New creates a Dispatcher. rc must have as many worker slots as p has workers.
func New[T any](q *queue.TaskQueue[T], p *pool.WorkerPool, rc *resource.Controller, run RunFunc[T], logger *slog.Logger) *Dispatcher[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher[T]{
		queue:  q,
		pool:   p,
		rc:     rc,
		run:    run,
		logger: logger,
	}
}

// Run consumes the queue until it is closed, ctx is canceled while waiting
// for a worker slot, or the pool shuts down. Tasks already handed to a worker
// run to completion with a context that is not canceled by ctx.
func (d *Dispatcher[T]) Run(ctx context.Context) error {
	taskCtx := context.WithoutCancel(ctx)

	for {
		if err := d.rc.AcquireWorker(ctx); err != nil {
			return err
		}

		item, ok := d.queue.Pop()
		if !ok {
			d.rc.ReleaseWorker()
			return nil
		}

		err := d.pool.Submit(ctx, func() {
			defer d.rc.ReleaseWorker()
			d.run(taskCtx, item)
		})
		if err != nil {
			d.rc.ReleaseWorker()
			if errors.Is(err, pool.ErrClosed) {
				d.logger.Debug("dispatcher stopped: pool closed")
				return nil
			}
			return err
		}
		d.dispatched.Add(1)
	}
}

// Dispatched returns the number of tasks handed to the pool.
func (d *Dispatcher[T]) Dispatched() int64 {
	return d.dispatched.Load()
}
