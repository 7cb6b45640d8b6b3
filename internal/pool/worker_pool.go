// Package pool provides the fixed-size worker pool that runs decode tasks.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("worker pool closed")

// WorkerPool runs submitted tasks on a fixed set of goroutines.
// Each worker runs one task to completion before taking the next.
type WorkerPool struct {
	numWorkers int
	workCh     chan func()
	stopCh     chan struct{}
	wg         sync.WaitGroup
	closed     atomic.Bool
	submitMu   sync.RWMutex
	logger     *slog.Logger

	active    atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
}

// New creates a pool with numWorkers goroutines (at least one).
// The work channel holds one pending task per worker.
func New(numWorkers int, logger *slog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	wp := &WorkerPool{
		numWorkers: numWorkers,
		workCh:     make(chan func(), numWorkers),
		stopCh:     make(chan struct{}),
		logger:     logger,
	}

	wp.wg.Add(numWorkers)
	for i := range numWorkers {
		go wp.worker(i)
	}

	return wp
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.stopCh:
			// Drain remaining work before exiting
			for {
				select {
				case task, ok := <-wp.workCh:
					if !ok {
						return
					}
					wp.run(id, task)
				default:
					return
				}
			}
		case task, ok := <-wp.workCh:
			if !ok {
				return
			}
			wp.run(id, task)
		}
	}
}

func (wp *WorkerPool) run(id int, task func()) {
	wp.active.Add(1)
	defer func() {
		wp.active.Add(-1)
		wp.completed.Add(1)
		if r := recover(); r != nil {
			wp.panicked.Add(1)
			wp.logger.Error("worker task panicked", "worker", id, "panic", fmt.Sprint(r))
		}
	}()
	task()
}

// Submit hands task to the pool, blocking while every worker is busy and
// the work channel is full.
//
// Error conditions:
//   - Returns ErrClosed if the pool is closed
//   - Returns ctx.Err() if the context is cancelled before enqueueing
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.submitMu.RLock()
	defer wp.submitMu.RUnlock()

	if wp.closed.Load() {
		return ErrClosed
	}

	select {
	case wp.workCh <- task:
		return nil
	case <-wp.stopCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int { return wp.numWorkers }

// Stats is a snapshot of pool counters.
type Stats struct {
	Workers   int
	Active    int64
	Completed int64
	Panicked  int64
}

// Stats returns a snapshot of pool counters.
func (wp *WorkerPool) Stats() Stats {
	return Stats{
		Workers:   wp.numWorkers,
		Active:    wp.active.Load(),
		Completed: wp.completed.Load(),
		Panicked:  wp.panicked.Load(),
	}
}

// Close stops accepting work, runs what was already submitted and waits
// for the workers to exit. It is idempotent.
func (wp *WorkerPool) Close() {
	if !wp.closed.CompareAndSwap(false, true) {
		return
	}

	wp.submitMu.Lock()
	close(wp.stopCh)
	close(wp.workCh)
	wp.submitMu.Unlock()

	wp.wg.Wait()
}
