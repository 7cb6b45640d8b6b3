// Package queue provides the ordered holding area for pending load tasks.
package queue

import (
	"container/list"
	"fmt"
	"sync"
)

// Policy selects which end of the queue Pop removes from.
type Policy uint8

const (
	// LIFO removes the most recently pushed item.
	LIFO Policy = iota
	// FIFO removes the earliest pushed item.
	FIFO
)

func (p Policy) String() string {
	switch p {
	case LIFO:
		return "LIFO"
	case FIFO:
		return "FIFO"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == LIFO || p == FIFO
}

// TaskQueue is an unbounded double-ended queue with a blocking Pop.
// Push is safe for any number of producers; Pop is meant for a single consumer.
type TaskQueue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *list.List
	policy Policy
	closed bool
}

// New creates an empty queue ordered by policy.
func New[T any](policy Policy) *TaskQueue[T] {
	q := &TaskQueue[T]{
		items:  list.New(),
		policy: policy,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends item at the tail and wakes the consumer.
// It never blocks; items pushed after Close are dropped and Push returns false.
func (q *TaskQueue[T]) Push(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items.PushBack(item)
	q.mu.Unlock()

	q.cond.Signal()
	return true
}

// TryPop removes an item per policy without blocking.
func (q *TaskQueue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Pop removes an item per policy, blocking while the queue is empty.
// It returns false once the queue is closed.
func (q *TaskQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if q.closed {
			var zero T
			return zero, false
		}
		if item, ok := q.popLocked(); ok {
			return item, true
		}
		q.cond.Wait()
	}
}

func (q *TaskQueue[T]) popLocked() (T, bool) {
	var e *list.Element
	if q.policy == FIFO {
		e = q.items.Front()
	} else {
		e = q.items.Back()
	}
	if e == nil {
		var zero T
		return zero, false
	}
	q.items.Remove(e)
	return e.Value.(T), true
}

// Len returns the number of queued items.
func (q *TaskQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Close wakes blocked consumers and discards queued items.
// It returns the number of discarded items.
func (q *TaskQueue[T]) Close() int {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0
	}
	q.closed = true
	dropped := q.items.Len()
	q.items.Init()
	q.mu.Unlock()

	q.cond.Broadcast()
	return dropped
}
