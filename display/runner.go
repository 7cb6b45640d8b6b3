package display

import (
	"context"
	"sync"
)

// Runner executes functions on the goroutine that owns a set of targets.
type Runner interface {
	Post(fn func())
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(fn func())

// Post implements Runner.
func (f RunnerFunc) Post(fn func()) { f(fn) }

// Inline runs posted functions immediately on the posting goroutine.
// It suits headless tools where no single owner goroutine exists.
type Inline struct{}

// Post implements Runner.
func (Inline) Post(fn func()) { fn() }

// Loop is a sequenced run loop: functions posted from any goroutine execute
// one at a time, in post order, on the goroutine that calls Run.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop whose queue holds up to buffer pending functions.
// Post blocks while the queue is full.
func NewLoop(buffer int) *Loop {
	if buffer < 0 {
		buffer = 0
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn. Functions posted after Stop are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Run executes posted functions until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunPending executes functions already queued without blocking and reports
// how many ran. It lets a caller-driven event loop pump deliveries.
func (l *Loop) RunPending() int {
	n := 0
	for {
		select {
		case fn := <-l.tasks:
			fn()
			n++
		default:
			return n
		}
	}
}

// Stop terminates Run. It is idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}
