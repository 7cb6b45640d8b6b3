package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/pixload/pixel"
)

// Delivery is one image applied to a target.
type Delivery struct {
	Path  string
	Image *pixel.Image
}

// Recorder collects deliveries. Its Apply method is a display.ApplyFunc.
type Recorder struct {
	mu         sync.Mutex
	deliveries []Delivery
	notify     chan struct{}
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan struct{}, 1)}
}

// Apply records a delivery.
func (r *Recorder) Apply(path string, img *pixel.Image) {
	r.mu.Lock()
	r.deliveries = append(r.deliveries, Delivery{Path: path, Image: img})
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Deliveries returns a copy of everything recorded so far.
func (r *Recorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.deliveries...)
}

// Paths returns the recorded paths in delivery order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([]string, len(r.deliveries))
	for i, d := range r.deliveries {
		paths[i] = d.Path
	}
	return paths
}

// Len returns the number of deliveries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deliveries)
}

// WaitFor blocks until at least n deliveries were recorded and fails the
// test after timeout.
func (r *Recorder) WaitFor(t testing.TB, n int, timeout time.Duration) {
	t.Helper()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for r.Len() < n {
		select {
		case <-r.notify:
		case <-deadline.C:
			t.Fatalf("timed out waiting for %d deliveries, got %d", n, r.Len())
		}
	}
}
