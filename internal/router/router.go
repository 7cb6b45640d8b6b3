// Package router hands decoded images back to their display targets.
package router

import (
	"context"
	"log/slog"

	"github.com/hupe1980/pixload/display"
	"github.com/hupe1980/pixload/pixel"
)

// Outcome is the result of one delivery.
type Outcome int

const (
	// Applied means the image was shown on the target.
	Applied Outcome = iota
	// Stale means the target had been re-tagged with another path.
	Stale
	// Empty means there was no image to show (decode failure).
	Empty
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Stale:
		return "stale"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// Observer is notified on the owner goroutine after every delivery.
type Observer interface {
	OnDelivery(path string, outcome Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(path string, outcome Outcome)

// OnDelivery implements Observer.
func (f ObserverFunc) OnDelivery(path string, outcome Outcome) { f(path, outcome) }

// Router delivers results on the target's owner goroutine and drops results
// the target no longer wants.
type Router struct {
	logger   *slog.Logger
	observer Observer
}

// New creates a Router. Both arguments may be nil.
func New(logger *slog.Logger, observer Observer) *Router {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Router{logger: logger, observer: observer}
}

// Deliver schedules img for display on target. The tag comparison happens on
// the owner goroutine, so a re-tag that lands before the posted function runs
// still discards the result.
func (r *Router) Deliver(path string, img *pixel.Image, target *display.Target) {
	if target == nil {
		return
	}
	runner := target.Runner()
	if runner == nil {
		runner = display.Inline{}
	}
	runner.Post(func() {
		r.report(path, r.apply(path, img, target))
	})
}

// DeliverNow applies img on the calling goroutine, which must own target.
// It serves cache hits requested by the owner, where posting to a loop the
// caller itself drains could block forever.
func (r *Router) DeliverNow(path string, img *pixel.Image, target *display.Target) {
	if target == nil {
		return
	}
	r.report(path, r.apply(path, img, target))
}

func (r *Router) apply(path string, img *pixel.Image, target *display.Target) Outcome {
	if img == nil {
		return Empty
	}
	if target.Tag() != path {
		r.logger.LogAttrs(context.Background(), slog.LevelDebug, "stale result discarded",
			slog.String("path", path),
			slog.String("target", target.Name()),
			slog.String("wanted", target.Tag()),
		)
		return Stale
	}
	target.Apply(path, img)
	return Applied
}

func (r *Router) report(path string, o Outcome) {
	if r.observer != nil {
		r.observer.OnDelivery(path, o)
	}
}
