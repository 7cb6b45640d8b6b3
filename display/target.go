package display

import (
	"sync/atomic"

	"github.com/hupe1980/pixload/pixel"
)

// ApplyFunc displays img on the owner goroutine.
type ApplyFunc func(path string, img *pixel.Image)

// Target is a display surface images are loaded into.
type Target struct {
	name   string
	tag    atomic.Pointer[string]
	runner Runner
	apply  ApplyFunc
	layout Layout
}

// NewTarget creates a target. runner and apply are required; a nil layout
// behaves like an unmeasured surface.
func NewTarget(name string, runner Runner, layout Layout, apply ApplyFunc) *Target {
	if layout == nil {
		layout = &Geometry{}
	}
	return &Target{
		name:   name,
		runner: runner,
		apply:  apply,
		layout: layout,
	}
}

// Name identifies the target in logs.
func (t *Target) Name() string { return t.name }

// Tag returns the path the target currently wants, or "" if none was requested.
func (t *Target) Tag() string {
	if p := t.tag.Load(); p != nil {
		return *p
	}
	return ""
}

// SetTag records path as the target's current request.
func (t *Target) SetTag(path string) {
	t.tag.Store(&path)
}

// Runner returns the owner goroutine of the target.
func (t *Target) Runner() Runner { return t.runner }

// Layout returns the geometry of the target.
func (t *Target) Layout() Layout { return t.layout }

// Apply displays img. It must only be called on the target's Runner.
func (t *Target) Apply(path string, img *pixel.Image) {
	if t.apply != nil {
		t.apply(path, img)
	}
}
