package display

import "sync"

// Size is a width/height pair in pixels. Non-positive components mean "unknown".
type Size struct {
	Width  int
	Height int
}

// Layout exposes the geometry a SizeOracle walks through.
type Layout interface {
	// MeasuredSize is the current on-screen size, zero before the first layout pass.
	MeasuredSize() Size
	// DeclaredSize is the size requested by the layout configuration.
	DeclaredSize() Size
	// MaxSize is the configured maximum size.
	MaxSize() Size
	// ScreenSize is the pixel size of the containing display.
	ScreenSize() Size
}

// Geometry is a Layout whose sizes can be updated while requests are in flight.
type Geometry struct {
	mu       sync.RWMutex
	measured Size
	declared Size
	max      Size
	screen   Size
}

// NewGeometry returns a Geometry with the given declared, max and screen sizes.
func NewGeometry(declared, max, screen Size) *Geometry {
	return &Geometry{declared: declared, max: max, screen: screen}
}

// SetMeasured records the result of a layout pass.
func (g *Geometry) SetMeasured(s Size) {
	g.mu.Lock()
	g.measured = s
	g.mu.Unlock()
}

func (g *Geometry) MeasuredSize() Size {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.measured
}

func (g *Geometry) DeclaredSize() Size {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.declared
}

func (g *Geometry) MaxSize() Size {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.max
}

func (g *Geometry) ScreenSize() Size {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.screen
}
