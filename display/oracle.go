package display

import "log/slog"

// SizeOracle resolves the pixel size an image should be decoded to for a target.
type SizeOracle interface {
	ResolveSize(t *Target) Size
}

// SizeOracleFunc adapts a function to SizeOracle.
type SizeOracleFunc func(t *Target) Size

// ResolveSize implements SizeOracle.
func (f SizeOracleFunc) ResolveSize(t *Target) Size { return f(t) }

// FallbackOracle resolves each dimension independently, taking the first
// positive value of: measured size, declared size, max size, screen size.
type FallbackOracle struct {
	// LegacyHeightFallback uses the screen width as the last resort for the
	// height, matching older loaders. By default the screen height is used.
	LegacyHeightFallback bool

	// Logger receives a debug record when the screen fallback is reached.
	Logger *slog.Logger
}

// ResolveSize implements SizeOracle.
func (o *FallbackOracle) ResolveSize(t *Target) Size {
	l := t.Layout()
	measured, declared, maxSize, screen := l.MeasuredSize(), l.DeclaredSize(), l.MaxSize(), l.ScreenSize()

	width, wDegraded := firstPositive(measured.Width, declared.Width, maxSize.Width, screen.Width)

	screenHeight := screen.Height
	if o.LegacyHeightFallback {
		screenHeight = screen.Width
	}
	height, hDegraded := firstPositive(measured.Height, declared.Height, maxSize.Height, screenHeight)

	if (wDegraded || hDegraded) && o.Logger != nil {
		o.Logger.Debug("size resolution degraded",
			"target", t.Name(),
			"width", width,
			"height", height,
		)
	}
	return Size{Width: width, Height: height}
}

// firstPositive returns the first positive candidate and whether the last
// resort (the final candidate) was used.
func firstPositive(candidates ...int) (int, bool) {
	last := len(candidates) - 1
	for _, v := range candidates[:last] {
		if v > 0 {
			return v, false
		}
	}
	return candidates[last], true
}
