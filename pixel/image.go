// Package pixel holds the decoded pixel buffers handed to display targets.
package pixel

import (
	"image"
	"image/draw"
)

// Image is a decoded, display-ready RGBA buffer.
// Images are immutable once published to the cache; callers must not write to Pix.
type Image struct {
	*image.RGBA
}

// New allocates a zeroed image of the given size.
func New(width, height int) *Image {
	return &Image{RGBA: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// FromImage converts src into an RGBA-backed Image.
// If src already is an *image.RGBA anchored at the origin it is wrapped without copying.
func FromImage(src image.Image) *Image {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return &Image{RGBA: rgba}
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return &Image{RGBA: dst}
}

// Width returns the width in pixels.
func (m *Image) Width() int {
	if m == nil || m.RGBA == nil {
		return 0
	}
	return m.Rect.Dx()
}

// Height returns the height in pixels.
func (m *Image) Height() int {
	if m == nil || m.RGBA == nil {
		return 0
	}
	return m.Rect.Dy()
}

// BytesPerRow returns the row stride of the pixel buffer.
func (m *Image) BytesPerRow() int {
	if m == nil || m.RGBA == nil {
		return 0
	}
	return m.Stride
}

// SizeBytes is the byte footprint used for cache accounting.
func (m *Image) SizeBytes() int64 {
	return int64(m.BytesPerRow()) * int64(m.Height())
}
