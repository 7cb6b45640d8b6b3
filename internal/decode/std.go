package decode

import (
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP

	"github.com/hupe1980/pixload/pixel"
)

// Std decodes every format registered with the image package.
// Downsampling uses the configured scaler.
type Std struct {
	// Scaler resizes the full decode to the sampled size.
	// Defaults to draw.ApproxBiLinear.
	Scaler draw.Scaler
}

// NewStd returns the default decoder.
func NewStd() *Std {
	return &Std{Scaler: draw.ApproxBiLinear}
}

// ProbeBounds implements Decoder.
func (d *Std) ProbeBounds(r io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// Decode implements Decoder.
func (d *Std) Decode(r io.Reader, factor int) (*pixel.Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	if factor <= 1 {
		return pixel.FromImage(src), nil
	}

	b := src.Bounds()
	w := max(1, b.Dx()/factor)
	h := max(1, b.Dy()/factor)
	scaler := d.Scaler
	if scaler == nil {
		scaler = draw.ApproxBiLinear
	}
	dst := pixel.New(w, h)
	scaler.Scale(dst.RGBA, dst.Rect, src, b, draw.Src, nil)
	return dst, nil
}
