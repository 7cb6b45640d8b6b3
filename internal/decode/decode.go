// Package decode turns encoded image bytes into downsampled pixel buffers.
//
// Decoding runs in two passes: ProbeBounds reads only the header to learn the
// intrinsic size, then Decode produces pixels reduced by an integer factor
// chosen with SampleFactor.
package decode

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/pixload/pixel"
)

// ErrDecodeFailure is wrapped by every Error.
var ErrDecodeFailure = errors.New("decode failure")

// Stage names the step of the pipeline that failed.
type Stage string

const (
	StageOpen   Stage = "open"
	StageProbe  Stage = "probe"
	StageDecode Stage = "decode"
)

// Error describes a failed load of one path.
type Error struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s %q: %v", ErrDecodeFailure, e.Stage, e.Path, e.Err)
}

// Unwrap returns both the sentinel and the cause so errors.Is matches either.
func (e *Error) Unwrap() []error {
	return []error{ErrDecodeFailure, e.Err}
}

// Decoder is the codec contract used by the loader.
type Decoder interface {
	// ProbeBounds reports the intrinsic width and height without decoding pixels.
	ProbeBounds(r io.Reader) (width, height int, err error)
	// Decode decodes the image, reducing each dimension by factor (≥ 1).
	Decode(r io.Reader, factor int) (*pixel.Image, error)
}

// SampleFactor returns the integer downsample factor for an image of
// iw×ih shown in a tw×th area: max(round(iw/tw), round(ih/th)) when the area
// is smaller than the image in either dimension, otherwise 1.
func SampleFactor(iw, ih, tw, th int) int {
	if iw <= 0 || ih <= 0 || tw <= 0 || th <= 0 {
		return 1
	}
	if tw >= iw && th >= ih {
		return 1
	}
	wr := int(math.Round(float64(iw) / float64(tw)))
	hr := int(math.Round(float64(ih) / float64(th)))
	return max(wr, hr, 1)
}
