package pixload

import (
	"errors"

	"github.com/hupe1980/pixload/internal/decode"
)

var (
	// ErrInvalidThreadCount is returned by New when the thread count is below one.
	ErrInvalidThreadCount = errors.New("pixload: thread count must be positive")

	// ErrInvalidOrdering is returned by New for an unknown ordering policy.
	ErrInvalidOrdering = errors.New("pixload: invalid ordering")

	// ErrInvalidCacheBudget is returned by New for a negative cache budget or memory limit.
	ErrInvalidCacheBudget = errors.New("pixload: cache budget must not be negative")

	// ErrDecodeFailure matches every failed load.
	// Failures never reach LoadImage callers; they are logged and reported to the
	// MetricsCollector, where errors.Is can be used to classify them.
	ErrDecodeFailure = decode.ErrDecodeFailure
)

// DecodeError describes a failed load: which path, at which stage, and why.
//
// The original underlying error can be accessed via errors.Unwrap.
type DecodeError = decode.Error
