package pixload

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/pixload/display"
	"github.com/hupe1980/pixload/internal/decode"
	"github.com/hupe1980/pixload/internal/queue"
	"github.com/hupe1980/pixload/source"
)

// Ordering selects which queued request a free worker takes next.
type Ordering int

const (
	// LIFO serves the most recent request first. Suited to scrolling lists,
	// where the newest requests are the ones on screen.
	LIFO Ordering = iota
	// FIFO serves requests in arrival order.
	FIFO
)

func (o Ordering) String() string {
	switch o {
	case LIFO:
		return "LIFO"
	case FIFO:
		return "FIFO"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// Valid reports whether o is a known ordering.
func (o Ordering) Valid() bool {
	return o == LIFO || o == FIFO
}

func (o Ordering) policy() queue.Policy {
	if o == FIFO {
		return queue.FIFO
	}
	return queue.LIFO
}

// Decoder turns encoded bytes into a downsampled image.
// The default decoder handles PNG, JPEG, GIF, BMP, TIFF and WebP.
type Decoder = decode.Decoder

// cacheBudgetDivisor is the share of the process memory limit given to the cache.
const cacheBudgetDivisor = 4

type options struct {
	threadCount          int
	ordering             Ordering
	cacheBudget          int64
	maxMemory            int64
	decoder              Decoder
	oracle               display.SizeOracle
	legacyHeightFallback bool
	store                source.Store
	metricsCollector     MetricsCollector
	logger               *Logger
	ioLimit              int64
	invalidateOnChange   bool
}

// Option configures an Engine.
type Option func(*options)

// WithThreadCount sets the number of decode workers. Defaults to 1.
func WithThreadCount(n int) Option {
	return func(o *options) {
		o.threadCount = n
	}
}

// WithOrdering sets the queue ordering policy. Defaults to LIFO.
func WithOrdering(ordering Ordering) Option {
	return func(o *options) {
		o.ordering = ordering
	}
}

// WithCacheBudget sets the memory cache budget in bytes, overriding the
// default of one quarter of the maximum memory.
func WithCacheBudget(bytes int64) Option {
	return func(o *options) {
		o.cacheBudget = bytes
	}
}

// WithMaxMemory sets the memory figure the default cache budget is derived
// from. By default it is the Go memory limit (GOMEMLIMIT) or, without one,
// the physical memory of the host.
func WithMaxMemory(bytes int64) Option {
	return func(o *options) {
		o.maxMemory = bytes
	}
}

// WithDecoder replaces the default decoder.
func WithDecoder(d Decoder) Option {
	return func(o *options) {
		o.decoder = d
	}
}

// WithSizeOracle replaces the default size resolution, which walks the
// target's measured, declared, maximum and screen sizes.
func WithSizeOracle(oracle display.SizeOracle) Option {
	return func(o *options) {
		o.oracle = oracle
	}
}

// WithLegacyHeightFallback makes the default size oracle fall back to the
// screen width for the height, as older loaders did.
func WithLegacyHeightFallback() Option {
	return func(o *options) {
		o.legacyHeightFallback = true
	}
}

// WithStore sets where images are read from. Defaults to the local
// filesystem, with paths used as given.
//
// Example:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("images/"))
//	engine, _ := pixload.New(pixload.WithStore(source.NewDecompressing(store, 0)))
func WithStore(store source.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &pixload.BasicMetricsCollector{}
//	engine, _ := pixload.New(pixload.WithMetricsCollector(metrics))
//	// ... use engine ...
//	stats := metrics.GetStats()
//	fmt.Printf("Hits: %d of %d\n", stats.CacheHits, stats.Requests)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := pixload.NewJSONLogger(slog.LevelInfo)
//	engine, _ := pixload.New(pixload.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithIOLimit caps source reads at bytesPerSec across all workers.
// Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithInvalidateOnChange watches local source files and drops their cache
// entries when they change on disk. It has no effect for stores that are
// not backed by the local filesystem.
func WithInvalidateOnChange() Option {
	return func(o *options) {
		o.invalidateOnChange = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		threadCount:      1,
		ordering:         LIFO,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

func (o *options) validate() error {
	if o.threadCount < 1 {
		return ErrInvalidThreadCount
	}
	if !o.ordering.Valid() {
		return ErrInvalidOrdering
	}
	if o.cacheBudget < 0 || o.maxMemory < 0 || o.ioLimit < 0 {
		return ErrInvalidCacheBudget
	}
	return nil
}
