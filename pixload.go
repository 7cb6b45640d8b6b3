package pixload

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pixload/display"
	"github.com/hupe1980/pixload/internal/cache"
	"github.com/hupe1980/pixload/internal/decode"
	"github.com/hupe1980/pixload/internal/dispatch"
	"github.com/hupe1980/pixload/internal/loader"
	"github.com/hupe1980/pixload/internal/memlimit"
	"github.com/hupe1980/pixload/internal/pool"
	"github.com/hupe1980/pixload/internal/queue"
	"github.com/hupe1980/pixload/internal/resource"
	"github.com/hupe1980/pixload/internal/router"
	"github.com/hupe1980/pixload/pixel"
	"github.com/hupe1980/pixload/source"
)

// Engine loads images into display targets. It is safe for concurrent use.
type Engine struct {
	opts    options
	logger  *Logger
	metrics MetricsCollector

	rc         *resource.Controller
	cache      *cache.LRU[*pixel.Image]
	queue      *queue.TaskQueue[loader.Task]
	pool       *pool.WorkerPool
	router     *router.Router
	loader     *loader.Loader
	dispatcher *dispatch.Dispatcher[loader.Task]
	watcher    *source.Watcher

	cancel context.CancelFunc
	group  *errgroup.Group

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var (
	sharedOnce   sync.Once
	sharedEngine *Engine
	sharedErr    error
)

// Shared returns the process-wide Engine, creating it on first use.
//
// Only the options of the first call are applied; later calls return the
// same Engine and ignore their options. Use New for independently
// configured engines.
func Shared(optFns ...Option) (*Engine, error) {
	sharedOnce.Do(func() {
		sharedEngine, sharedErr = New(optFns...)
	})
	return sharedEngine, sharedErr
}

// New creates an Engine and starts its dispatcher and workers.
func New(optFns ...Option) (*Engine, error) {
	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return nil, err
	}

	budget := opts.cacheBudget
	if budget == 0 {
		maxMemory := opts.maxMemory
		if maxMemory == 0 {
			maxMemory = memlimit.Max()
		}
		budget = memlimit.Budget(maxMemory, cacheBudgetDivisor)
	}

	if opts.decoder == nil {
		opts.decoder = decode.NewStd()
	}
	if opts.oracle == nil {
		opts.oracle = &display.FallbackOracle{
			LegacyHeightFallback: opts.legacyHeightFallback,
			Logger:               opts.logger.Logger,
		}
	}
	if opts.store == nil {
		opts.store = source.NewLocalStore("")
	}

	e := &Engine{
		opts:    opts,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
		rc: resource.NewController(resource.Config{
			Workers:            int64(opts.threadCount),
			IOLimitBytesPerSec: opts.ioLimit,
		}),
		queue: queue.New[loader.Task](opts.ordering.policy()),
		pool:  pool.New(opts.threadCount, opts.logger.Logger),
	}

	e.cache = cache.NewLRU[*pixel.Image](budget, (*pixel.Image).SizeBytes,
		cache.WithOnEvict[*pixel.Image](e.onEvict),
		cache.WithResourceController[*pixel.Image](e.rc),
	)
	e.router = router.New(opts.logger.Logger, router.ObserverFunc(e.onDelivery))

	var tracker loader.Tracker
	if opts.invalidateOnChange {
		if locator, ok := opts.store.(source.Locator); ok {
			w, err := source.NewWatcher(locator, e.invalidate, opts.logger.Logger)
			if err != nil {
				e.pool.Close()
				return nil, fmt.Errorf("pixload: start watcher: %w", err)
			}
			e.watcher = w
			tracker = w
		} else {
			opts.logger.Warn("invalidate on change requested but store is not filesystem backed")
		}
	}

	e.loader = loader.New(loader.Config{
		Store:     opts.store,
		Decoder:   opts.decoder,
		Oracle:    opts.oracle,
		Cache:     e.cache,
		Router:    e.router,
		Resources: e.rc,
		Logger:    opts.logger.Logger,
		Observer:  decodeObserver{e},
		Tracker:   tracker,
	})
	e.dispatcher = dispatch.New(e.queue, e.pool, e.rc, e.loader.Run, opts.logger.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.group, ctx = errgroup.WithContext(ctx)
	e.group.Go(func() error {
		return e.dispatcher.Run(ctx)
	})

	e.logger.LogStart(ctx, opts.threadCount, opts.ordering, budget)
	return e, nil
}

// LoadImage shows the image at path on target.
//
// The target is tagged with path before anything else happens, so a later
// LoadImage on the same target supersedes this one. A cached image is applied
// on the calling goroutine before LoadImage returns and no decode is queued,
// so callers should be on the target's owner goroutine. Otherwise the request
// is queued and the result is posted to the target's runner when a worker
// finishes, unless the target has been re-tagged by then. Failures are logged and
// otherwise invisible to the caller. LoadImage never blocks.
func (e *Engine) LoadImage(path string, target *display.Target) {
	if target == nil {
		return
	}
	target.SetTag(path)

	if e.closed.Load() {
		e.logger.Debug("load ignored: engine closed", "path", path)
		return
	}

	if img, ok := e.cache.Get(path); ok {
		e.metrics.RecordRequest(true)
		e.router.DeliverNow(path, img, target)
		return
	}
	e.metrics.RecordRequest(false)

	if !e.queue.Push(loader.Task{Path: path, Target: target}) {
		e.logger.Debug("load ignored: engine closed", "path", path)
		return
	}
	e.metrics.RecordQueueDepth(e.queue.Len())
}

// Cached reports whether the image for path is in the memory cache.
func (e *Engine) Cached(path string) bool {
	return e.cache.Contains(path)
}

// Invalidate drops the cached image for path so the next request decodes it again.
func (e *Engine) Invalidate(path string) bool {
	return e.cache.Remove(path)
}

// Stats is a point-in-time snapshot of the engine.
type Stats struct {
	Ordering Ordering

	CacheEntries   int
	CacheBytes     int64
	CacheCapacity  int64
	CacheHits      int64
	CacheMisses    int64
	CacheEvictions int64
	CacheHitRate   float64

	QueueDepth int
	Dispatched int64

	Workers        int
	ActiveWorkers  int64
	CompletedTasks int64
	PanickedTasks  int64

	TrackedMemory int64
	WatchedFiles  int
}

// Stats returns a snapshot of the cache, queue and worker counters.
func (e *Engine) Stats() Stats {
	cs := e.cache.Stats()
	ps := e.pool.Stats()

	s := Stats{
		Ordering:       e.opts.ordering,
		CacheEntries:   cs.Entries,
		CacheBytes:     cs.Size,
		CacheCapacity:  cs.Capacity,
		CacheHits:      cs.Hits,
		CacheMisses:    cs.Misses,
		CacheEvictions: cs.Evictions,
		CacheHitRate:   cs.HitRate,
		QueueDepth:     e.queue.Len(),
		Dispatched:     e.dispatcher.Dispatched(),
		Workers:        ps.Workers,
		ActiveWorkers:  ps.Active,
		CompletedTasks: ps.Completed,
		PanickedTasks:  ps.Panicked,
		TrackedMemory:  e.rc.MemoryUsage(),
	}
	if e.watcher != nil {
		s.WatchedFiles = e.watcher.Tracked()
	}
	return s
}

type decodeObserver struct{ e *Engine }

func (o decodeObserver) OnDecode(path string, d time.Duration, img *pixel.Image, err error) {
	o.e.logger.LogDecode(context.Background(), path, d, img, err)
	o.e.metrics.RecordDecode(d, img.SizeBytes(), err)
}

func (e *Engine) onDelivery(path string, o router.Outcome) {
	e.logger.LogDelivery(context.Background(), path, o.String())
	e.metrics.RecordDelivery(o.String())
}

// onEvict runs with the cache lock held.
func (e *Engine) onEvict(path string, _ *pixel.Image, size int64) {
	e.logger.LogEviction(context.Background(), path, size)
	e.metrics.RecordEviction(size)
}

func (e *Engine) invalidate(path string) {
	if e.cache.Remove(path) {
		e.logger.LogInvalidation(context.Background(), path)
		e.metrics.RecordInvalidation()
	}
}
