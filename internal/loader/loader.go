// Package loader runs the decode pipeline for one request: resolve the target
// size, open the source, probe its bounds, decode with a downsample factor,
// cache the result and hand it to the router.
package loader

import (
	"context"
	"log/slog"
	"time"

	"github.com/hupe1980/pixload/display"
	"github.com/hupe1980/pixload/internal/cache"
	"github.com/hupe1980/pixload/internal/decode"
	"github.com/hupe1980/pixload/internal/resource"
	"github.com/hupe1980/pixload/internal/router"
	"github.com/hupe1980/pixload/pixel"
	"github.com/hupe1980/pixload/source"
)

// Task is one queued request. It is immutable.
type Task struct {
	Path   string
	Target *display.Target
}

// Observer is notified after every decode attempt.
type Observer interface {
	OnDecode(path string, d time.Duration, img *pixel.Image, err error)
}

// Tracker is told about every path successfully opened.
type Tracker interface {
	Track(name string) error
}

// Config wires a Loader to its collaborators. Store, Decoder, Oracle, Cache
// and Router are required.
type Config struct {
	Store     source.Store
	Decoder   decode.Decoder
	Oracle    display.SizeOracle
	Cache     *cache.LRU[*pixel.Image]
	Router    *router.Router
	Resources *resource.Controller
	Logger    *slog.Logger
	Observer  Observer
	Tracker   Tracker
}

// Loader executes Tasks. It is safe for concurrent use.
type Loader struct {
	cfg Config
}

// New creates a Loader.
func New(cfg Config) *Loader {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{cfg: cfg}
}

// Run executes t to completion. Failures are reported to the Observer and
// delivered as an empty result, which the router discards.
func (l *Loader) Run(ctx context.Context, t Task) {
	start := time.Now()
	img, err := l.Load(ctx, t)
	if l.cfg.Observer != nil {
		l.cfg.Observer.OnDecode(t.Path, time.Since(start), img, err)
	}

	if err != nil {
		l.cfg.Router.Deliver(t.Path, nil, t.Target)
		return
	}

	if l.cfg.Cache.Put(t.Path, img) && img.SizeBytes() > l.cfg.Cache.Capacity() {
		l.cfg.Logger.LogAttrs(ctx, slog.LevelDebug, "cache overflow single entry",
			slog.String("path", t.Path),
			slog.Int64("bytes", img.SizeBytes()),
			slog.Int64("capacity", l.cfg.Cache.Capacity()),
		)
	}
	l.cfg.Router.Deliver(t.Path, img, t.Target)
}

// Load resolves, opens, probes and decodes the image for t without touching
// the cache or the router.
func (l *Loader) Load(ctx context.Context, t Task) (*pixel.Image, error) {
	size := l.cfg.Oracle.ResolveSize(t.Target)

	blob, err := l.cfg.Store.Open(ctx, t.Path)
	if err != nil {
		return nil, &decode.Error{Path: t.Path, Stage: decode.StageOpen, Err: err}
	}
	defer blob.Close()

	if l.cfg.Tracker != nil {
		if err := l.cfg.Tracker.Track(t.Path); err != nil {
			l.cfg.Logger.Debug("track source failed", "path", t.Path, "error", err)
		}
	}

	if err := l.cfg.Resources.AcquireIO(ctx, blob.Size()); err != nil {
		return nil, &decode.Error{Path: t.Path, Stage: decode.StageOpen, Err: err}
	}

	iw, ih, err := l.cfg.Decoder.ProbeBounds(source.NewReader(blob))
	if err != nil {
		return nil, &decode.Error{Path: t.Path, Stage: decode.StageProbe, Err: err}
	}

	factor := decode.SampleFactor(iw, ih, size.Width, size.Height)

	img, err := l.cfg.Decoder.Decode(source.NewReader(blob), factor)
	if err != nil {
		return nil, &decode.Error{Path: t.Path, Stage: decode.StageDecode, Err: err}
	}
	if img == nil {
		return nil, &decode.Error{Path: t.Path, Stage: decode.StageDecode, Err: errNoImage}
	}

	l.cfg.Logger.LogAttrs(ctx, slog.LevelDebug, "decoded",
		slog.String("path", t.Path),
		slog.Int("source_width", iw),
		slog.Int("source_height", ih),
		slog.Int("target_width", size.Width),
		slog.Int("target_height", size.Height),
		slog.Int("factor", factor),
	)
	return img, nil
}
