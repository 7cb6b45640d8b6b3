package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pixload/display"
	"github.com/hupe1980/pixload/internal/cache"
	"github.com/hupe1980/pixload/internal/decode"
	"github.com/hupe1980/pixload/internal/resource"
	"github.com/hupe1980/pixload/internal/router"
	"github.com/hupe1980/pixload/pixel"
	"github.com/hupe1980/pixload/source"
	"github.com/hupe1980/pixload/testutil"
)

type decodeRecord struct {
	path string
	img  *pixel.Image
	err  error
}

type observer struct {
	mu      sync.Mutex
	records []decodeRecord
}

func (o *observer) OnDecode(path string, _ time.Duration, img *pixel.Image, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, decodeRecord{path: path, img: img, err: err})
}

type tracker struct {
	names []string
}

func (tr *tracker) Track(name string) error {
	tr.names = append(tr.names, name)
	return nil
}

// factorDecoder records the factor it was asked for.
type factorDecoder struct {
	decode.Decoder
	factors []int
}

func (d *factorDecoder) Decode(r io.Reader, factor int) (*pixel.Image, error) {
	d.factors = append(d.factors, factor)
	return d.Decoder.Decode(r, factor)
}

type fixture struct {
	store  *source.MemoryStore
	cache  *cache.LRU[*pixel.Image]
	obs    *observer
	rec    *testutil.Recorder
	target *display.Target
	cfg    Config
}

func newFixture(t *testing.T, size display.Size) *fixture {
	t.Helper()
	f := &fixture{
		store: source.NewMemoryStore(),
		cache: cache.NewLRU[*pixel.Image](1<<20, (*pixel.Image).SizeBytes),
		obs:   &observer{},
		rec:   testutil.NewRecorder(),
	}
	f.target = display.NewTarget("view", display.Inline{}, nil, f.rec.Apply)
	f.cfg = Config{
		Store:    f.store,
		Decoder:  decode.NewStd(),
		Oracle:   display.SizeOracleFunc(func(*display.Target) display.Size { return size }),
		Cache:    f.cache,
		Router:   router.New(nil, nil),
		Observer: f.obs,
	}
	return f
}

func TestRun_DecodesCachesAndDelivers(t *testing.T) {
	f := newFixture(t, display.Size{Width: 200, Height: 300})
	f.store.Put("big.png", testutil.MustPNG(1000, 1000))
	f.target.SetTag("big.png")

	New(f.cfg).Run(context.Background(), Task{Path: "big.png", Target: f.target})

	require.Equal(t, []string{"big.png"}, f.rec.Paths())
	img := f.rec.Deliveries()[0].Image
	assert.Equal(t, 200, img.Width())
	assert.Equal(t, 200, img.Height())

	cached, ok := f.cache.Get("big.png")
	require.True(t, ok)
	assert.Same(t, img, cached)

	require.Len(t, f.obs.records, 1)
	assert.NoError(t, f.obs.records[0].err)
}

func TestLoad_Factor(t *testing.T) {
	tests := []struct {
		name   string
		iw, ih int
		target display.Size
		factor int
	}{
		{"downsample", 1000, 1000, display.Size{Width: 200, Height: 300}, 5},
		{"smaller than target", 100, 100, display.Size{Width: 200, Height: 200}, 1},
		{"unknown target", 100, 100, display.Size{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.target)
			f.store.Put("a.png", testutil.MustPNG(tt.iw, tt.ih))
			dec := &factorDecoder{Decoder: decode.NewStd()}
			f.cfg.Decoder = dec

			img, err := New(f.cfg).Load(context.Background(), Task{Path: "a.png", Target: f.target})
			require.NoError(t, err)
			assert.Equal(t, []int{tt.factor}, dec.factors)
			assert.Equal(t, tt.iw/tt.factor, img.Width())
		})
	}
}

func TestRun_MissingSource(t *testing.T) {
	f := newFixture(t, display.Size{Width: 10, Height: 10})
	f.target.SetTag("missing.png")

	New(f.cfg).Run(context.Background(), Task{Path: "missing.png", Target: f.target})

	assert.Zero(t, f.rec.Len())
	assert.Zero(t, f.cache.Len())

	require.Len(t, f.obs.records, 1)
	err := f.obs.records[0].err
	assert.ErrorIs(t, err, decode.ErrDecodeFailure)
	assert.ErrorIs(t, err, source.ErrNotFound)

	var de *decode.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, decode.StageOpen, de.Stage)
}

func TestRun_CorruptSource(t *testing.T) {
	f := newFixture(t, display.Size{Width: 10, Height: 10})
	f.store.Put("bad.png", []byte("not a png"))
	f.target.SetTag("bad.png")

	New(f.cfg).Run(context.Background(), Task{Path: "bad.png", Target: f.target})

	assert.Zero(t, f.rec.Len())
	assert.Zero(t, f.cache.Len())

	var de *decode.Error
	require.True(t, errors.As(f.obs.records[0].err, &de))
	assert.Equal(t, decode.StageProbe, de.Stage)
}

func TestRun_StaleResultStillCached(t *testing.T) {
	f := newFixture(t, display.Size{Width: 10, Height: 10})
	f.store.Put("a.png", testutil.MustPNG(20, 20))
	f.target.SetTag("b.png")

	New(f.cfg).Run(context.Background(), Task{Path: "a.png", Target: f.target})

	assert.Zero(t, f.rec.Len())
	assert.True(t, f.cache.Contains("a.png"))
}

func TestRun_FirstWriterWins(t *testing.T) {
	f := newFixture(t, display.Size{Width: 10, Height: 10})
	f.store.Put("a.png", testutil.MustPNG(20, 20))
	f.target.SetTag("a.png")

	existing := pixel.New(1, 1)
	require.True(t, f.cache.Put("a.png", existing))

	New(f.cfg).Run(context.Background(), Task{Path: "a.png", Target: f.target})

	cached, _ := f.cache.Get("a.png")
	assert.Same(t, existing, cached)
	require.Equal(t, 1, f.rec.Len())
	assert.NotSame(t, existing, f.rec.Deliveries()[0].Image)
}

func TestRun_OversizedNotRetained(t *testing.T) {
	f := newFixture(t, display.Size{Width: 100, Height: 100})
	f.cfg.Cache = cache.NewLRU[*pixel.Image](16, (*pixel.Image).SizeBytes)
	f.store.Put("a.png", testutil.MustPNG(10, 10))
	f.target.SetTag("a.png")

	New(f.cfg).Run(context.Background(), Task{Path: "a.png", Target: f.target})

	assert.Equal(t, 1, f.rec.Len())
	assert.Zero(t, f.cfg.Cache.Len())
}

func TestRun_OverflowLoggedOnlyWhenInserted(t *testing.T) {
	f := newFixture(t, display.Size{Width: 100, Height: 100})
	f.cfg.Cache = cache.NewLRU[*pixel.Image](300, (*pixel.Image).SizeBytes)
	var buf bytes.Buffer
	f.cfg.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f.store.Put("a.png", testutil.MustPNG(10, 10))
	f.store.Put("b.png", testutil.MustPNG(10, 10))
	l := New(f.cfg)

	// Another worker already cached a.png, so the 400-byte result is discarded.
	require.True(t, f.cfg.Cache.Put("a.png", pixel.New(1, 1)))
	f.target.SetTag("a.png")
	l.Run(context.Background(), Task{Path: "a.png", Target: f.target})
	assert.NotContains(t, buf.String(), "cache overflow single entry")

	f.target.SetTag("b.png")
	l.Run(context.Background(), Task{Path: "b.png", Target: f.target})
	assert.Contains(t, buf.String(), "cache overflow single entry")
	assert.Contains(t, buf.String(), "path=b.png")
	assert.False(t, f.cfg.Cache.Contains("b.png"))
}

func TestLoad_TracksAndLimitsIO(t *testing.T) {
	f := newFixture(t, display.Size{Width: 10, Height: 10})
	f.store.Put("a.png", testutil.MustPNG(10, 10))
	tr := &tracker{}
	f.cfg.Tracker = tr
	f.cfg.Resources = resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})

	_, err := New(f.cfg).Load(context.Background(), Task{Path: "a.png", Target: f.target})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, tr.names)
}

func TestLoad_IOWaitCanceled(t *testing.T) {
	f := newFixture(t, display.Size{Width: 10, Height: 10})
	f.store.Put("a.png", testutil.MustPNG(64, 64))
	// One byte per second: any real file exceeds the first burst.
	f.cfg.Resources = resource.NewController(resource.Config{IOLimitBytesPerSec: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := New(f.cfg).Load(ctx, Task{Path: "a.png", Target: f.target})
	assert.ErrorIs(t, err, decode.ErrDecodeFailure)
}
