package testutil

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pixload/pixel"
	"github.com/hupe1980/pixload/source"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711).NoiseImage(8, 8)
	b := NewRNG(4711).NoiseImage(8, 8)
	assert.Equal(t, a.Pix, b.Pix)

	rng := NewRNG(1)
	first := rng.Intn(1000)
	rng.Reset()
	assert.Equal(t, first, rng.Intn(1000))
	assert.Equal(t, int64(1), rng.Seed())
}

func TestRNG_Zipf(t *testing.T) {
	rng := NewRNG(4711)

	counts := make([]int, 10)
	for range 2000 {
		v := rng.Zipf(10, 1.5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 10)
		counts[v]++
	}
	assert.Greater(t, counts[0], counts[9])
	assert.Zero(t, rng.Zipf(1, 1.5))
}

func TestEncodePNG(t *testing.T) {
	data := MustPNG(20, 10)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Width)
	assert.Equal(t, 10, cfg.Height)
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()

	go func() {
		rec.Apply("a", pixel.New(1, 1))
		rec.Apply("b", nil)
	}()

	rec.WaitFor(t, 2, time.Second)
	assert.Equal(t, []string{"a", "b"}, rec.Paths())
	assert.Len(t, rec.Deliveries(), 2)
}

func TestGatedStore(t *testing.T) {
	mem := source.NewMemoryStore()
	mem.Put("a", []byte("x"))
	gated := NewGatedStore(mem)

	done := make(chan error, 1)
	go func() {
		_, err := gated.Open(context.Background(), "a")
		done <- err
	}()

	<-gated.Notify()
	assert.Equal(t, []string{"a"}, gated.Opened())

	select {
	case <-done:
		t.Fatal("open returned before release")
	case <-time.After(20 * time.Millisecond):
	}

	gated.Release()
	require.NoError(t, <-done)
}

func TestCountingStore(t *testing.T) {
	mem := source.NewMemoryStore()
	mem.Put("a", []byte("x"))
	counting := NewCountingStore(mem)

	_, err := counting.Open(context.Background(), "a")
	require.NoError(t, err)
	_, err = counting.Open(context.Background(), "b")
	assert.ErrorIs(t, err, source.ErrNotFound)

	assert.Equal(t, 1, counting.Count("a"))
	assert.Equal(t, 1, counting.Count("b"))
}
