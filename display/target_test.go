package display

import (
	"sync"
	"testing"

	"github.com/hupe1980/pixload/pixel"
	"github.com/stretchr/testify/assert"
)

func TestTarget_Tag(t *testing.T) {
	target := NewTarget("cell-1", Inline{}, nil, nil)
	assert.Equal(t, "", target.Tag())

	target.SetTag("a.png")
	assert.Equal(t, "a.png", target.Tag())

	target.SetTag("b.png")
	assert.Equal(t, "b.png", target.Tag())
	assert.Equal(t, "cell-1", target.Name())
}

func TestTarget_ConcurrentTagging(t *testing.T) {
	target := NewTarget("cell", Inline{}, nil, nil)

	var wg sync.WaitGroup
	for _, p := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				target.SetTag(p)
				_ = target.Tag()
			}
		}()
	}
	wg.Wait()

	assert.Contains(t, []string{"a", "b", "c", "d"}, target.Tag())
}

func TestTarget_Apply(t *testing.T) {
	var gotPath string
	var gotImg *pixel.Image
	target := NewTarget("t", Inline{}, nil, func(path string, img *pixel.Image) {
		gotPath, gotImg = path, img
	})

	img := pixel.New(1, 1)
	target.Apply("x", img)
	assert.Equal(t, "x", gotPath)
	assert.Same(t, img, gotImg)

	// nil apply is a no-op
	NewTarget("t", Inline{}, nil, nil).Apply("x", img)
}
