package pixel

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImage_SizeBytes(t *testing.T) {
	img := New(10, 5)
	assert.Equal(t, 10, img.Width())
	assert.Equal(t, 5, img.Height())
	assert.Equal(t, 40, img.BytesPerRow())
	assert.Equal(t, int64(200), img.SizeBytes())
}

func TestImage_NilSafe(t *testing.T) {
	var img *Image
	assert.Equal(t, 0, img.Width())
	assert.Equal(t, int64(0), img.SizeBytes())
}

func TestFromImage(t *testing.T) {
	t.Run("rgba is wrapped", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 3, 3))
		img := FromImage(src)
		assert.Same(t, src, img.RGBA)
	})

	t.Run("offset bounds are normalized", func(t *testing.T) {
		src := image.NewGray(image.Rect(2, 2, 6, 4))
		src.SetGray(2, 2, color.Gray{Y: 200})
		img := FromImage(src)
		assert.Equal(t, image.Rect(0, 0, 4, 2), img.Rect)
		r, g, b, _ := img.At(0, 0).RGBA()
		assert.Equal(t, r, g)
		assert.Equal(t, g, b)
		assert.NotZero(t, r)
	})
}
