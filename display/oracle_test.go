package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackOracle_Chain(t *testing.T) {
	screen := Size{Width: 1080, Height: 1920}

	tests := []struct {
		name     string
		measured Size
		declared Size
		max      Size
		legacy   bool
		want     Size
	}{
		{
			name:     "measured wins",
			measured: Size{Width: 100, Height: 80},
			declared: Size{Width: 300, Height: 300},
			want:     Size{Width: 100, Height: 80},
		},
		{
			name:     "declared when unmeasured",
			declared: Size{Width: 300, Height: 200},
			max:      Size{Width: 500, Height: 500},
			want:     Size{Width: 300, Height: 200},
		},
		{
			name: "max when no declared size",
			max:  Size{Width: 500, Height: 400},
			want: Size{Width: 500, Height: 400},
		},
		{
			name: "screen as last resort",
			want: Size{Width: 1080, Height: 1920},
		},
		{
			name:   "legacy height uses screen width",
			legacy: true,
			want:   Size{Width: 1080, Height: 1080},
		},
		{
			name:     "dimensions resolve independently",
			measured: Size{Width: 64},
			declared: Size{Height: -1},
			max:      Size{Height: 90},
			want:     Size{Width: 64, Height: 90},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeometry(tt.declared, tt.max, screen)
			g.SetMeasured(tt.measured)
			target := NewTarget("t", Inline{}, g, nil)

			o := &FallbackOracle{LegacyHeightFallback: tt.legacy}
			assert.Equal(t, tt.want, o.ResolveSize(target))
		})
	}
}

func TestSizeOracleFunc(t *testing.T) {
	o := SizeOracleFunc(func(*Target) Size { return Size{Width: 7, Height: 9} })
	assert.Equal(t, Size{Width: 7, Height: 9}, o.ResolveSize(NewTarget("t", Inline{}, nil, nil)))
}
