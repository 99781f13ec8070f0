package postprocess

import (
	"image/color"
	"testing"

	"assetgen/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

func TestScaleKeepsFlatColor(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	src := newBuffer(t, 8, 8)
	src.Fill(red)

	for _, size := range []raster.Size{{Width: 16, Height: 16}, {Width: 3, Height: 5}, {Width: 8, Height: 8}} {
		out := Scale(src, size, draw.CatmullRom)
		require.NoError(t, out.Validate())
		assert.Equal(t, size, out.Size())
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				require.Equal(t, red, out.At(x, y), "pixel %d,%d at %s", x, y, size)
			}
		}
	}
}

func TestScaleFullyTransparentStaysTransparent(t *testing.T) {
	src := newBuffer(t, 4, 4)
	src.Fill(color.NRGBA{R: 255, G: 255, B: 255, A: 0})

	out := Scale(src, raster.Size{Width: 9, Height: 9}, nil)
	for i := 0; i < len(out.Pix); i += 4 {
		require.Equal(t, []uint8{0, 0, 0, 0}, out.Pix[i:i+4])
	}
}

func TestScaleDoesNotTouchSource(t *testing.T) {
	src := newBuffer(t, 6, 6)
	noise(src)
	orig := src.Clone()

	_ = Scale(src, raster.Size{Width: 13, Height: 2}, draw.BiLinear)
	assert.Equal(t, orig.Pix, src.Pix)
}
