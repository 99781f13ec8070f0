package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferRejectsNonPositiveSizes(t *testing.T) {
	for _, s := range []Size{{0, 1}, {1, 0}, {-3, 4}, {4, -3}} {
		b, err := NewBuffer(s)
		assert.ErrorIs(t, err, ErrInvalidDimensions, "size %s", s)
		assert.Nil(t, b)
	}

	b, err := NewBuffer(Size{3, 2})
	require.NoError(t, err)
	assert.Len(t, b.Pix, 3*2*4)
	assert.NoError(t, b.Validate())
}

func TestNewBufferRejectsOversizedSizes(t *testing.T) {
	for _, s := range []Size{
		{1 << 31, 1 << 31},
		{MaxSide + 1, 1},
		{1, MaxSide + 1},
		{MaxSide, MaxSide},
	} {
		assert.False(t, s.Valid(), "size %s", s)
		b, err := NewBuffer(s)
		assert.ErrorIs(t, err, ErrInvalidDimensions, "size %s", s)
		assert.Nil(t, b)
	}

	assert.True(t, Size{MaxSide, MaxPixels / MaxSide}.Valid())
	assert.True(t, Size{8192, 8192}.Valid())

	huge := &Buffer{Width: 1 << 31, Height: 1 << 31}
	assert.ErrorIs(t, huge.Validate(), ErrInvalidDimensions)
}

func TestValidateDetectsLengthMismatch(t *testing.T) {
	b := &Buffer{Width: 2, Height: 2, Pix: make([]uint8, 15)}
	assert.ErrorIs(t, b.Validate(), ErrBufferSizeMismatch)

	var nilBuf *Buffer
	assert.ErrorIs(t, nilBuf.Validate(), ErrBufferSizeMismatch)

	zero := &Buffer{Width: 0, Height: 2}
	assert.ErrorIs(t, zero.Validate(), ErrInvalidDimensions)
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	src.SetNRGBA(6, 5, color.NRGBA{R: 9, G: 8, B: 7, A: 6})

	b := FromImage(src)
	require.NoError(t, b.Validate())
	assert.Equal(t, Size{2, 1}, b.Size())
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, b.At(0, 0))
	assert.Equal(t, color.NRGBA{R: 9, G: 8, B: 7, A: 6}, b.At(1, 0))
}

func TestFromImageOpaqueSources(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 200})

	b := FromImage(gray)
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, b.At(1, 1))
	assert.Equal(t, color.NRGBA{A: 255}, b.At(0, 0))
}

func TestCloneDoesNotAlias(t *testing.T) {
	b, err := NewBuffer(Size{2, 2})
	require.NoError(t, err)
	c := b.Clone()
	c.Set(0, 0, color.NRGBA{R: 10, A: 255})
	assert.Equal(t, color.NRGBA{}, b.At(0, 0))
}

func TestImageViewSharesPixels(t *testing.T) {
	b, err := NewBuffer(Size{3, 2})
	require.NoError(t, err)
	b.Set(2, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	img := b.Image()
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, img.NRGBAAt(2, 1))
}

func TestSampleBilinear(t *testing.T) {
	b, err := NewBuffer(Size{2, 1})
	require.NoError(t, err)
	b.Set(0, 0, color.NRGBA{R: 0, A: 255})
	b.Set(1, 0, color.NRGBA{R: 200, A: 255})

	r, _, _, a := SampleBilinear(b, 0.5, 0)
	assert.Equal(t, uint8(100), r)
	assert.Equal(t, uint8(255), a)

	// clamped outside the buffer
	r, _, _, _ = SampleBilinear(b, -4, 3)
	assert.Equal(t, uint8(0), r)
	r, _, _, _ = SampleBilinear(b, 9, 0)
	assert.Equal(t, uint8(200), r)
}

func TestSampleBilinearIgnoresTransparentColor(t *testing.T) {
	b, err := NewBuffer(Size{2, 1})
	require.NoError(t, err)
	b.Set(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	b.Set(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	r, g, bl, a := SampleBilinear(b, 0.5, 0)
	assert.Equal(t, [4]uint8{10, 20, 30, 128}, [4]uint8{r, g, bl, a})
}
