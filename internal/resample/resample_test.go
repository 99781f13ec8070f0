package resample

import (
	"image/color"
	"testing"

	"assetgen/internal/postprocess"
	"assetgen/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTiers = []Tier{Standard, High, Ultra}

func solid(t *testing.T, w, h int, c color.NRGBA) *raster.Buffer {
	t.Helper()
	b, err := raster.NewBuffer(Size{Width: w, Height: h})
	require.NoError(t, err)
	b.Fill(c)
	return b
}

func checkerboard(t *testing.T, w, h, cell int) *raster.Buffer {
	t.Helper()
	b := solid(t, w, h, color.NRGBA{A: 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				b.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return b
}

func gradient(t *testing.T, w, h int) *raster.Buffer {
	t.Helper()
	b := solid(t, w, h, color.NRGBA{})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x*7 + y*13) % 256),
				A: 255,
			})
		}
	}
	return b
}

// recorder wraps an interpolator and records every requested size.
type recorder struct {
	inner Interpolator
	sizes []Size
}

func (r *recorder) Interpolate(src *raster.Buffer, size Size) *raster.Buffer {
	r.sizes = append(r.sizes, size)
	return r.inner.Interpolate(src, size)
}

func TestDownscaleIgnoresTier(t *testing.T) {
	src := checkerboard(t, 100, 100, 5)
	target := Size{Width: 50, Height: 50}

	want, err := Resample(src, target, Standard)
	require.NoError(t, err)
	require.Len(t, want.Pix, 50*50*4)

	for _, tier := range allTiers {
		got, err := Resample(src, target, tier)
		require.NoError(t, err)
		assert.Equal(t, want.Pix, got.Pix, "tier %s", tier)
	}
}

func TestSameSizeAndMixedDownscaleIgnoreTier(t *testing.T) {
	src := gradient(t, 40, 30)
	for _, target := range []Size{{Width: 40, Height: 30}, {Width: 10, Height: 30}, {Width: 39, Height: 1}} {
		want, err := Resample(src, target, Standard)
		require.NoError(t, err)
		for _, tier := range allTiers {
			got, err := Resample(src, target, tier)
			require.NoError(t, err)
			assert.Equal(t, want.Pix, got.Pix, "tier %s target %s", tier, target)
		}
	}
}

func TestSmallUpscaleHighEqualsDirect(t *testing.T) {
	src := gradient(t, 20, 20)
	for _, target := range []Size{{Width: 39, Height: 39}, {Width: 30, Height: 20}, {Width: 20, Height: 25}} {
		direct, err := Resample(src, target, Standard)
		require.NoError(t, err)
		high, err := Resample(src, target, High)
		require.NoError(t, err)
		assert.Equal(t, direct.Pix, high.Pix, "target %s", target)
	}
}

func TestUltraIsStagedThenSharpened(t *testing.T) {
	src := gradient(t, 16, 16)
	target := Size{Width: 64, Height: 64}

	high, err := Resample(src, target, High)
	require.NoError(t, err)
	want, err := postprocess.Sharpen(high)
	require.NoError(t, err)

	ultra, err := Resample(src, target, Ultra)
	require.NoError(t, err)
	assert.Equal(t, want.Pix, ultra.Pix)
}

func TestStandardUpscaleNeverStages(t *testing.T) {
	rec := &recorder{inner: Bilinear}
	_, err := New(rec).Resample(gradient(t, 8, 8), Size{Width: 128, Height: 128}, Standard)
	require.NoError(t, err)
	assert.Equal(t, []Size{{Width: 128, Height: 128}}, rec.sizes)
}

func TestHighUpscalePassesThroughDoublingStages(t *testing.T) {
	rec := &recorder{inner: Bilinear}
	out, err := New(rec).Resample(gradient(t, 32, 32), Size{Width: 256, Height: 256}, High)
	require.NoError(t, err)

	assert.Equal(t, []Size{{64, 64}, {128, 128}, {256, 256}}, rec.sizes)
	assert.Equal(t, Size{Width: 256, Height: 256}, out.Size())
}

func TestUltraSolidRedUpscale(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	out, err := Resample(solid(t, 64, 64, red), Size{Width: 512, Height: 512}, Ultra)
	require.NoError(t, err)
	require.Len(t, out.Pix, 512*512*4)

	for y := 1; y < out.Height-1; y++ {
		for x := 1; x < out.Width-1; x++ {
			if out.At(x, y) != red {
				t.Fatalf("pixel %d,%d = %v, want %v", x, y, out.At(x, y), red)
			}
		}
	}
}

func TestResampleRejectsInvalidDimensions(t *testing.T) {
	src := solid(t, 4, 4, color.NRGBA{A: 255})
	for _, tier := range allTiers {
		for _, target := range []Size{{Width: 0, Height: 4}, {Width: 4, Height: 0}, {Width: -1, Height: 8}, {Width: 8, Height: -2}} {
			out, err := Resample(src, target, tier)
			assert.ErrorIs(t, err, raster.ErrInvalidDimensions, "tier %s target %s", tier, target)
			assert.Nil(t, out)
		}
		_, err := Resample(&raster.Buffer{Width: 0, Height: 3}, Size{Width: 2, Height: 2}, tier)
		assert.ErrorIs(t, err, raster.ErrInvalidDimensions)
	}
}

func TestResampleRejectsOversizedTargets(t *testing.T) {
	src := solid(t, 4, 4, color.NRGBA{A: 255})
	targets := []Size{
		{Width: 1 << 31, Height: 1 << 31},
		{Width: raster.MaxSide + 1, Height: 4},
		{Width: 60000, Height: 60000},
	}
	for _, interp := range []Interpolator{Bilinear, CatmullRom} {
		r := New(interp)
		for _, tier := range allTiers {
			for _, target := range targets {
				var out *raster.Buffer
				var err error
				require.NotPanics(t, func() { out, err = r.Resample(src, target, tier) })
				assert.ErrorIs(t, err, raster.ErrInvalidDimensions, "tier %s target %s", tier, target)
				assert.Nil(t, out)
			}
		}
	}
}

func TestResampleRejectsMalformedSource(t *testing.T) {
	bad := &raster.Buffer{Width: 4, Height: 4, Pix: make([]uint8, 8)}
	_, err := Resample(bad, Size{Width: 8, Height: 8}, High)
	assert.ErrorIs(t, err, raster.ErrBufferSizeMismatch)

	_, err = Resample(nil, Size{Width: 8, Height: 8}, High)
	assert.ErrorIs(t, err, raster.ErrBufferSizeMismatch)
}

func TestResampleRejectsUnknownTier(t *testing.T) {
	_, err := Resample(solid(t, 2, 2, color.NRGBA{A: 255}), Size{Width: 8, Height: 8}, Tier(9))
	assert.Error(t, err)
}

func TestResampleLeavesSourceUntouched(t *testing.T) {
	src := gradient(t, 10, 10)
	orig := src.Clone()
	for _, tier := range allTiers {
		_, err := Resample(src, Size{Width: 45, Height: 33}, tier)
		require.NoError(t, err)
	}
	assert.Equal(t, orig.Pix, src.Pix)
}

func TestResampleIsDeterministic(t *testing.T) {
	src := gradient(t, 13, 7)
	a, err := Resample(src, Size{Width: 100, Height: 90}, Ultra)
	require.NoError(t, err)
	b, err := Resample(src, Size{Width: 100, Height: 90}, Ultra)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestBuiltinInterpolatorsProduceTargetSize(t *testing.T) {
	src := gradient(t, 24, 18)
	for _, name := range InterpolatorNames() {
		in, err := InterpolatorByName(name)
		require.NoError(t, err)
		r := New(in)
		for _, target := range []Size{{Width: 100, Height: 75}, {Width: 7, Height: 5}, {Width: 24, Height: 40}} {
			for _, tier := range allTiers {
				out, err := r.Resample(src, target, tier)
				require.NoError(t, err, "%s %s %s", name, target, tier)
				require.NoError(t, out.Validate())
				assert.Equal(t, target, out.Size(), "%s %s %s", name, target, tier)
			}
		}
	}
}

func TestFlatColorSurvivesKernelInterpolators(t *testing.T) {
	c := color.NRGBA{R: 12, G: 200, B: 99, A: 255}
	src := solid(t, 10, 10, c)
	for _, in := range []Interpolator{CatmullRom, Bilinear} {
		out := in.Interpolate(src, Size{Width: 37, Height: 21})
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				require.Equal(t, c, out.At(x, y))
			}
		}
	}
}

func TestInterpolatorByName(t *testing.T) {
	in, err := InterpolatorByName("")
	require.NoError(t, err)
	assert.Equal(t, DefaultInterpolator, in)

	in, err = InterpolatorByName(" Lanczos3 ")
	require.NoError(t, err)
	assert.Equal(t, Lanczos3, in)

	_, err = InterpolatorByName("nearest")
	assert.Error(t, err)
}
