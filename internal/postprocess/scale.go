package postprocess

import (
	"image"

	"assetgen/internal/raster"

	"golang.org/x/image/draw"
)

// Scale resamples src to size in a single pass with premultiplied-alpha-aware
// kernel filtering. This prevents dark halo artifacts at transparent edges.
// It works for any magnification, up or down. The result is a new buffer.
func Scale(src *raster.Buffer, size raster.Size, kernel *draw.Kernel) *raster.Buffer {
	if kernel == nil {
		kernel = draw.CatmullRom
	}

	// Premultiply alpha
	premul := image.NewRGBA(image.Rect(0, 0, src.Width, src.Height))
	for i := 0; i < len(src.Pix); i += 4 {
		a := float64(src.Pix[i+3]) / 255.0
		premul.Pix[i] = uint8(float64(src.Pix[i])*a + 0.5)
		premul.Pix[i+1] = uint8(float64(src.Pix[i+1])*a + 0.5)
		premul.Pix[i+2] = uint8(float64(src.Pix[i+2])*a + 0.5)
		premul.Pix[i+3] = src.Pix[i+3]
	}

	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	kernel.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	// Unpremultiply alpha
	result := &raster.Buffer{
		Width:  size.Width,
		Height: size.Height,
		Pix:    make([]uint8, size.Width*size.Height*4),
	}
	for i := 0; i < len(dst.Pix); i += 4 {
		a := float64(dst.Pix[i+3])
		if a > 1 {
			inv := 255.0 / a
			result.Pix[i] = raster.Clamp8(float64(dst.Pix[i]) * inv)
			result.Pix[i+1] = raster.Clamp8(float64(dst.Pix[i+1]) * inv)
			result.Pix[i+2] = raster.Clamp8(float64(dst.Pix[i+2]) * inv)
		}
		result.Pix[i+3] = dst.Pix[i+3]
	}

	return result
}
