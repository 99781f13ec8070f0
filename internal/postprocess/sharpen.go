package postprocess

import (
	"fmt"
	"math"

	"assetgen/internal/raster"
)

// Sharpening weights. The kernel output is blended back into the original
// at a fixed ratio to temper ringing.
const (
	sharpenKeep  = 0.7
	sharpenBlend = 0.3
)

var sharpenKernel = [9]float64{
	0, -0.5, 0,
	-0.5, 3, -0.5,
	0, -0.5, 0,
}

// Sharpen applies a 3x3 unsharp-mask style convolution to the red, green and
// blue channels of every interior pixel and returns a new buffer of the same
// size. Border pixels and all alpha values are copied unchanged; the kernel
// never reads outside the buffer. The input is only read.
func Sharpen(buf *raster.Buffer) (*raster.Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("postprocess: sharpen: %w", err)
	}

	w, h := buf.Width, buf.Height
	src := buf.Pix
	out := buf.Clone()

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			for c := 0; c < 3; c++ {
				var sum float64
				for ky := 0; ky < 3; ky++ {
					row := (y + ky - 1) * w
					for kx := 0; kx < 3; kx++ {
						k := sharpenKernel[ky*3+kx]
						if k == 0 {
							continue
						}
						sum += float64(src[(row+x+kx-1)*4+c]) * k
					}
				}

				i := (y*w+x)*4 + c
				sharpened := math.Max(0, math.Min(255, sum))
				out.Pix[i] = uint8(math.Round(float64(src[i])*sharpenKeep + sharpened*sharpenBlend))
			}
		}
	}

	return out, nil
}
