package source

import (
	"bytes"
	"image"
	"math"

	"assetgen/internal/raster"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	// DefaultSVGSize is used when the viewBox carries no size.
	DefaultSVGSize = 1024
	// MaxSVGSize caps the longer side of a rasterized SVG.
	MaxSVGSize = 4096
)

// RasterizeSVG renders svgData at its viewBox size onto a transparent canvas.
func RasterizeSVG(svgData []byte) (*raster.Buffer, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}

	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 || h <= 0 {
		w, h = DefaultSVGSize, DefaultSVGSize
	}
	if longest := max(w, h); longest > MaxSVGSize {
		scale := float64(MaxSVGSize) / float64(longest)
		w = max(1, int(math.Round(float64(w)*scale)))
		h = max(1, int(math.Round(float64(h)*scale)))
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	return raster.FromImage(dst), nil
}
