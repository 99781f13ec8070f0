package raster

// SampleBilinear performs bilinear filtering at the continuous pixel
// coordinate (fx, fy), where pixel centers sit at integer positions.
// Coordinates outside the buffer are clamped to the edge.
// Channels are weighted by alpha so transparent texels do not bleed color.
func SampleBilinear(buf *Buffer, fx, fy float64) (r, g, b, a uint8) {
	w := buf.Width
	h := buf.Height

	fx = clampF(fx, 0, float64(w-1))
	fy = clampF(fy, 0, float64(h-1))

	x0 := int(fx)
	y0 := int(fy)
	x1 := min(x0+1, w-1)
	y1 := min(y0+1, h-1)
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	pix := buf.Pix

	// Four texels
	i00 := buf.Offset(x0, y0)
	i10 := buf.Offset(x1, y0)
	i01 := buf.Offset(x0, y1)
	i11 := buf.Offset(x1, y1)

	w00 := (1 - dx) * (1 - dy) * float64(pix[i00+3])
	w10 := dx * (1 - dy) * float64(pix[i10+3])
	w01 := (1 - dx) * dy * float64(pix[i01+3])
	w11 := dx * dy * float64(pix[i11+3])

	fa := w00 + w10 + w01 + w11
	if fa <= 0 {
		return 0, 0, 0, 0
	}

	fr := (float64(pix[i00])*w00 + float64(pix[i10])*w10 + float64(pix[i01])*w01 + float64(pix[i11])*w11) / fa
	fg := (float64(pix[i00+1])*w00 + float64(pix[i10+1])*w10 + float64(pix[i01+1])*w01 + float64(pix[i11+1])*w11) / fa
	fb := (float64(pix[i00+2])*w00 + float64(pix[i10+2])*w10 + float64(pix[i01+2])*w01 + float64(pix[i11+2])*w11) / fa

	return Clamp8(fr), Clamp8(fg), Clamp8(fb), Clamp8(fa)
}

// Clamp8 rounds v to the nearest byte value, saturating at 0 and 255.
func Clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
