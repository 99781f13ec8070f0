package postprocess

import "assetgen/internal/raster"

// TrimTransparent crops buf to the bounding box of its non-transparent
// pixels. A fully transparent buffer is returned as a copy.
func TrimTransparent(buf *raster.Buffer) (*raster.Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	minX, minY := buf.Width, buf.Height
	maxX, maxY := -1, -1
	for y := 0; y < buf.Height; y++ {
		row := y * buf.Width * 4
		for x := 0; x < buf.Width; x++ {
			if buf.Pix[row+x*4+3] == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return buf.Clone(), nil
	}

	cropW := maxX - minX + 1
	cropH := maxY - minY + 1
	cropped, err := raster.NewBuffer(raster.Size{Width: cropW, Height: cropH})
	if err != nil {
		return nil, err
	}
	for y := 0; y < cropH; y++ {
		srcOff := buf.Offset(minX, minY+y)
		dstOff := y * cropW * 4
		copy(cropped.Pix[dstOff:dstOff+cropW*4], buf.Pix[srcOff:srcOff+cropW*4])
	}
	return cropped, nil
}

// Center places buf in the middle of a transparent canvas of the given
// size. Parts of buf that do not fit are clipped.
func Center(buf *raster.Buffer, canvas raster.Size) (*raster.Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	out, err := raster.NewBuffer(canvas)
	if err != nil {
		return nil, err
	}

	offX := (canvas.Width - buf.Width) / 2
	offY := (canvas.Height - buf.Height) / 2
	for y := 0; y < buf.Height; y++ {
		dy := offY + y
		if dy < 0 || dy >= canvas.Height {
			continue
		}
		x0 := max(0, -offX)
		x1 := min(buf.Width, canvas.Width-offX)
		if x1 <= x0 {
			continue
		}
		copy(out.Pix[out.Offset(offX+x0, dy):out.Offset(offX+x1-1, dy)+4], buf.Pix[buf.Offset(x0, y):buf.Offset(x1-1, y)+4])
	}
	return out, nil
}
