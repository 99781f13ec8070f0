package resample

import "assetgen/internal/raster"

// Size is an alias kept local to the package API.
type Size = raster.Size

// StageThreshold is the magnification below which staging is skipped.
const StageThreshold = 2.0

// MagnificationFactor returns max(target.W/src.W, target.H/src.H).
func MagnificationFactor(src, target Size) float64 {
	sx := float64(target.Width) / float64(src.Width)
	sy := float64(target.Height) / float64(src.Height)
	return max(sx, sy)
}

// StagedSizes returns the sequence of intermediate sizes a staged resize
// passes through, ending with target. Each step at most doubles each axis
// and never exceeds the target on either axis. Below StageThreshold the
// sequence is just [target], i.e. a direct resize.
func StagedSizes(src, target Size) []Size {
	if MagnificationFactor(src, target) < StageThreshold {
		return []Size{target}
	}

	var steps []Size
	cur := src
	for cur.Width < target.Width || cur.Height < target.Height {
		cur = Size{
			Width:  min(cur.Width*2, target.Width),
			Height: min(cur.Height*2, target.Height),
		}
		steps = append(steps, cur)
	}
	if len(steps) == 0 || steps[len(steps)-1] != target {
		steps = append(steps, target)
	}
	return steps
}
