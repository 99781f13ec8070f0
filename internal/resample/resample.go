// Package resample turns a source pixel buffer into a buffer of any target
// size. Upscales can be staged in passes of at most 2x and optionally
// sharpened, depending on the quality tier.
package resample

import (
	"fmt"

	"assetgen/internal/postprocess"
	"assetgen/internal/raster"
)

// Resampler resizes buffers with a fixed interpolation primitive.
// It holds no mutable state and is safe for concurrent use.
type Resampler struct {
	interp Interpolator
}

// New returns a Resampler using interp, or DefaultInterpolator when nil.
func New(interp Interpolator) *Resampler {
	if interp == nil {
		interp = DefaultInterpolator
	}
	return &Resampler{interp: interp}
}

// Resample resizes src to target using DefaultInterpolator.
func Resample(src *raster.Buffer, target Size, tier Tier) (*raster.Buffer, error) {
	return New(nil).Resample(src, target, tier)
}

// Resample returns a new buffer of exactly target size. Dimensions are
// checked before anything is allocated. src is never modified.
func (r *Resampler) Resample(src *raster.Buffer, target Size, tier Tier) (*raster.Buffer, error) {
	if src == nil {
		return nil, fmt.Errorf("resample: nil source: %w", raster.ErrBufferSizeMismatch)
	}
	if !src.Size().Valid() {
		return nil, fmt.Errorf("resample: source %s: %w", src.Size(), raster.ErrInvalidDimensions)
	}
	if !target.Valid() {
		return nil, fmt.Errorf("resample: target %s: %w", target, raster.ErrInvalidDimensions)
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	if !tier.Valid() {
		return nil, fmt.Errorf("resample: unknown tier %d", int(tier))
	}

	switch Plan(src.Size(), target, tier) {
	case Direct:
		return r.direct(src, target), nil
	case Staged:
		return r.staged(src, target), nil
	case StagedSharpen:
		out, err := postprocess.Sharpen(r.staged(src, target))
		if err != nil {
			return nil, fmt.Errorf("resample: %w", err)
		}
		return out, nil
	}
	panic("unreachable")
}

func (r *Resampler) direct(src *raster.Buffer, target Size) *raster.Buffer {
	return r.interp.Interpolate(src, target)
}

// staged folds StagedSizes, each step producing a fresh buffer from the
// previous one.
func (r *Resampler) staged(src *raster.Buffer, target Size) *raster.Buffer {
	cur := src
	for _, step := range StagedSizes(src.Size(), target) {
		cur = r.interp.Interpolate(cur, step)
	}
	return cur
}
