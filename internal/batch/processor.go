// Package batch resizes one source into many sizes in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"assetgen/internal/encode"
	"assetgen/internal/postprocess"
	"assetgen/internal/preset"
	"assetgen/internal/raster"
	"assetgen/internal/resample"

	"go.uber.org/zap"
)

// Config holds the shared settings for a batch run.
type Config struct {
	Resampler *resample.Resampler
	Tier      resample.Tier
	Format    encode.Format
	Workers   int
	// Fit controls entries whose aspect ratio differs from the source.
	// The zero value stretches.
	Fit preset.Fit
	// AllOrNothing makes Run return an error when any entry fails.
	// Results are still returned for every entry.
	AllOrNothing bool
	Logger       *zap.Logger
	// ProgressInterval controls how often progress is logged. Zero means 2s.
	ProgressInterval time.Duration
}

// Result holds the outcome of one entry.
type Result struct {
	Entry    preset.Entry
	FileName string
	Data     []byte
	Buffer   *raster.Buffer
	Err      error
}

// Success reports whether the entry produced encoded bytes.
func (r Result) Success() bool {
	return r.Err == nil && len(r.Data) > 0
}

// Run resizes src to every entry of bundle using a worker pool. A failing
// entry never affects the others. Results are returned in entry order.
func Run(ctx context.Context, cfg Config, src *raster.Buffer, bundle preset.Bundle) ([]Result, error) {
	if cfg.Resampler == nil {
		cfg.Resampler = resample.New(nil)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 2 * time.Second
	}

	entries := bundle.Entries
	total := len(entries)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()
	log := cfg.Logger.With(zap.String("bundle", string(bundle.Kind)), zap.Stringer("tier", cfg.Tier))

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					log.Info("progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("per_sec", float64(p)/time.Since(start).Seconds()))
				}
			}
		}
	}()

	// Worker pool
	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processEntry(ctx, cfg, src, bundle, entries[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range entries {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			log.Warn("entry failed", zap.String("file", r.FileName), zap.Error(r.Err))
			errs = append(errs, r.Err)
		}
	}
	log.Info("batch finished",
		zap.Int("generated", total-len(errs)),
		zap.Int("failed", len(errs)),
		zap.Duration("elapsed", time.Since(start)))

	if cfg.AllOrNothing && len(errs) > 0 {
		return results, fmt.Errorf("batch: %d of %d entries failed: %w", len(errs), total, errors.Join(errs...))
	}
	return results, nil
}

// processEntry runs on a pool goroutine, where an unrecovered panic would
// take down the process. A panic is reported as the entry's error.
func processEntry(ctx context.Context, cfg Config, src *raster.Buffer, bundle preset.Bundle, e preset.Entry) (res Result) {
	res = Result{
		Entry:    e,
		FileName: bundle.FileName(e, cfg.Format.Ext()),
	}
	defer func() {
		if p := recover(); p != nil {
			res = Result{Entry: e, FileName: res.FileName, Err: fmt.Errorf("%s: panic: %v", res.FileName, p)}
		}
	}()
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	buf, err := Resize(cfg, src, e.Size())
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", res.FileName, err)
		return res
	}

	data, err := encode.Bytes(buf, cfg.Format)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", res.FileName, err)
		return res
	}
	if len(data) == 0 {
		res.Err = fmt.Errorf("%s: encoder produced no data", res.FileName)
		return res
	}

	res.Buffer = buf
	res.Data = data
	return res
}

// Resize maps src onto target with cfg's resampler, tier and fit.
func Resize(cfg Config, src *raster.Buffer, target raster.Size) (*raster.Buffer, error) {
	if cfg.Resampler == nil {
		cfg.Resampler = resample.New(nil)
	}
	if cfg.Fit != preset.Contain || src == nil || !src.Size().Valid() || !target.Valid() {
		return cfg.Resampler.Resample(src, target, cfg.Tier)
	}
	inner, err := cfg.Resampler.Resample(src, preset.ContainSize(src.Size(), target), cfg.Tier)
	if err != nil {
		return nil, err
	}
	return postprocess.Center(inner, target)
}
