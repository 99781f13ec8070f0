// Package export drives a full export: resize every entry of a bundle,
// then package the results as a zip archive or a standalone file.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"assetgen/internal/archive"
	"assetgen/internal/batch"
	"assetgen/internal/encode"
	"assetgen/internal/postprocess"
	"assetgen/internal/preset"
	"assetgen/internal/raster"
	"assetgen/internal/resample"

	"go.uber.org/zap"
)

// ErrNothingGenerated is returned when every entry of a bundle failed.
var ErrNothingGenerated = errors.New("no entries generated")

// Artifact is a downloadable export result.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Report summarises an export.
type Report struct {
	Generated int
	Failed    []batch.Result
}

// Exporter runs exports. It is safe for concurrent use.
type Exporter struct {
	resampler    *resample.Resampler
	workers      int
	allOrNothing bool
	fit          preset.Fit
	trim         bool
	logger       *zap.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithResampler sets the resampler used for every entry.
func WithResampler(r *resample.Resampler) Option {
	return func(e *Exporter) {
		e.resampler = r
	}
}

// WithWorkers sets the number of parallel resize jobs per export.
func WithWorkers(n int) Option {
	return func(e *Exporter) {
		e.workers = n
	}
}

// WithAllOrNothing makes an export fail as a whole when any entry fails.
func WithAllOrNothing(v bool) Option {
	return func(e *Exporter) {
		e.allOrNothing = v
	}
}

// WithFit sets how sources are mapped onto entries of another aspect ratio.
func WithFit(f preset.Fit) Option {
	return func(e *Exporter) {
		e.fit = f
	}
}

// WithTrim crops transparent borders off the source before resizing.
func WithTrim(v bool) Option {
	return func(e *Exporter) {
		e.trim = v
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) {
		e.logger = l
	}
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		resampler: resample.New(nil),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export resizes src to every entry of bundle. Archived bundles produce a
// zip; the custom bundle produces the single encoded image.
func (e *Exporter) Export(ctx context.Context, src *raster.Buffer, bundle preset.Bundle, tier resample.Tier, format encode.Format) (*Artifact, *Report, error) {
	src, err := e.prepare(src)
	if err != nil {
		return nil, &Report{}, fmt.Errorf("export %s: %w", bundle.Kind, err)
	}

	results, err := batch.Run(ctx, batch.Config{
		Resampler:    e.resampler,
		Tier:         tier,
		Format:       format,
		Workers:      e.workers,
		Fit:          e.fit,
		AllOrNothing: e.allOrNothing,
		Logger:       e.logger,
	}, src, bundle)

	report := &Report{}
	for _, r := range results {
		if r.Success() {
			report.Generated++
		} else {
			report.Failed = append(report.Failed, r)
		}
	}
	if err != nil {
		return nil, report, fmt.Errorf("export %s: %w", bundle.Kind, err)
	}
	if report.Generated == 0 {
		if len(report.Failed) > 0 && report.Failed[0].Err != nil {
			return nil, report, fmt.Errorf("export %s: %w: %w", bundle.Kind, ErrNothingGenerated, report.Failed[0].Err)
		}
		return nil, report, fmt.Errorf("export %s: %w", bundle.Kind, ErrNothingGenerated)
	}

	if !bundle.Archived() {
		r := results[0]
		return &Artifact{Name: r.FileName, ContentType: format.ContentType(), Data: r.Data}, report, nil
	}

	var extras []archive.File
	if bundle.ICO != "" {
		if data, err := buildICO(bundle, results); err != nil {
			e.logger.Warn("icon skipped", zap.String("file", bundle.ICO), zap.Error(err))
		} else {
			extras = append(extras, archive.File{Name: bundle.ICO, Data: data})
		}
	}

	var buf bytes.Buffer
	if err := archive.Write(&buf, bundle.Folder, results, extras...); err != nil {
		return nil, report, fmt.Errorf("export %s: %w", bundle.Kind, err)
	}
	return &Artifact{Name: bundle.Archive, ContentType: "application/zip", Data: buf.Bytes()}, report, nil
}

// prepare applies the source-wide steps that run before any resize.
func (e *Exporter) prepare(src *raster.Buffer) (*raster.Buffer, error) {
	if !e.trim {
		return src, nil
	}
	return postprocess.TrimTransparent(src)
}

func buildICO(bundle preset.Bundle, results []batch.Result) ([]byte, error) {
	var bufs []*raster.Buffer
	for _, r := range results {
		if r.Success() && r.Buffer != nil && slices.Contains(bundle.ICOSizes, r.Entry.Width) {
			bufs = append(bufs, r.Buffer)
		}
	}
	var out bytes.Buffer
	if err := encode.ICO(&out, bufs...); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Preview resizes src to size and returns PNG bytes for display.
func (e *Exporter) Preview(src *raster.Buffer, size raster.Size, tier resample.Tier) ([]byte, error) {
	src, err := e.prepare(src)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", size, err)
	}
	buf, err := batch.Resize(batch.Config{Resampler: e.resampler, Tier: tier, Fit: e.fit}, src, size)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", size, err)
	}
	return encode.Bytes(buf, encode.PNG)
}
