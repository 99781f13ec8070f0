package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"assetgen/internal/config"
	"assetgen/internal/encode"
	"assetgen/internal/export"
	"assetgen/internal/logging"
	"assetgen/internal/preset"
	"assetgen/internal/resample"
	"assetgen/internal/source"

	"go.uber.org/zap"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .yaml)")
	bundleName := flag.String("bundle", "standard", "Bundle to export: standard, android, ios, favicon, custom or all")
	sizeFlag := flag.String("size", "", "Output size WxH (required for -bundle custom)")
	outputDir := flag.String("output", "", "Output directory (default: current directory)")
	quality := flag.String("quality", "", "Quality tier: standard, high, ultra (default: high)")
	format := flag.String("format", "", "Output format: png, webp (default: png)")
	interp := flag.String("interp", "", "Interpolator: catmullrom, bilinear, bicubic, lanczos3")
	fit := flag.String("fit", "", "Aspect handling: stretch, contain (default: stretch)")
	trim := flag.Bool("trim", false, "Crop transparent borders off the source first")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: assetgen [flags] <image or directory>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:    *outputDir,
		Quality:      *quality,
		Format:       *format,
		Interpolator: *interp,
		Workers:      *workers,
		Fit:          *fit,
		Trim:         *trim,
		LogLevel:     *logLevel,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	tier, _ := cfg.Tier()
	outFormat, _ := cfg.EncodeFormat()
	exporter, err := cfg.Exporter(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	bundles, err := selectBundles(*bundleName, *sizeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	inputs := []string{input}
	outDirFor := func(string) string { return cfg.OutputDir }
	if source.IsDir(input) {
		inputs, err = source.Scan(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", input, err)
			os.Exit(1)
		}
		if len(inputs) == 0 {
			fmt.Println("No images found.")
			os.Exit(0)
		}
		outDirFor = func(path string) string { return filepath.Join(cfg.OutputDir, source.Stem(path)) }
	}

	fmt.Printf("Image Asset Generator → %s\n", strings.ToUpper(outFormat.String()))
	fmt.Printf("Images: %d, Bundles: %d\n", len(inputs), len(bundles))
	fmt.Printf("Quality: %s, Fit: %s, Workers: %d\n", tier, cfg.Fit, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	failed := 0
	for _, path := range inputs {
		if ctx.Err() != nil {
			break
		}
		j := job{
			exporter: exporter,
			bundles:  bundles,
			tier:     tier,
			format:   outFormat,
			outDir:   outDirFor(path),
			logger:   logger,
		}
		failed += j.run(ctx, path)
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	if failed > 0 || ctx.Err() != nil {
		os.Exit(1)
	}
}

// job exports every selected bundle of one source image.
type job struct {
	exporter *export.Exporter
	bundles  []preset.Bundle
	tier     resample.Tier
	format   encode.Format
	outDir   string
	logger   *zap.Logger
}

// run returns the number of entries and bundles that failed.
func (j job) run(ctx context.Context, path string) int {
	src, err := source.DecodeFile(path)
	if err != nil {
		fmt.Printf("%s: %v\n", path, err)
		return 1
	}
	fmt.Printf("%s (%s, %s)\n", path, src.Format, src.Size())

	if err := os.MkdirAll(j.outDir, 0755); err != nil {
		fmt.Printf("  %v\n", err)
		return 1
	}

	failed := 0
	for _, b := range j.bundles {
		art, report, err := j.exporter.Export(ctx, src.Buffer, b, j.tier, j.format)
		if report != nil {
			failed += len(report.Failed)
			for _, r := range report.Failed {
				fmt.Printf("  %s: %v\n", r.FileName, r.Err)
			}
		}
		if err != nil {
			j.logger.Error("export failed", zap.String("source", path), zap.String("bundle", string(b.Kind)), zap.Error(err))
			failed++
			continue
		}

		out := filepath.Join(j.outDir, art.Name)
		if err := os.WriteFile(out, art.Data, 0644); err != nil {
			j.logger.Error("write failed", zap.String("path", out), zap.Error(err))
			failed++
			continue
		}
		fmt.Printf("  %-10s %d/%d → %s\n", b.Kind, report.Generated, len(b.Entries), out)
	}
	return failed
}

// selectBundles resolves the -bundle and -size flags.
func selectBundles(name, size string) ([]preset.Bundle, error) {
	switch strings.ToLower(name) {
	case "all":
		var out []preset.Bundle
		for _, k := range preset.Kinds() {
			b, _ := preset.Lookup(k)
			out = append(out, b)
		}
		return out, nil
	case string(preset.Custom):
		if size == "" {
			return nil, fmt.Errorf("-bundle custom requires -size WxH")
		}
		s, err := preset.ParseSize(size)
		if err != nil {
			return nil, err
		}
		b, err := preset.NewCustom(s)
		if err != nil {
			return nil, err
		}
		return []preset.Bundle{b}, nil
	}

	b, ok := preset.Lookup(preset.Kind(name))
	if !ok {
		return nil, fmt.Errorf("unknown bundle %q", name)
	}
	return []preset.Bundle{b}, nil
}
