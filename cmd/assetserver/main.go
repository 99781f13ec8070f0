package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assetgen/internal/config"
	"assetgen/internal/logging"
	"assetgen/internal/server"
	"assetgen/internal/source"

	"go.uber.org/zap"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json or .yaml)")
	listen := flag.String("listen", "", "Listen address (default: :8080)")
	quality := flag.String("quality", "", "Default quality tier: standard, high, ultra")
	format := flag.String("format", "", "Default export format: png, webp")
	interp := flag.String("interp", "", "Interpolator: catmullrom, bilinear, bicubic, lanczos3")
	fit := flag.String("fit", "", "Aspect handling: stretch, contain (default: stretch)")
	trim := flag.Bool("trim", false, "Crop transparent borders off the source first")
	workers := flag.Int("workers", 0, "Resize workers per export (default: NumCPU)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Listen:       *listen,
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

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	outFormat, err := cfg.EncodeFormat()
	if err != nil {
		return err
	}
	tier, err := cfg.Tier()
	if err != nil {
		return err
	}
	exporter, err := cfg.Exporter(logger)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Cache:          source.NewCache(cfg.CacheSize),
		Exporter:       exporter,
		Logger:         logger,
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		Format:         outFormat,
		Tier:           tier,
	})

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Listen), zap.String("quality", cfg.Quality))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
