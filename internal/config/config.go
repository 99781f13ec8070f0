package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"assetgen/internal/encode"
	"assetgen/internal/export"
	"assetgen/internal/logging"
	"assetgen/internal/preset"
	"assetgen/internal/resample"
	"assetgen/internal/source"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config holds all settings shared by the commands.
type Config struct {
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Resize settings
	Quality      string `json:"quality" yaml:"quality" validate:"oneof=standard high ultra"`
	Format       string `json:"format" yaml:"format" validate:"oneof=png webp"`
	Interpolator string `json:"interpolator" yaml:"interpolator" validate:"interpolator"`
	Workers      int    `json:"workers" yaml:"workers" validate:"gte=1,lte=256"`
	Fit          string `json:"fit" yaml:"fit" validate:"oneof=stretch contain"`
	Trim         bool   `json:"trim" yaml:"trim"`
	AllOrNothing bool   `json:"all_or_nothing" yaml:"all_or_nothing"`

	// Server settings
	Listen      string `json:"listen" yaml:"listen" validate:"required"`
	CacheSize   int    `json:"cache_size" yaml:"cache_size" validate:"gte=1"`
	MaxUploadMB int    `json:"max_upload_mb" yaml:"max_upload_mb" validate:"gte=1,lte=1024"`

	Log logging.Config `json:"log" yaml:"log"`
}

// Load reads a JSON or YAML config file, chosen by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir    string
	Quality      string
	Format       string
	Interpolator string
	Workers      int
	Fit          string
	Trim         bool
	Listen       string
	LogLevel     string
}

// Resolve applies non-empty flags, then fills any empty field with its
// default.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Quality != "" {
		c.Quality = flags.Quality
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Interpolator != "" {
		c.Interpolator = flags.Interpolator
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Fit != "" {
		c.Fit = flags.Fit
	}
	if flags.Trim {
		c.Trim = true
	}
	if flags.Listen != "" {
		c.Listen = flags.Listen
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}

	c.Quality = strings.ToLower(c.Quality)
	c.Format = strings.ToLower(c.Format)
	c.Interpolator = strings.ToLower(c.Interpolator)
	c.Fit = strings.ToLower(c.Fit)

	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Quality == "" {
		c.Quality = resample.DefaultTier.String()
	}
	if c.Format == "" {
		c.Format = encode.PNG.String()
	}
	if c.Interpolator == "" {
		c.Interpolator = resample.DefaultInterpolatorName
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Fit == "" {
		c.Fit = string(preset.Stretch)
	}
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.CacheSize <= 0 {
		c.CacheSize = source.DefaultCacheSize
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 32
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("interpolator", func(fl validator.FieldLevel) bool {
		_, err := resample.InterpolatorByName(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks every field. Call it after Resolve.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Tier returns the configured quality tier.
func (c Config) Tier() (resample.Tier, error) {
	return resample.ParseTier(c.Quality)
}

// EncodeFormat returns the configured output format.
func (c Config) EncodeFormat() (encode.Format, error) {
	return encode.ParseFormat(c.Format)
}

// FitMode returns the configured fit.
func (c Config) FitMode() (preset.Fit, error) {
	return preset.ParseFit(c.Fit)
}

// Exporter builds an exporter from the resize settings.
func (c Config) Exporter(logger *zap.Logger) (*export.Exporter, error) {
	resampler, err := c.Resampler()
	if err != nil {
		return nil, err
	}
	fit, err := c.FitMode()
	if err != nil {
		return nil, err
	}
	return export.New(
		export.WithResampler(resampler),
		export.WithWorkers(c.Workers),
		export.WithFit(fit),
		export.WithTrim(c.Trim),
		export.WithAllOrNothing(c.AllOrNothing),
		export.WithLogger(logger),
	), nil
}

// Resampler returns a resampler using the configured interpolator.
func (c Config) Resampler() (*resample.Resampler, error) {
	interp, err := resample.InterpolatorByName(c.Interpolator)
	if err != nil {
		return nil, err
	}
	return resample.New(interp), nil
}
