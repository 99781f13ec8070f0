package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	// Format is the encoder used on the terminal and in the file (console or json).
	Format string `json:"format" yaml:"format" validate:"omitempty,oneof=console json"`
	// File, when set, also writes logs to this path with rotation.
	File string `json:"file" yaml:"file"`

	MaxSize    int  `json:"max_size" yaml:"max_size" validate:"gte=0"`
	MaxBackups int  `json:"max_backups" yaml:"max_backups" validate:"gte=0"`
	MaxAge     int  `json:"max_age" yaml:"max_age" validate:"gte=0"`
	Compress   bool `json:"compress" yaml:"compress"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     7,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Level == "" {
		c.Level = d.Level
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.MaxSize <= 0 {
		c.MaxSize = d.MaxSize
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = d.MaxBackups
	}
	if c.MaxAge <= 0 {
		c.MaxAge = d.MaxAge
	}
}

// ZapLevel converts Level to a zapcore.Level.
func (c Config) ZapLevel() (zapcore.Level, error) {
	switch strings.ToLower(c.Level) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", c.Level)
}
