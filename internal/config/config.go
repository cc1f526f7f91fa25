// Package config loads decoder and logging settings for the clausewitz CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/ck3"
)

// Config holds all CLI configuration.
type Config struct {
	Decode  DecodeConfig  `yaml:"decode"`
	Logging LoggingConfig `yaml:"logging"`
}

// DecodeConfig maps onto clausewitz.DecodeOpt.
type DecodeConfig struct {
	MaxDepth       int     `yaml:"max_depth"`
	MaxBytes       int64   `yaml:"max_bytes"` // 0 = unlimited
	Workers        int     `yaml:"workers"`
	Era            string  `yaml:"era"`              // native, auc
	FailFast       bool    `yaml:"fail_fast"`
	OnDuplicateKey string  `yaml:"on_duplicate_key"` // ignore, warn, error
	GoldScale      float64 `yaml:"gold_scale"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Decode: DecodeConfig{
			MaxDepth:       cw.DefaultMaxDepth,
			Workers:        4,
			Era:            cw.EraNative.String(),
			OnDuplicateKey: cw.Ignore.String(),
			GoldScale:      ck3.DefaultGoldScale,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies CLAUSEWITZ_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("CLAUSEWITZ_MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLAUSEWITZ_MAX_DEPTH: %w", err)
		}
		c.Decode.MaxDepth = n
	}
	if v := os.Getenv("CLAUSEWITZ_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLAUSEWITZ_WORKERS: %w", err)
		}
		c.Decode.Workers = n
	}
	if v := os.Getenv("CLAUSEWITZ_ERA"); v != "" {
		c.Decode.Era = v
	}
	if v := os.Getenv("CLAUSEWITZ_FAIL_FAST"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CLAUSEWITZ_FAIL_FAST: %w", err)
		}
		c.Decode.FailFast = b
	}
	if v := os.Getenv("CLAUSEWITZ_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	d := c.Decode
	if d.MaxDepth < 1 {
		return fmt.Errorf("decode.max_depth must be positive, got %d", d.MaxDepth)
	}
	if d.MaxBytes < 0 {
		return fmt.Errorf("decode.max_bytes must not be negative, got %d", d.MaxBytes)
	}
	if d.Workers < 1 {
		return fmt.Errorf("decode.workers must be at least 1, got %d", d.Workers)
	}
	if _, err := cw.ParseEra(d.Era); err != nil {
		return fmt.Errorf("decode.era: %w", err)
	}
	if _, err := cw.ParseSeverity(d.OnDuplicateKey); err != nil {
		return fmt.Errorf("decode.on_duplicate_key: %w", err)
	}
	if d.GoldScale == 0 {
		return fmt.Errorf("decode.gold_scale must not be zero")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// DecodeOpt projects the decode section onto clausewitz.DecodeOpt. Call
// Validate first; invalid enumerations fall back to their defaults.
func (c *Config) DecodeOpt(logger *zap.Logger) cw.DecodeOpt {
	era, _ := cw.ParseEra(c.Decode.Era)
	sev, _ := cw.ParseSeverity(c.Decode.OnDuplicateKey)
	return cw.DecodeOpt{
		Strictness: cw.Strictness{OnDuplicateKey: sev},
		MaxDepth:   c.Decode.MaxDepth,
		MaxBytes:   c.Decode.MaxBytes,
		Era:        era,
		FailFast:   c.Decode.FailFast,
		Workers:    c.Decode.Workers,
		Logger:     logger,
	}
}

// Transforms returns the reencoding registry for the configured gold scale.
func (c *Config) Transforms() cw.Transforms { return ck3.Transforms(c.Decode.GoldScale) }

// Logger builds a zap logger. verbose forces debug level.
func (c *Config) Logger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if strings.EqualFold(c.Logging.Format, "console") {
		zc.Encoding = "console"
	}
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
