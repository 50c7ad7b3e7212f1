// Package config loads runtime configuration from YAML files and the environment
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv and FromEnvironment
const (
	EnvConfigPath  = "OFFTHREAD_CONFIG"
	EnvContext     = "OFFTHREAD_CONTEXT"
	EnvLogLevel    = "OFFTHREAD_LOG_LEVEL"
	EnvLogFormat   = "OFFTHREAD_LOG_FORMAT"
	EnvMetricsAddr = "OFFTHREAD_METRICS_ADDR"
)

// Log formats
const (
	LogFormatProduction  = "production"
	LogFormatDevelopment = "development"
)

var knownContexts = map[string]bool{
	"auto":        true,
	"interactive": true,
	"browser":     true,
	"concurrent":  true,
	"render":      true,
	"ssr":         true,
	"inert":       true,
}

// Config is the runtime configuration
type Config struct {
	// Context selects the execution context: auto, interactive or render
	Context string `yaml:"context"`

	// LogLevel is a zap level name
	LogLevel string `yaml:"log_level"`

	// LogFormat is production (JSON) or development (console)
	LogFormat string `yaml:"log_format"`

	// MetricsAddr is the listen address for the metrics endpoint; empty disables it
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns default configuration
func Default() Config {
	return Config{
		Context:   "auto",
		LogLevel:  "info",
		LogFormat: LogFormatProduction,
	}
}

// Load reads a YAML configuration file on top of the defaults
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FromEnvironment builds the configuration from OFFTHREAD_CONFIG (if set) and
// the individual OFFTHREAD_* overrides
func FromEnvironment() (Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfigPath); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from the environment
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvContext); ok {
		c.Context = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.LogFormat = v
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok {
		c.MetricsAddr = v
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if !knownContexts[strings.ToLower(strings.TrimSpace(c.Context))] {
		return fmt.Errorf("unknown context %q", c.Context)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.LogFormat {
	case LogFormatProduction, LogFormatDevelopment:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// NewLogger builds a zap logger for the configured level and format
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var zc zap.Config
	if c.LogFormat == LogFormatDevelopment {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
