package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "offthread.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "auto", cfg.Context)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, LogFormatProduction, cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "context: render\nlog_level: debug\nmetrics_addr: \":9100\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "render", cfg.Context)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	// unset fields keep their defaults
	assert.Equal(t, LogFormatProduction, cfg.LogFormat)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "context: [unterminated"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvContext, "ssr")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFormat, LogFormatDevelopment)
	t.Setenv(EnvMetricsAddr, "127.0.0.1:9000")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "ssr", cfg.Context)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, LogFormatDevelopment, cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:9000", cfg.MetricsAddr)
}

func TestFromEnvironment(t *testing.T) {
	path := writeConfig(t, "context: render\nlog_level: error\n")
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := FromEnvironment()
	require.NoError(t, err)
	assert.Equal(t, "render", cfg.Context)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromEnvironment_Invalid(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvContext, "quantum")

	_, err := FromEnvironment()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"interactive upper case", func(c *Config) { c.Context = "Interactive" }, false},
		{"unknown context", func(c *Config) { c.Context = "worker" }, true},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = LogFormatDevelopment
	cfg.LogLevel = "debug"

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.LogLevel = "nope"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
