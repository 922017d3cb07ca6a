package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "reference", cfg.Preset)
	assert.Equal(t, "./output", cfg.Output.Dir)
	assert.True(t, cfg.Output.Charts)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "wind-risk-days", cfg.Kafka.Topic)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, domain.ReferenceParams(), p)
}

func TestLoad_FullGustPreset(t *testing.T) {
	path := writeConfig(t, "preset: full_gust\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, domain.FormulaFullGust, p.Formula)
	assert.Equal(t, 0.5, p.GustWeight)
	assert.Equal(t, 80.0, p.HighWindThreshold)
	assert.Equal(t, 320.0, p.FailureLoad)
}

func TestLoad_OverridesOnTopOfPreset(t *testing.T) {
	path := writeConfig(t, `
preset: reference
metrics:
  gust_weight: 0.4
  load_baseline: 18
  recovery_window_start: 21
  recovery_window_end: 5
  gap_policy: reset
classifier:
  failure_load: 200
gauge:
  streak_factor: 0.25
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, 0.4, p.GustWeight)
	assert.Equal(t, 18.0, p.LoadBaseline)
	assert.Equal(t, domain.RecoveryWindow{StartHour: 21, EndHour: 5}, p.RecoveryWindow)
	assert.Equal(t, domain.GapReset, p.GapPolicy)
	assert.Equal(t, 200.0, p.FailureLoad)
	assert.Equal(t, 0.25, p.StreakFactor)

	// Untouched preset values survive.
	assert.Equal(t, 80.0, p.StrainingLoad)
	assert.Equal(t, 10.0, p.RecoveryBaseline)
}

func TestLoad_ExplicitZeroOverride(t *testing.T) {
	path := writeConfig(t, "metrics:\n  gust_weight: 0\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Zero(t, p.GustWeight)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown preset", func(c *Config) { c.Preset = "extreme" }, "preset"},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }, "output.dir"},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true }, "kafka.brokers"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad gap policy", func(c *Config) { c.Metrics.GapPolicy = "ignore" }, "gap policy"},
		{"bad formula", func(c *Config) { c.Metrics.Formula = "triple_gust" }, "formula"},
		{"window hour out of range", func(c *Config) {
			h := 24
			c.Metrics.RecoveryWindowEnd = &h
		}, "recovery window"},
		{"non-positive norm", func(c *Config) {
			n := 0.0
			c.Gauge.LoadNorm = &n
		}, "norms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
