// Package config loads pipeline settings from an optional YAML file with
// environment-variable override, and maps them onto domain parameters.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/couchcryptid/wind-risk-pipeline/internal/domain"
)

// Config holds all application settings.
type Config struct {
	Preset     string           `mapstructure:"preset"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Gauge      GaugeConfig      `mapstructure:"gauge"`
	Output     OutputConfig     `mapstructure:"output"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Push       PushConfig       `mapstructure:"push"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// MetricsConfig overrides the preset's hourly/daily metric constants.
// Pointer fields distinguish "not set" from an explicit zero.
type MetricsConfig struct {
	Formula             string   `mapstructure:"formula"`
	GustWeight          *float64 `mapstructure:"gust_weight"`
	LoadBaseline        *float64 `mapstructure:"load_baseline"`
	RecoveryBaseline    *float64 `mapstructure:"recovery_baseline"`
	RecoveryWindowStart *int     `mapstructure:"recovery_window_start"`
	RecoveryWindowEnd   *int     `mapstructure:"recovery_window_end"`
	HighWindThreshold   *float64 `mapstructure:"high_wind_threshold"`
	RecoveryThreshold   *float64 `mapstructure:"recovery_threshold"`
	GapPolicy           string   `mapstructure:"gap_policy"`
}

// ClassifierConfig overrides the six risk-state thresholds.
type ClassifierConfig struct {
	StrainingLoad     *float64 `mapstructure:"straining_load"`
	StrainingRecovery *float64 `mapstructure:"straining_recovery"`
	StrainingStreak   *int     `mapstructure:"straining_streak"`
	FailureLoad       *float64 `mapstructure:"failure_load"`
	FailureRecovery   *float64 `mapstructure:"failure_recovery"`
	FailureStreak     *int     `mapstructure:"failure_streak"`
}

// GaugeConfig overrides the escalation-gauge constants.
type GaugeConfig struct {
	LoadNorm     *float64 `mapstructure:"load_norm"`
	RecoveryNorm *float64 `mapstructure:"recovery_norm"`
	StreakFactor *float64 `mapstructure:"streak_factor"`
}

// OutputConfig controls where export artifacts are written.
type OutputConfig struct {
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"` // empty disables the SQLite sink
	Charts     bool   `mapstructure:"charts"`
}

// KafkaConfig controls the optional risk-record publishing sink.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// PushConfig controls the optional post-run metrics push.
type PushConfig struct {
	GatewayURL string `mapstructure:"gateway_url"` // empty disables the push
	Job        string `mapstructure:"job"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given YAML file and WINDRISK_* environment
// variables. An empty path skips the file and yields defaults plus environment
// overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WINDRISK")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("preset", "reference")
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.charts", true)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "wind-risk-days")
	v.SetDefault("push.job", "wind-risk-pipeline")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks settings that cannot be expressed by the type system.
// Metric constants are validated through domain.Params.Validate via Params.
func (c *Config) Validate() error {
	switch c.Preset {
	case "reference", "full_gust":
	default:
		return fmt.Errorf("preset must be one of: reference, full_gust (got %q)", c.Preset)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers is required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	if _, err := c.Params(); err != nil {
		return err
	}
	return nil
}

// Params builds the domain parameter set: the selected preset with every
// explicitly configured override applied on top.
func (c *Config) Params() (domain.Params, error) {
	var p domain.Params
	switch c.Preset {
	case "full_gust":
		p = domain.FullGustParams()
	default:
		p = domain.ReferenceParams()
	}

	if c.Metrics.Formula != "" {
		p.Formula = domain.StressFormula(c.Metrics.Formula)
	}
	if c.Metrics.GapPolicy != "" {
		p.GapPolicy = domain.GapPolicy(c.Metrics.GapPolicy)
	}
	applyFloat(&p.GustWeight, c.Metrics.GustWeight)
	applyFloat(&p.LoadBaseline, c.Metrics.LoadBaseline)
	applyFloat(&p.RecoveryBaseline, c.Metrics.RecoveryBaseline)
	applyInt(&p.RecoveryWindow.StartHour, c.Metrics.RecoveryWindowStart)
	applyInt(&p.RecoveryWindow.EndHour, c.Metrics.RecoveryWindowEnd)
	applyFloat(&p.HighWindThreshold, c.Metrics.HighWindThreshold)
	applyFloat(&p.RecoveryThreshold, c.Metrics.RecoveryThreshold)

	applyFloat(&p.StrainingLoad, c.Classifier.StrainingLoad)
	applyFloat(&p.StrainingRecovery, c.Classifier.StrainingRecovery)
	applyInt(&p.StrainingStreak, c.Classifier.StrainingStreak)
	applyFloat(&p.FailureLoad, c.Classifier.FailureLoad)
	applyFloat(&p.FailureRecovery, c.Classifier.FailureRecovery)
	applyInt(&p.FailureStreak, c.Classifier.FailureStreak)

	applyFloat(&p.LoadNorm, c.Gauge.LoadNorm)
	applyFloat(&p.RecoveryNorm, c.Gauge.RecoveryNorm)
	applyFloat(&p.StreakFactor, c.Gauge.StreakFactor)

	if err := p.Validate(); err != nil {
		return domain.Params{}, err
	}
	return p, nil
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func applyInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
