// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence ENV > file > defaults.
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader. configPath may be empty.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// fileConfig mirrors AppConfig with pointer fields so absent keys are
// distinguishable from zero values.
type fileConfig struct {
	Listen         *string        `yaml:"listen"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	DataDir        *string        `yaml:"data_dir"`
	Threshold      *float64       `yaml:"threshold"`
	MaxUploadBytes *int64         `yaml:"max_upload_bytes"`
	Retention      *time.Duration `yaml:"retention"`
	SweepInterval  *time.Duration `yaml:"sweep_interval"`
	RateLimitRPM   *int           `yaml:"rate_limit_rpm"`
	UploadLimitRPM *int           `yaml:"upload_limit_rpm"`
	LogLevel       *string        `yaml:"log_level"`
	LogService     *string        `yaml:"log_service"`
}

// Load loads configuration: defaults first, then the optional YAML file,
// then environment overrides, then validation.
func (l *Loader) Load() (AppConfig, error) {
	cfg := defaults()
	cfg.Version = l.version

	if l.configPath != "" {
		if err := mergeFile(&cfg, l.configPath); err != nil {
			return AppConfig{}, err
		}
	}

	mergeEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaults() AppConfig {
	return AppConfig{
		Listen:         ":8080",
		DataDir:        "./data",
		Threshold:      0.75,
		MaxUploadBytes: 16 << 20, // matches the historical 16 MiB upload cap
		Retention:      24 * time.Hour,
		SweepInterval:  time.Hour,
		RateLimitRPM:   600,
		UploadLimitRPM: 10,
		LogLevel:       "info",
		LogService:     "attrep",
	}
}

func mergeFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	dec := yaml.Unmarshal(data, &fc)
	if dec != nil {
		return fmt.Errorf("parse config file %s: %w", path, dec)
	}

	if fc.Listen != nil {
		cfg.Listen = *fc.Listen
	}
	if fc.AllowedOrigins != nil {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.DataDir != nil {
		cfg.DataDir = *fc.DataDir
	}
	if fc.Threshold != nil {
		cfg.Threshold = *fc.Threshold
	}
	if fc.MaxUploadBytes != nil {
		cfg.MaxUploadBytes = *fc.MaxUploadBytes
	}
	if fc.Retention != nil {
		cfg.Retention = *fc.Retention
	}
	if fc.SweepInterval != nil {
		cfg.SweepInterval = *fc.SweepInterval
	}
	if fc.RateLimitRPM != nil {
		cfg.RateLimitRPM = *fc.RateLimitRPM
	}
	if fc.UploadLimitRPM != nil {
		cfg.UploadLimitRPM = *fc.UploadLimitRPM
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogService != nil {
		cfg.LogService = *fc.LogService
	}
	return nil
}

func mergeEnv(cfg *AppConfig) {
	cfg.Listen = ParseString("ATTREP_LISTEN", cfg.Listen)
	cfg.AllowedOrigins = ParseStringSlice("ATTREP_ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.DataDir = ParseString("ATTREP_DATA", cfg.DataDir)
	cfg.Threshold = ParseFloat("ATTREP_THRESHOLD", cfg.Threshold)
	cfg.MaxUploadBytes = ParseInt64("ATTREP_MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.Retention = ParseDuration("ATTREP_RETENTION", cfg.Retention)
	cfg.SweepInterval = ParseDuration("ATTREP_SWEEP_INTERVAL", cfg.SweepInterval)
	cfg.RateLimitRPM = ParseInt("ATTREP_RATE_LIMIT_RPM", cfg.RateLimitRPM)
	cfg.UploadLimitRPM = ParseInt("ATTREP_UPLOAD_LIMIT_RPM", cfg.UploadLimitRPM)
	cfg.LogLevel = ParseString("ATTREP_LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = ParseString("ATTREP_LOG_SERVICE", cfg.LogService)
}
