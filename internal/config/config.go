// SPDX-License-Identifier: MIT

// Package config loads application configuration with precedence
// ENV > file > defaults.
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// AppConfig holds the complete runtime configuration.
type AppConfig struct {
	// Server
	Listen         string   `yaml:"listen"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Storage
	DataDir string `yaml:"data_dir"`

	// Report analysis
	Threshold float64 `yaml:"threshold"` // attendance pass threshold, fraction (0,1]

	// Uploads
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Retention of uploads and generated reports
	Retention     time.Duration `yaml:"retention"`
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// Rate limiting (requests per minute per client IP)
	RateLimitRPM   int `yaml:"rate_limit_rpm"`
	UploadLimitRPM int `yaml:"upload_limit_rpm"`

	// Logging
	LogLevel   string `yaml:"log_level"`
	LogService string `yaml:"log_service"`

	// Version is injected at load time, not configurable.
	Version string `yaml:"-"`
}

// UploadsDir returns the directory incoming workbooks are stored in.
func (c AppConfig) UploadsDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

// ReportsDir returns the directory generated PDF reports are written to.
func (c AppConfig) ReportsDir() string {
	return filepath.Join(c.DataDir, "reports")
}

// Validate checks invariants the rest of the system relies on.
func (c AppConfig) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir is empty")
	}
	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold %v out of range (0,1]", c.Threshold)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.Retention <= 0 {
		return fmt.Errorf("retention must be positive, got %v", c.Retention)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %v", c.SweepInterval)
	}
	if c.RateLimitRPM <= 0 || c.UploadLimitRPM <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}
