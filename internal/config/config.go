// Package config defines the configuration structures of the rejections
// library.  Loading lives in loader.go, defaults in defaults.go.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// UpstreamConfig holds the rejection records API parameters.
type UpstreamConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	Criteria           string        `mapstructure:"criteria"`
	Start              int           `mapstructure:"start"`
	MaxRows            int           `mapstructure:"max_rows"` // default for Load when the caller passes 0
	Timeout            time.Duration `mapstructure:"timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	UserAgent          string        `mapstructure:"user_agent"`
	RequestsPerSecond  float64       `mapstructure:"requests_per_second"` // 0 disables limiting
	Burst              int           `mapstructure:"burst"`
}

// AnalysisConfig holds the year bounds of single-year views.
type AnalysisConfig struct {
	MinYear              int `mapstructure:"min_year"`
	PublicationLagMonths int `mapstructure:"publication_lag_months"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig holds Prometheus registry parameters.
type MetricsConfig struct {
	Namespace            string `mapstructure:"namespace"`
	Subsystem            string `mapstructure:"subsystem"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config and
// returns the first violation found.
func (c *Config) Validate() error {
	// Upstream
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("upstream.base_url %q must be an absolute http(s) URL", c.Upstream.BaseURL)
	}
	if strings.TrimSpace(c.Upstream.Criteria) == "" {
		return invalid("upstream.criteria is required")
	}
	if c.Upstream.Start < 0 {
		return invalid("upstream.start must be >= 0, got %d", c.Upstream.Start)
	}
	if c.Upstream.MaxRows < MinRows || c.Upstream.MaxRows > MaxRows {
		return invalid("upstream.max_rows %d is out of range [%d, %d]", c.Upstream.MaxRows, MinRows, MaxRows)
	}
	if c.Upstream.Timeout <= 0 {
		return invalid("upstream.timeout must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Upstream.RequestsPerSecond < 0 {
		return invalid("upstream.requests_per_second must be >= 0, got %g", c.Upstream.RequestsPerSecond)
	}
	if c.Upstream.Burst < 0 {
		return invalid("upstream.burst must be >= 0, got %d", c.Upstream.Burst)
	}

	// Analysis
	if c.Analysis.MinYear < 1 {
		return invalid("analysis.min_year must be positive, got %d", c.Analysis.MinYear)
	}
	if c.Analysis.PublicationLagMonths < 0 {
		return invalid("analysis.publication_lag_months must be >= 0, got %d", c.Analysis.PublicationLagMonths)
	}

	// Log
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return invalid("log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Metrics
	if c.Metrics.Namespace == "" {
		return invalid("metrics.namespace is required")
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrCodeInvalidConfig, "config: "+format, args...)
}

//Personal.AI order the ending
