package config

import (
	"github.com/turtacn/KeyIP-Rejections/internal/domain/rejection"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/uspto"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultBaseURL           = uspto.DefaultBaseURL
	DefaultCriteria          = uspto.DefaultCriteria
	DefaultUserAgent         = uspto.DefaultUserAgent
	DefaultTimeout           = uspto.DefaultTimeout
	DefaultRequestsPerSecond = 1.0
	DefaultBurst             = 1

	MinRows        = uspto.MinRows
	MaxRows        = uspto.MaxRows
	DefaultMaxRows = MaxRows

	DefaultMinYear              = rejection.DefaultMinYear
	DefaultPublicationLagMonths = rejection.DefaultPublicationLagMonths

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "stderr"

	DefaultMetricsNamespace = "keyip"
	DefaultMetricsSubsystem = "rejections"
)

// defaultValues maps every configuration key to its default.  It seeds viper
// so that environment overrides resolve even without a config file.
var defaultValues = map[string]interface{}{
	"upstream.base_url":             DefaultBaseURL,
	"upstream.criteria":             DefaultCriteria,
	"upstream.start":                0,
	"upstream.max_rows":             DefaultMaxRows,
	"upstream.timeout":              DefaultTimeout,
	"upstream.insecure_skip_verify": false,
	"upstream.user_agent":           DefaultUserAgent,
	"upstream.requests_per_second":  DefaultRequestsPerSecond,
	"upstream.burst":                DefaultBurst,

	"analysis.min_year":               DefaultMinYear,
	"analysis.publication_lag_months": DefaultPublicationLagMonths,

	"log.level":        DefaultLogLevel,
	"log.format":       DefaultLogFormat,
	"log.output_paths": []string{DefaultLogOutput},

	"metrics.namespace":              DefaultMetricsNamespace,
	"metrics.subsystem":              DefaultMetricsSubsystem,
	"metrics.enable_go_metrics":      false,
	"metrics.enable_process_metrics": false,
}

// ApplyDefaults fills every zero-value field in cfg with its default.  Fields
// already set are left unchanged so explicit configuration always wins.
// Boolean fields default to false and are not touched.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Upstream ──────────────────────────────────────────────────────────────
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = DefaultBaseURL
	}
	if cfg.Upstream.Criteria == "" {
		cfg.Upstream.Criteria = DefaultCriteria
	}
	if cfg.Upstream.MaxRows == 0 {
		cfg.Upstream.MaxRows = DefaultMaxRows
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultTimeout
	}
	if cfg.Upstream.UserAgent == "" {
		cfg.Upstream.UserAgent = DefaultUserAgent
	}
	if cfg.Upstream.Burst == 0 {
		cfg.Upstream.Burst = DefaultBurst
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	if cfg.Analysis.MinYear == 0 {
		cfg.Analysis.MinYear = DefaultMinYear
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{DefaultLogOutput}
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}

// Default returns a Config holding every default.  Unlike ApplyDefaults it
// also sets the fields whose zero value is meaningful.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Upstream.RequestsPerSecond = DefaultRequestsPerSecond
	cfg.Analysis.PublicationLagMonths = DefaultPublicationLagMonths
	return cfg
}
