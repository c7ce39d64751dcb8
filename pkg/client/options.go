package client

import (
	"net/http"
	"time"

	"github.com/turtacn/KeyIP-Rejections/internal/config"
)

// Option is a functional option for configuring the Client.
type Option func(*settings)

type settings struct {
	configFile        string
	baseURL           string
	httpClient        *http.Client
	logLevel          string
	requestsPerSecond float64
	burst             int
	rateSet           bool
	now               func() time.Time
	configure         func(*config.Config)
}

// WithConfigFile loads configuration from a YAML file.  OAREJ_* environment
// variables still override its values.
func WithConfigFile(path string) Option {
	return func(s *settings) {
		s.configFile = path
	}
}

// WithBaseURL overrides upstream.base_url.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client for upstream requests.  The
// configured timeout and TLS settings are then not applied.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *settings) {
		s.httpClient = httpClient
	}
}

// WithLogLevel overrides log.level.
func WithLogLevel(level string) Option {
	return func(s *settings) {
		s.logLevel = level
	}
}

// WithRateLimit overrides the upstream rate limit.  A non-positive
// requestsPerSecond disables limiting.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(s *settings) {
		if requestsPerSecond < 0 {
			requestsPerSecond = 0
		}
		if burst < 0 {
			burst = 0
		}
		s.requestsPerSecond = requestsPerSecond
		s.burst = burst
		s.rateSet = true
	}
}

// WithClock sets the time source for year bounds and fetch timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

// withConfig edits the loaded configuration before validation.
func withConfig(fn func(*config.Config)) Option {
	return func(s *settings) {
		s.configure = fn
	}
}
