// Package uspto is the Fetcher: it retrieves office-action rejection records
// from the USPTO oa_rejections API and decodes them into a Dataset.
package uspto

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

const (
	// DefaultBaseURL is the public records endpoint.
	DefaultBaseURL = "https://developer.uspto.gov/ds-api/oa_rejections/v2/records"
	// DefaultCriteria matches every record.
	DefaultCriteria = "*:*"
	// DefaultUserAgent identifies the library to the upstream.
	DefaultUserAgent = "keyip-rejections/0.1"
	// DefaultTimeout bounds one full request, including the body download.
	DefaultTimeout = 5 * time.Minute

	// MinRows and MaxRows bound the maxRows argument of Fetch.
	MinRows = 1
	MaxRows = 100000

	// errorBodyLimit caps how much of a failed response is kept in the error.
	errorBodyLimit = 512
)

// Config holds the upstream request parameters.
type Config struct {
	BaseURL            string
	Criteria           string
	Start              int
	Timeout            time.Duration
	InsecureSkipVerify bool
	UserAgent          string
	RequestsPerSecond  float64
	Burst              int
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Criteria == "" {
		cfg.Criteria = DefaultCriteria
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
}

// Client fetches rejection records.  It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *Limiter
	logger     logging.Logger
	metrics    *prometheus.AppMetrics
	now        func() time.Time
}

// NewClient builds a Client.  A nil logger or metrics disables the respective
// concern.
func NewClient(cfg Config, logger logging.Logger, metrics *prometheus.AppMetrics, opts ...Option) (*Client, error) {
	applyDefaults(&cfg)

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "invalid upstream base URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.Newf(errors.ErrCodeInvalidConfig,
			"upstream base URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if cfg.Start < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfig, "upstream start offset must be >= 0, got %d", cfg.Start)
	}

	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}

	c := &Client{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg),
		limiter:    NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		logger:     logger.Named("uspto"),
		metrics:    metrics,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newHTTPClient(cfg Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // upstream certificate chain has been broken before
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: transport}
}

// Fetch retrieves up to maxRows records in a single request.  maxRows must lie
// in [MinRows, MaxRows].  The request asks for maxRows+1 rows, as the upstream
// has always been queried, and the result is truncated to maxRows.
func (c *Client) Fetch(ctx context.Context, maxRows int) (rtypes.Dataset, error) {
	if maxRows < MinRows || maxRows > MaxRows {
		return rtypes.Dataset{}, errors.Newf(errors.ErrCodeInvalidRowCount,
			"max rows must be between %d and %d, got %d", MinRows, MaxRows, maxRows)
	}

	requestID := uuid.NewString()
	log := c.logger.With(logging.String("request_id", requestID), logging.Int("max_rows", maxRows))

	if err := c.limiter.Wait(ctx, c.cfg.BaseURL); err != nil {
		return rtypes.Dataset{}, errors.Wrap(err, errors.ErrCodeCanceled, "waiting for upstream rate limit")
	}

	form := url.Values{}
	form.Set("criteria", c.cfg.Criteria)
	form.Set("start", strconv.Itoa(c.cfg.Start))
	form.Set("rows", strconv.Itoa(maxRows+1))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return rtypes.Dataset{}, errors.Wrap(err, errors.ErrCodeUpstreamTransport, "failed to build upstream request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	log.Debug("fetching rejection records", logging.String("url", c.cfg.BaseURL))
	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		prometheus.RecordUpstreamRequest(c.metrics, 0, c.now().Sub(start))
		log.Error("upstream request failed", logging.Err(err))
		return rtypes.Dataset{}, errors.Wrap(err, errors.ErrCodeUpstreamTransport, "upstream request failed").
			WithDetail(c.cfg.BaseURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	duration := c.now().Sub(start)
	prometheus.RecordUpstreamRequest(c.metrics, resp.StatusCode, duration)
	if err != nil {
		log.Error("reading upstream response failed", logging.Err(err))
		return rtypes.Dataset{}, errors.Wrap(err, errors.ErrCodeUpstreamTransport, "failed to read upstream response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("upstream returned non-success status", logging.Int("status", resp.StatusCode))
		return rtypes.Dataset{}, errors.Newf(errors.ErrCodeUpstreamStatus,
			"upstream returned HTTP %d", resp.StatusCode).
			WithDetail(truncate(string(body), errorBodyLimit))
	}

	records, err := DecodeRecords(body, maxRows)
	if err != nil {
		log.Error("upstream payload rejected", logging.Err(err))
		return rtypes.Dataset{}, err
	}

	prometheus.RecordFetched(c.metrics, len(records))
	log.Info("fetched rejection records",
		logging.Int("records", len(records)),
		logging.Duration("duration", duration))

	return rtypes.NewDataset(records, rtypes.Source{
		RequestID:     requestID,
		FetchedAt:     c.now(),
		RequestedRows: maxRows,
	}), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:n], len(s))
}

//Personal.AI order the ending
