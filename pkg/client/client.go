// Package client is the public entry point of the rejections library.  It
// wires configuration, logging, metrics, the upstream fetcher and the
// analysis service, and exposes the analysis operations over an explicitly
// passed Dataset.
//
//	c, err := client.New(client.WithLogLevel("warn"))
//	ds, err := c.Load(ctx, 5000)
//	hits := c.ByApplication(ds, "14983812")
package client

import (
	"context"
	"io"
	"net/http"

	"github.com/turtacn/KeyIP-Rejections/internal/application/rejections"
	"github.com/turtacn/KeyIP-Rejections/internal/config"
	"github.com/turtacn/KeyIP-Rejections/internal/domain/rejection"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/uspto"
	"github.com/turtacn/KeyIP-Rejections/internal/interfaces/render"
	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

const Version = "0.1.0"

// Chart is a rendered per-year time series.
type Chart = render.Chart

// Client is safe for concurrent use; it holds no Dataset.
type Client struct {
	cfg       config.Config
	logger    logging.Logger
	collector prometheus.MetricsCollector
	service   rejections.Service
}

// New builds a Client.  Without WithConfigFile the configuration comes from
// OAREJ_* environment variables and defaults.
func New(opts ...Option) (*Client, error) {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}

	cfg, err := loadConfig(s)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "failed to build logger")
	}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		Subsystem:            cfg.Metrics.Subsystem,
		EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
		EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
	}, logger)
	if err != nil {
		return nil, err
	}
	metrics := prometheus.NewAppMetrics(collector)

	var fetchOpts []uspto.Option
	if s.httpClient != nil {
		fetchOpts = append(fetchOpts, uspto.WithHTTPClient(s.httpClient))
	}
	if s.now != nil {
		fetchOpts = append(fetchOpts, uspto.WithClock(s.now))
	}
	fetcher, err := uspto.NewClient(uspto.Config{
		BaseURL:            cfg.Upstream.BaseURL,
		Criteria:           cfg.Upstream.Criteria,
		Start:              cfg.Upstream.Start,
		Timeout:            cfg.Upstream.Timeout,
		InsecureSkipVerify: cfg.Upstream.InsecureSkipVerify,
		UserAgent:          cfg.Upstream.UserAgent,
		RequestsPerSecond:  cfg.Upstream.RequestsPerSecond,
		Burst:              cfg.Upstream.Burst,
	}, logger, metrics, fetchOpts...)
	if err != nil {
		return nil, err
	}

	service := rejections.NewService(fetcher, logger, metrics, rejections.Options{
		DefaultMaxRows: cfg.Upstream.MaxRows,
		Bounds: rejection.YearBounds{
			MinYear:              cfg.Analysis.MinYear,
			PublicationLagMonths: cfg.Analysis.PublicationLagMonths,
		},
		Now: s.now,
	})

	logger.Debug("client ready",
		logging.String("version", Version),
		logging.String("upstream", cfg.Upstream.BaseURL))

	return &Client{cfg: *cfg, logger: logger, collector: collector, service: service}, nil
}

func loadConfig(s *settings) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if s.configFile != "" {
		cfg, err = config.Load(s.configFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if s.baseURL != "" {
		cfg.Upstream.BaseURL = s.baseURL
	}
	if s.logLevel != "" {
		cfg.Log.Level = s.logLevel
	}
	if s.rateSet {
		cfg.Upstream.RequestsPerSecond = s.requestsPerSecond
		cfg.Upstream.Burst = s.burst
	}
	if s.configure != nil {
		s.configure(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Operations
// ─────────────────────────────────────────────────────────────────────────────

// Load fetches up to maxRows records (0 uses upstream.max_rows) and extracts
// their submission years.
func (c *Client) Load(ctx context.Context, maxRows int) (rtypes.Dataset, error) {
	return c.service.Load(ctx, maxRows)
}

// ByApplication returns every record of one patent application.
func (c *Client) ByApplication(ds rtypes.Dataset, applicationNumber string) rtypes.Dataset {
	return c.service.ByApplication(ds, applicationNumber)
}

// ByFlag returns the records with the named rejection flag set.
func (c *Client) ByFlag(ds rtypes.Dataset, flag string) (rtypes.Dataset, error) {
	f, err := rtypes.ParseFlagName(flag)
	if err != nil {
		return rtypes.Dataset{}, err
	}
	return c.service.ByFlag(ds, f)
}

// FlagTimeSeries counts the records with the named flag set per year.
func (c *Client) FlagTimeSeries(ds rtypes.Dataset, flag string) ([]rtypes.YearCount, error) {
	f, err := rtypes.ParseFlagName(flag)
	if err != nil {
		return nil, err
	}
	return c.service.FlagTimeSeries(ds, f)
}

// FlagChart plots FlagTimeSeries.
func (c *Client) FlagChart(ds rtypes.Dataset, flag string) (Chart, error) {
	counts, err := c.FlagTimeSeries(ds, flag)
	if err != nil {
		return Chart{}, err
	}
	return render.RenderTimeSeries(counts, flag), nil
}

// TypeCrosstab tabulates final against non-final rejections for one year.
// normalize is one of none, all, index or columns; empty means none.
func (c *Client) TypeCrosstab(ds rtypes.Dataset, year int, normalize string) (*rtypes.Crosstab, error) {
	return c.service.TypeCrosstab(ds, year, rtypes.Normalization(normalize))
}

// TypeCrosstabOverall tabulates final against non-final rejections per year.
func (c *Client) TypeCrosstabOverall(ds rtypes.Dataset, normalize string) (*rtypes.Crosstab, error) {
	return c.service.TypeCrosstabOverall(ds, rtypes.Normalization(normalize))
}

// ByCategory returns the records whose action type matches category.
func (c *Client) ByCategory(ds rtypes.Dataset, category string) (rtypes.Dataset, error) {
	cat, err := rtypes.ParseCategory(category)
	if err != nil {
		return rtypes.Dataset{}, err
	}
	return c.service.ByCategory(ds, cat)
}

// Normalize rewrites every action type to the canonical taxonomy.
func (c *Client) Normalize(ds rtypes.Dataset) rtypes.Dataset {
	return c.service.Normalize(ds)
}

// LabelSummary counts records per action-type value.
func (c *Client) LabelSummary(ds rtypes.Dataset) []rtypes.LabelCount {
	return c.service.LabelSummary(ds)
}

// ─────────────────────────────────────────────────────────────────────────────
// Presentation
// ─────────────────────────────────────────────────────────────────────────────

// WriteCrosstab writes ct as a table with row totals and a totals footer.
func (c *Client) WriteCrosstab(w io.Writer, ct *rtypes.Crosstab) error {
	return render.RenderCrosstab(w, ct)
}

// WriteLabelSummary writes one table row per action-type value.
func (c *Client) WriteLabelSummary(w io.Writer, counts []rtypes.LabelCount) {
	render.RenderLabelSummary(w, counts)
}

// WriteRecords writes the records of ds as a table.
func (c *Client) WriteRecords(w io.Writer, ds rtypes.Dataset) {
	render.RenderRecords(w, ds)
}

// MetricsHandler serves the client's metrics in the Prometheus exposition
// format.
func (c *Client) MetricsHandler() http.Handler {
	return c.collector.Handler()
}

// Close flushes buffered log entries.
func (c *Client) Close() error {
	return c.logger.Sync()
}

//Personal.AI order the ending
