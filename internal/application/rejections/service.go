// Package rejections orchestrates the analysis operations over a rejection
// Dataset: it fetches, extracts years and runs the domain views, logging
// every operation and recording its metrics.  The Dataset is threaded
// explicitly; nothing is cached between calls.
package rejections

import (
	"context"
	"time"

	"github.com/turtacn/KeyIP-Rejections/internal/domain/rejection"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

// Operation names used in logs and the operations_total metric.
const (
	OpLoad                = "load"
	OpByApplication       = "by_application"
	OpByFlag              = "by_flag"
	OpFlagTimeSeries      = "flag_time_series"
	OpTypeCrosstab        = "type_crosstab"
	OpTypeCrosstabOverall = "type_crosstab_overall"
	OpByCategory          = "by_category"
	OpNormalize           = "normalize"
	OpLabelSummary        = "label_summary"
)

// Fetcher retrieves a raw Dataset from the upstream API.
type Fetcher interface {
	Fetch(ctx context.Context, maxRows int) (rtypes.Dataset, error)
}

// Service is the analysis API over rejection datasets.
type Service interface {
	// Load fetches up to maxRows records and extracts their years.  A
	// maxRows of 0 uses the configured default.
	Load(ctx context.Context, maxRows int) (rtypes.Dataset, error)
	ByApplication(ds rtypes.Dataset, applicationNumber string) rtypes.Dataset
	ByFlag(ds rtypes.Dataset, flag rtypes.FlagName) (rtypes.Dataset, error)
	FlagTimeSeries(ds rtypes.Dataset, flag rtypes.FlagName) ([]rtypes.YearCount, error)
	// TypeCrosstab restricts the year × document code table to one year.
	TypeCrosstab(ds rtypes.Dataset, year int, normalize rtypes.Normalization) (*rtypes.Crosstab, error)
	TypeCrosstabOverall(ds rtypes.Dataset, normalize rtypes.Normalization) (*rtypes.Crosstab, error)
	ByCategory(ds rtypes.Dataset, category rtypes.Category) (rtypes.Dataset, error)
	Normalize(ds rtypes.Dataset) rtypes.Dataset
	LabelSummary(ds rtypes.Dataset) []rtypes.LabelCount
}

// Options tunes a Service.  Zero fields take their defaults.
type Options struct {
	DefaultMaxRows int
	Bounds         rejection.YearBounds
	Now            func() time.Time
}

type serviceImpl struct {
	fetcher        Fetcher
	logger         logging.Logger
	metrics        *prometheus.AppMetrics
	defaultMaxRows int
	bounds         rejection.YearBounds
	now            func() time.Time
}

// NewService wires a Service.  A nil logger or metrics disables the
// respective concern.
func NewService(fetcher Fetcher, logger logging.Logger, metrics *prometheus.AppMetrics, opts Options) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	if opts.DefaultMaxRows == 0 {
		opts.DefaultMaxRows = 100000
	}
	if opts.Bounds == (rejection.YearBounds{}) {
		opts.Bounds = rejection.DefaultYearBounds()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &serviceImpl{
		fetcher:        fetcher,
		logger:         logger.Named("rejections"),
		metrics:        metrics,
		defaultMaxRows: opts.DefaultMaxRows,
		bounds:         opts.Bounds,
		now:            opts.Now,
	}
}

func (s *serviceImpl) Load(ctx context.Context, maxRows int) (rtypes.Dataset, error) {
	if maxRows == 0 {
		maxRows = s.defaultMaxRows
	}
	if s.fetcher == nil {
		err := errors.Internal("service has no fetcher")
		s.done(OpLoad, err)
		return rtypes.Dataset{}, err
	}

	raw, err := s.fetcher.Fetch(ctx, maxRows)
	if err != nil {
		s.done(OpLoad, err)
		return rtypes.Dataset{}, err
	}

	ds, err := rejection.WithYear(raw)
	if err != nil {
		prometheus.RecordYearParseFailure(s.metrics)
		s.done(OpLoad, err, logging.String("request_id", raw.Source().RequestID))
		return rtypes.Dataset{}, err
	}

	s.done(OpLoad, nil,
		logging.String("request_id", ds.Source().RequestID),
		logging.Int("records", ds.Len()))
	return ds, nil
}

func (s *serviceImpl) ByApplication(ds rtypes.Dataset, applicationNumber string) rtypes.Dataset {
	out := rejection.LookupByApplication(ds, applicationNumber)
	s.view(OpByApplication, out)
	s.done(OpByApplication, nil, logging.String("application", applicationNumber), logging.Int("records", out.Len()))
	return out
}

func (s *serviceImpl) ByFlag(ds rtypes.Dataset, flag rtypes.FlagName) (rtypes.Dataset, error) {
	out, err := rejection.FilterByFlag(ds, flag)
	if err != nil {
		s.done(OpByFlag, err, logging.String("flag", string(flag)))
		return rtypes.Dataset{}, err
	}
	s.view(OpByFlag, out)
	s.done(OpByFlag, nil, logging.String("flag", string(flag)), logging.Int("records", out.Len()))
	return out, nil
}

func (s *serviceImpl) FlagTimeSeries(ds rtypes.Dataset, flag rtypes.FlagName) ([]rtypes.YearCount, error) {
	counts, err := rejection.CountByYear(ds, flag)
	s.done(OpFlagTimeSeries, err, logging.String("flag", string(flag)), logging.Int("years", len(counts)))
	return counts, err
}

func (s *serviceImpl) TypeCrosstab(ds rtypes.Dataset, year int, normalize rtypes.Normalization) (*rtypes.Crosstab, error) {
	if year == 0 {
		err := errors.New(errors.ErrCodeYearOutOfRange, "a submission year is required; use TypeCrosstabOverall for every year")
		s.done(OpTypeCrosstab, err)
		return nil, err
	}
	return s.crosstab(OpTypeCrosstab, ds, rejection.CrosstabQuery{Year: year, Normalize: normalize})
}

func (s *serviceImpl) TypeCrosstabOverall(ds rtypes.Dataset, normalize rtypes.Normalization) (*rtypes.Crosstab, error) {
	return s.crosstab(OpTypeCrosstabOverall, ds, rejection.CrosstabQuery{Normalize: normalize})
}

func (s *serviceImpl) crosstab(op string, ds rtypes.Dataset, q rejection.CrosstabQuery) (*rtypes.Crosstab, error) {
	q.Bounds = s.bounds
	q.Now = s.now()
	ct, err := rejection.CrosstabByType(ds, q)
	if err != nil {
		s.done(op, err, logging.Int("year", q.Year))
		return nil, err
	}
	s.done(op, nil,
		logging.Int("year", q.Year),
		logging.String("normalize", string(ct.Normalize)),
		logging.Int("rows", len(ct.Years)))
	return ct, nil
}

func (s *serviceImpl) ByCategory(ds rtypes.Dataset, category rtypes.Category) (rtypes.Dataset, error) {
	out, err := rejection.SelectCategory(ds, category)
	if err != nil {
		s.done(OpByCategory, err, logging.String("category", string(category)))
		return rtypes.Dataset{}, err
	}
	s.view(OpByCategory, out)
	s.done(OpByCategory, nil, logging.String("category", string(category)), logging.Int("records", out.Len()))
	return out, nil
}

func (s *serviceImpl) Normalize(ds rtypes.Dataset) rtypes.Dataset {
	out, fired := rejection.NormalizeCategoriesCounted(ds)

	counts := make(map[string]int, len(fired))
	for label, n := range fired {
		counts[string(label)] = n
	}
	prometheus.RecordNormalized(s.metrics, counts)
	s.done(OpNormalize, nil, logging.Int("records", out.Len()))
	return out
}

func (s *serviceImpl) LabelSummary(ds rtypes.Dataset) []rtypes.LabelCount {
	out := rejection.CountByLabel(ds)
	s.done(OpLabelSummary, nil, logging.Int("labels", len(out)))
	return out
}

func (s *serviceImpl) view(name string, ds rtypes.Dataset) {
	prometheus.RecordView(s.metrics, name, ds.Len())
}

// done records the outcome of op.  Input errors are the caller's mistake and
// log at warn; everything else logs at error.
func (s *serviceImpl) done(op string, err error, fields ...logging.Field) {
	prometheus.RecordOperation(s.metrics, op, err)
	fields = append(fields, logging.String("operation", op))
	switch {
	case err == nil:
		s.logger.Debug("operation completed", fields...)
	case errors.IsInputError(err):
		s.logger.Warn("operation rejected", append(fields, logging.Err(err))...)
	default:
		s.logger.Error("operation failed", append(fields,
			logging.Err(err),
			logging.String("code", string(errors.GetCode(err))))...)
	}
}

//Personal.AI order the ending
