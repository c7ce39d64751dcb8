package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
)

// AppMetrics holds every metric recorded by the library.
type AppMetrics struct {
	// Upstream
	UpstreamRequestsTotal   CounterVec
	UpstreamRequestDuration HistogramVec
	RecordsFetched          GaugeVec

	// Analysis
	YearParseFailuresTotal CounterVec
	NormalizedValuesTotal  CounterVec
	ViewRecords            GaugeVec
	OperationsTotal        CounterVec

	// Health
	ErrorsTotal CounterVec
}

// DefaultUpstreamDurationBuckets spans a fast cached answer up to a full
// 100k-row download.
var DefaultUpstreamDurationBuckets = []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120}

// Status label used for transport failures that never produced a response.
const StatusTransportError = "transport_error"

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.UpstreamRequestsTotal = collector.RegisterCounter("upstream_requests_total", "Requests sent to the rejection records API", "status")
	m.UpstreamRequestDuration = collector.RegisterHistogram("upstream_request_duration_seconds", "Rejection records API round trip, including body download", DefaultUpstreamDurationBuckets)
	m.RecordsFetched = collector.RegisterGauge("records_fetched", "Records in the most recently fetched dataset")

	m.YearParseFailuresTotal = collector.RegisterCounter("year_parse_failures_total", "Submission dates that could not be parsed")
	m.NormalizedValuesTotal = collector.RegisterCounter("normalized_values_total", "Action type values matched by each canonical label during rewrite", "label")
	m.ViewRecords = collector.RegisterGauge("view_records", "Records in the most recent derived view", "view")
	m.OperationsTotal = collector.RegisterCounter("operations_total", "Service operations", "operation", "result")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and kind", "component", "kind")

	return m
}

// NewNopAppMetrics returns AppMetrics whose vectors discard every sample.
func NewNopAppMetrics() *AppMetrics {
	return &AppMetrics{
		UpstreamRequestsTotal:   noopCounterVec{},
		UpstreamRequestDuration: noopHistogramVec{},
		RecordsFetched:          noopGaugeVec{},
		YearParseFailuresTotal:  noopCounterVec{},
		NormalizedValuesTotal:   noopCounterVec{},
		ViewRecords:             noopGaugeVec{},
		OperationsTotal:         noopCounterVec{},
		ErrorsTotal:             noopCounterVec{},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// RecordUpstreamRequest counts one upstream call.  statusCode 0 means the
// request failed before a response arrived.
func RecordUpstreamRequest(m *AppMetrics, statusCode int, duration time.Duration) {
	status := StatusTransportError
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.UpstreamRequestsTotal.WithLabelValues(status).Inc()
	m.UpstreamRequestDuration.WithLabelValues().Observe(duration.Seconds())
}

func RecordFetched(m *AppMetrics, records int) {
	m.RecordsFetched.WithLabelValues().Set(float64(records))
}

func RecordYearParseFailure(m *AppMetrics) {
	m.YearParseFailuresTotal.WithLabelValues().Inc()
}

// RecordNormalized adds per-label rewrite counts.
func RecordNormalized(m *AppMetrics, counts map[string]int) {
	for label, n := range counts {
		m.NormalizedValuesTotal.WithLabelValues(label).Add(float64(n))
	}
}

func RecordView(m *AppMetrics, view string, records int) {
	m.ViewRecords.WithLabelValues(view).Set(float64(records))
}

// RecordOperation counts one service operation and, on failure, the error by
// its kind.
func RecordOperation(m *AppMetrics, operation string, err error) {
	if err == nil {
		m.OperationsTotal.WithLabelValues(operation, "success").Inc()
		return
	}
	m.OperationsTotal.WithLabelValues(operation, "failure").Inc()
	RecordError(m, operation, err)
}

// RecordError counts err under component, labelled with its error kind.
func RecordError(m *AppMetrics, component string, err error) {
	m.ErrorsTotal.WithLabelValues(component, string(errors.KindOf(err))).Inc()
}

//Personal.AI order the ending
