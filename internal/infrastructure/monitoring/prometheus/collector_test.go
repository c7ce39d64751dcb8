package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

// hasSample reports whether the exposition contains a sample line starting
// with series and carrying value.
func hasSample(output, series, value string) bool {
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, series+" ") && strings.TrimPrefix(line, series+" ") == value {
			return true
		}
	}
	return false
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidConfig))
}

func TestNewMetricsCollector_WithRuntimeMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{
		Namespace:            "test",
		EnableGoMetrics:      true,
		EnableProcessMetrics: true,
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, c), "go_goroutines")
}

func TestRegisterCounter_WithLabels(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("events_total", "events", "kind")
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("a").Add(2)

	assert.True(t, hasSample(scrapeMetrics(t, c), `test_unit_events_total{kind="a"}`, "3"))
}

func TestRegisterCounter_DuplicateSharesVector(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup_total", "dup").WithLabelValues().Inc()
	c.RegisterCounter("dup_total", "dup").WithLabelValues().Inc()

	assert.True(t, hasSample(scrapeMetrics(t, c), "test_unit_dup_total", "2"))
}

func TestRegister_TypeMismatchIsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("shared", "a counter")
	g := c.RegisterGauge("shared", "a gauge")

	assert.NotPanics(t, func() { g.WithLabelValues().Set(3) })
	assert.IsType(t, noopGaugeVec{}, g)
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("level", "level", "view")
	g.WithLabelValues("x").Set(5)
	g.WithLabelValues("x").Dec()

	assert.True(t, hasSample(scrapeMetrics(t, c), `test_unit_level{view="x"}`, "4"))
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterHistogram("latency_seconds", "latency", nil).WithLabelValues().Observe(0.2)

	out := scrapeMetrics(t, c)
	assert.True(t, hasSample(out, "test_unit_latency_seconds_count", "1"))
	assert.Contains(t, out, `le="0.25"`)
}

func TestConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent_total", "concurrent").WithLabelValues().Inc()
		}()
	}
	wg.Wait()
	assert.True(t, hasSample(scrapeMetrics(t, c), "test_unit_concurrent_total", "10"))
}

func TestMustRegisterAndUnregister(t *testing.T) {
	c := newTestCollector(t)
	custom := prometheus.NewCounter(prometheus.CounterOpts{Name: "custom_total", Help: "custom"})
	c.MustRegister(custom)
	custom.Inc()

	families, err := c.Gatherer().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "custom_total", families[0].GetName())

	assert.True(t, c.Unregister(custom))
	assert.False(t, c.Unregister(custom))
}
