package uspto

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Rejections/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyIP-Rejections/internal/testutil"
	"github.com/turtacn/KeyIP-Rejections/pkg/errors"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(Config{BaseURL: server.URL}, logging.NewNopLogger(), nil, opts...)
	require.NoError(t, err)
	return c, server
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func threeDocs() string {
	return testutil.Response(
		testutil.Doc("14983812", "2019-04-12T00:00:00", "rejection", "CTNF", map[string]string{"hasRej103": "1"}),
		testutil.Doc("14983812", "2020-01-03T00:00:00", "allowable", "CTFR", nil),
		testutil.Doc("15000001", "2021-07-30T00:00:00", "withdrawn", "", nil),
	)
}

// ---------------------------------------------------------------------------
// Constructor
// ---------------------------------------------------------------------------

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, DefaultCriteria, c.cfg.Criteria)
	assert.Equal(t, DefaultUserAgent, c.cfg.UserAgent)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "ftp://example.com"}, nil, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidConfig))

	_, err = NewClient(Config{Start: -1}, nil, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidConfig))
}

func TestNewClient_InsecureSkipVerify(t *testing.T) {
	c, err := NewClient(Config{InsecureSkipVerify: true}, nil, nil)
	require.NoError(t, err)
	transport, ok := c.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.TLSClientConfig)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
}

func TestNewClient_Options(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}
	limiter := NewLimiter(5, 2)
	c, err := NewClient(Config{}, nil, nil, WithHTTPClient(custom), WithLimiter(limiter), WithHTTPClient(nil))
	require.NoError(t, err)
	assert.Same(t, custom, c.httpClient)
	assert.Same(t, limiter, c.limiter)
}

// ---------------------------------------------------------------------------
// Fetch
// ---------------------------------------------------------------------------

func TestFetch_RequestShape(t *testing.T) {
	var (
		gotForm    url.Values
		gotHeaders http.Header
		gotMethod  string
	)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeaders = r.Header.Clone()
		assert.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		respond(threeDocs())(w, r)
	})

	ds, err := c.Fetch(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/x-www-form-urlencoded", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Equal(t, DefaultUserAgent, gotHeaders.Get("User-Agent"))
	assert.Equal(t, "*:*", gotForm.Get("criteria"))
	assert.Equal(t, "0", gotForm.Get("start"))
	assert.Equal(t, "11", gotForm.Get("rows"))

	requestID := gotHeaders.Get("X-Request-ID")
	_, err = uuid.Parse(requestID)
	assert.NoError(t, err)
	assert.Equal(t, requestID, ds.Source().RequestID)
	assert.Equal(t, 10, ds.Source().RequestedRows)
	assert.False(t, ds.YearsExtracted())
}

func TestFetch_DecodesRecords(t *testing.T) {
	c, _ := newTestClient(t, respond(threeDocs()))

	ds, err := c.Fetch(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	first := ds.At(0)
	assert.Equal(t, "14983812", first.PatentApplicationNumber)
	assert.Equal(t, "2019-04-12T00:00:00", first.SubmissionDate)
	assert.Equal(t, "rejection", first.ActionTypeCategory)
	assert.Equal(t, rtypes.DocumentNonFinalRejection, first.LegacyDocumentCodeIdentifier)
	assert.True(t, first.Flags.Has(rtypes.FlagHasRej103))
	assert.Equal(t, rtypes.DocumentCode(""), ds.At(2).LegacyDocumentCodeIdentifier)
}

func TestFetch_TruncatesToMaxRows(t *testing.T) {
	c, _ := newTestClient(t, respond(threeDocs()))

	ds, err := c.Fetch(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestFetch_RowBounds(t *testing.T) {
	var hits int32
	var rows string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		rows = r.FormValue("rows")
		respond(testutil.Response())(w, r)
	})

	for _, n := range []int{0, -5, MaxRows + 1} {
		_, err := c.Fetch(context.Background(), n)
		require.Error(t, err, n)
		assert.True(t, errors.IsInputError(err), n)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRowCount), n)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "out-of-range calls never reach the upstream")

	ds, err := c.Fetch(context.Background(), MaxRows)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, "100001", rows)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	_, err := c.Fetch(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.IsRequestError(err))
	assert.True(t, errors.IsCode(err, errors.ErrCodeUpstreamStatus))
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "maintenance")
}

func TestFetch_TransportFailure(t *testing.T) {
	c, server := newTestClient(t, respond(threeDocs()))
	server.Close()

	_, err := c.Fetch(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUpstreamTransport))
}

func TestFetch_MalformedPayload(t *testing.T) {
	for name, body := range map[string]string{
		"not json":     "<html>oops</html>",
		"missing docs": `{"response":{"numFound":0}}`,
		"docs object":  `{"response":{"docs":{}}}`,
		"scalar doc":   `{"response":{"docs":[1]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, respond(body))
			_, err := c.Fetch(context.Background(), 10)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeUpstreamPayload))
		})
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, 10)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCanceled))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestFetch_ClockAndMetrics(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test"}, nil)
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(respond(threeDocs()))
	t.Cleanup(server.Close)
	c, err := NewClient(Config{BaseURL: server.URL}, nil, metrics, WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	ds, err := c.Fetch(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, fixed, ds.Source().FetchedAt)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := rec.Body.String()
	assert.Contains(t, out, `test_upstream_requests_total{status="200"} 1`)
	assert.Contains(t, out, "test_records_fetched 3")
	// A frozen clock makes the observed round trip exactly zero.
	assert.Contains(t, out, "test_upstream_request_duration_seconds_count 1")
	assert.Contains(t, out, "test_upstream_request_duration_seconds_sum 0\n")
}

func TestFetch_LogsRequestID(t *testing.T) {
	logger := testutil.NewMockLogger()
	server := httptest.NewServer(respond(threeDocs()))
	t.Cleanup(server.Close)
	c, err := NewClient(Config{BaseURL: server.URL}, logger, nil)
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, logger.HasMessage("info", "fetched rejection records"))
	records, ok := logger.FieldValue("fetched rejection records", "records")
	require.True(t, ok)
	assert.Equal(t, 3, records)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.True(t, strings.HasPrefix(truncate(strings.Repeat("x", 600), 512), strings.Repeat("x", 512)+"..."))
}
