package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test")
	m.RecordRequest(http.MethodGet, "/who-am-i", http.StatusOK, 10*time.Millisecond)
	m.RecordRequest(http.MethodGet, "/who-am-i", http.StatusOK, 20*time.Millisecond)
	m.RecordRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/who-am-i", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", UnmatchedRoute, "404")))
}

func TestMetrics_ActiveRequests(t *testing.T) {
	t.Parallel()

	m := NewMetrics("")
	m.IncrementActiveRequests()
	m.IncrementActiveRequests()
	m.DecrementActiveRequests()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeRequests))
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := NewMetrics("test")
	m.SetBuildInfo("v1", "abc", "now")

	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_extra_total", Help: "extra"})
	require.NoError(t, m.RegisterCollector(extra))
	assert.Error(t, m.RegisterCollector(extra))
	extra.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_build_info{build_time="now",commit="abc",version="v1"} 1`)
	assert.Contains(t, string(body), "test_extra_total 1")
	assert.NotNil(t, m.Registry())
}
