package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAttempt()
	c.RecordAttempt()
	c.RecordAttempt()
	c.RecordFailure(ReasonTransport)
	c.RecordFailure(ReasonTransport)
	c.RecordFailure(ReasonStatus)
	c.RecordRetriesExhausted()
	c.RecordMigration(MigrationOK)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.attempts))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.failures.WithLabelValues(ReasonTransport)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues(ReasonStatus)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.exhausted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.migrations.WithLabelValues(MigrationOK)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.migrations.WithLabelValues(MigrationFailed)))
}

func TestCollector_HTTPStatusLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(401)

	assert.Equal(t, 2, testutil.CollectAndCount(c.httpStatus))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpStatus.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpStatus.WithLabelValues("401")))
}

func TestCollector_Latency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLatency(150 * time.Millisecond)
	c.RecordLatency(2 * time.Second)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range mfs {
		if mf.GetName() != "hydratemate_fetch_latency_seconds" {
			continue
		}
		found = true
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(2), h.GetSampleCount())
		assert.InDelta(t, 2.15, h.GetSampleSum(), 1e-9)
	}
	assert.True(t, found, "latency histogram not gathered")
}

func TestNewCollector_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewCollector(reg)
	assert.Panics(t, func() { _ = NewCollector(reg) })
}

func TestNop_DoesNotPanic(t *testing.T) {
	r := Nop()
	r.RecordAttempt()
	r.RecordFailure(ReasonContentType)
	r.RecordHTTPStatus(500)
	r.RecordRetriesExhausted()
	r.RecordLatency(time.Second)
	r.RecordMigration(MigrationSkipped)
}

func TestNewServeMux_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAttempt()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	NewServeMux(reg).ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "hydratemate_fetch_attempts_total 1"))
}
