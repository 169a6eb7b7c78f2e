// Package metrics collects Prometheus metrics for backend traffic and guest
// data migrations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the fetch client and the auth service report to.
type Recorder interface {
	RecordAttempt()
	RecordFailure(reason string)
	RecordHTTPStatus(statusCode int)
	RecordRetriesExhausted()
	RecordLatency(d time.Duration)
	RecordMigration(result string)
}

// Failure reasons.
const (
	ReasonTransport   = "transport"
	ReasonStatus      = "status"
	ReasonContentType = "content_type"
)

// Migration results.
const (
	MigrationOK      = "ok"
	MigrationFailed  = "failed"
	MigrationSkipped = "skipped"
)

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	attempts   prometheus.Counter
	failures   *prometheus.CounterVec
	httpStatus *prometheus.CounterVec
	exhausted  prometheus.Counter
	latency    prometheus.Histogram
	migrations *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hydratemate_fetch_attempts_total",
			Help: "Total number of HTTP attempts made against the backend.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hydratemate_fetch_failures_total",
			Help: "Failed attempts by reason.",
		}, []string{"reason"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hydratemate_http_status_total",
			Help: "Backend responses by HTTP status code.",
		}, []string{"status_code"}),
		exhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hydratemate_fetch_retries_exhausted_total",
			Help: "Requests that failed on every attempt.",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hydratemate_fetch_latency_seconds",
			Help:    "Latency of single backend attempts in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		migrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hydratemate_guest_migrations_total",
			Help: "Guest data migrations by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.attempts,
		c.failures,
		c.httpStatus,
		c.exhausted,
		c.latency,
		c.migrations,
	)

	return c
}

func (c *Collector) RecordAttempt() {
	c.attempts.Inc()
}

func (c *Collector) RecordFailure(reason string) {
	c.failures.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordRetriesExhausted() {
	c.exhausted.Inc()
}

func (c *Collector) RecordLatency(d time.Duration) {
	c.latency.Observe(d.Seconds())
}

func (c *Collector) RecordMigration(result string) {
	c.migrations.WithLabelValues(result).Inc()
}

type nop struct{}

// Nop returns a Recorder that drops everything.
func Nop() Recorder { return nop{} }

func (nop) RecordAttempt()              {}
func (nop) RecordFailure(string)        {}
func (nop) RecordHTTPStatus(int)        {}
func (nop) RecordRetriesExhausted()     {}
func (nop) RecordLatency(time.Duration) {}
func (nop) RecordMigration(string)      {}

// Handler serves gatherer in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NewServeMux mounts Handler at /metrics.
func NewServeMux(gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
