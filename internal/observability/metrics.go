package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cycle outcomes recorded by RecordCycle.
const (
	OutcomeSuccess   = "success"
	OutcomeFetchFail = "fetch_failed"
	OutcomeRejected  = "rejected"
	OutcomeCanceled  = "canceled"
)

// Metrics holds the Prometheus collectors of the service on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	cycles           *prometheus.CounterVec
	recordsProcessed prometheus.Counter
	recordsSkipped   prometheus.Counter
	departments      prometheus.Gauge
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	errors           *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "summary_fetch_cycles_total",
			Help: "Fetch cycles by outcome.",
		}, []string{"outcome"}),
		recordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "summary_records_processed_total",
			Help: "User records folded into a summary.",
		}),
		recordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "summary_records_skipped_total",
			Help: "Malformed user records left out of a summary.",
		}),
		departments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "summary_departments",
			Help: "Departments in the current summary.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "HTTP errors by route, method and error code.",
		}, []string{"path", "method", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cycles,
		m.recordsProcessed,
		m.recordsSkipped,
		m.departments,
		m.requests,
		m.requestDuration,
		m.errors,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordCycle counts a finished fetch cycle.
func (m *Metrics) RecordCycle(outcome string) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(outcome).Inc()
}

// RecordSummary records the size of a freshly published summary.
func (m *Metrics) RecordSummary(processed, skipped, departments int) {
	if m == nil {
		return
	}
	m.recordsProcessed.Add(float64(processed))
	m.recordsSkipped.Add(float64(skipped))
	m.departments.Set(float64(departments))
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}
