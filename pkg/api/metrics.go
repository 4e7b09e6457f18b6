package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/pfostream/pkg/stream"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

const (
	stageBuffered = "buffered"
	stageApplied  = "applied"
)

// Metrics holds all Prometheus metrics for the API and the stream reader.
// It implements stream.Observer, so it can be set on a reader config.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Reader metrics
	containersTotal    *prometheus.CounterVec
	recordsTotal       *prometheus.CounterVec
	relationshipsTotal *prometheus.CounterVec

	// Assembly metrics
	eventsAssembledTotal *prometheus.CounterVec
	pfosPerEvent         prometheus.Histogram

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

var _ stream.Observer = (*Metrics)(nil)

// NewMetrics creates all metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfostream_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pfostream_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pfostream_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfostream_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		containersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfostream_containers_total",
				Help: "Total number of container headers read",
			},
			[]string{"kind"},
		),

		recordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfostream_records_total",
				Help: "Total number of records read",
			},
			[]string{"record", "status"},
		),

		relationshipsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfostream_relationships_total",
				Help: "Total number of relationships buffered or applied",
			},
			[]string{"id", "stage", "status"},
		),

		eventsAssembledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfostream_events_assembled_total",
				Help: "Total number of events assembled into particle flow objects",
			},
			[]string{"status"},
		),

		pfosPerEvent: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pfostream_pfos_per_event",
				Help:    "Number of particle flow objects per assembled event",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pfostream_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func status(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	m.authRequestsTotal.WithLabelValues(status(success)).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	m.healthChecksTotal.WithLabelValues(status(success)).Inc()
}

// RecordEventAssembled records the outcome of assembling one event
func (m *Metrics) RecordEventAssembled(pfos int, success bool) {
	m.eventsAssembledTotal.WithLabelValues(status(success)).Inc()
	if success {
		m.pfosPerEvent.Observe(float64(pfos))
	}
}

// ObserveContainer implements stream.Observer
func (m *Metrics) ObserveContainer(kind stream.ContainerKind) {
	m.containersTotal.WithLabelValues(kind.String()).Inc()
}

// ObserveRecord implements stream.Observer
func (m *Metrics) ObserveRecord(record string, err error) {
	m.recordsTotal.WithLabelValues(record, status(err == nil)).Inc()
}

// ObserveRelationship implements stream.Observer
func (m *Metrics) ObserveRelationship(id stream.RelationshipID, deferred bool, err error) {
	stage := stageApplied
	if deferred {
		stage = stageBuffered
	}
	m.relationshipsTotal.WithLabelValues(id.String(), stage, status(err == nil)).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// InstrumentAuthMiddleware counts requests that presented an API key,
// split by whether the key was accepted
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAPIKey := r.Header.Get(apiKeyHeader) != ""

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next(h).ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
