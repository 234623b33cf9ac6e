package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Work item metrics
	WorkItemsCreatedTotal prometheus.Counter
	InspectionsTotal      *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics on registry.
// A nil registry gets a fresh one with the Go and process collectors.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packhouse_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "packhouse_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		WorkItemsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "packhouse_work_items_created_total",
				Help: "Total number of work items submitted by growers",
			},
		),
		InspectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packhouse_inspections_total",
				Help: "Total number of recorded inspections, by result and whether they changed the item status",
			},
			[]string{"result", "applied"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WorkItemsCreatedTotal,
		m.InspectionsTotal,
	)

	return m
}

// ObserveHTTPRequest records one finished request. route is the matched route
// pattern so that path parameters do not explode label cardinality.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// WorkItemCreated counts a grower submission.
func (m *Metrics) WorkItemCreated() {
	m.WorkItemsCreatedTotal.Inc()
}

// InspectionRecorded counts a QC decision.
func (m *Metrics) InspectionRecorded(result domain.InspectionResult, applied bool) {
	m.InspectionsTotal.WithLabelValues(string(result), strconv.FormatBool(applied)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
