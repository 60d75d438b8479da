package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the prometheus collectors used across the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	submitted     *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec
	storeConflict *prometheus.CounterVec
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docrequest_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		requestTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docrequest_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docrequest_http_errors_total",
			Help: "Error responses by route, method and domain error code",
		}, []string{"route", "method", "code"}),
		submitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docrequest_orders_submitted_total",
			Help: "Orders submitted by document type",
		}, []string{"document_type"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docrequest_order_transitions_total",
			Help: "Admin status transitions by target status and kind",
		}, []string{"to", "kind"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docrequest_notifications_dispatched_total",
			Help: "Notifications persisted by category",
		}, []string{"category"}),
		storeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docrequest_store_operation_duration_seconds",
			Help:    "Record store latency by collection and operation",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"collection", "op"}),
		storeConflict: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docrequest_store_version_conflicts_total",
			Help: "Rejected compare-and-swap writes by collection",
		}, []string{"collection"}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestTime.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// OrderSubmitted counts a new order.
func (m *Metrics) OrderSubmitted(documentType string) {
	if m == nil {
		return
	}
	m.submitted.WithLabelValues(documentType).Inc()
}

// OrderTransition counts an admin transition.
func (m *Metrics) OrderTransition(to, kind string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to, kind).Inc()
}

// NotificationDispatched counts a persisted notification.
func (m *Metrics) NotificationDispatched(category string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(category).Inc()
}

// ObserveStore records the latency of a store read or write.
func (m *Metrics) ObserveStore(collection, op string, d time.Duration) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(collection, op).Observe(d.Seconds())
}

// StoreConflict counts a rejected versioned write.
func (m *Metrics) StoreConflict(collection string) {
	if m == nil {
		return
	}
	m.storeConflict.WithLabelValues(collection).Inc()
}
