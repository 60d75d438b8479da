package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.OrderSubmitted("barangay-clearance")
	m.OrderSubmitted("barangay-clearance")
	m.OrderTransition("ready", "forward")
	m.NotificationDispatched("order")
	m.StoreConflict("orders")
	m.ObserveStore("orders", "write", 2*time.Millisecond)
	m.RecordRequest("/orders", "POST", 201, time.Millisecond)
	m.RecordError("/orders", "POST", "VALIDATION_FAILED")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submitted.WithLabelValues("barangay-clearance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("ready", "forward")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("order")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeConflict.WithLabelValues("orders")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/orders", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/orders", "POST", "VALIDATION_FAILED")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderSubmitted("x")
		m.OrderTransition("ready", "forward")
		m.NotificationDispatched("order")
		m.ObserveStore("orders", "read", time.Millisecond)
		m.StoreConflict("orders")
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
	})
}
