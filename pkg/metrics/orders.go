package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// normalizeLabel keeps label values lowercase and bounded so callers cannot
// fan out the cardinality with free-form input.
func normalizeLabel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "unknown"
	}
	return value
}

// OrderMetrics records placement outcomes and latency for pedidos.
type OrderMetrics struct {
	placed    *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cancelled prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pedidos_placed_total",
		Help: "Orders committed, labelled by channel (guest or registered).",
	}, []string{"channel"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pedidos_rejected_total",
		Help: "Order placements rejected, labelled by reason.",
	}, []string{"reason"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pedidos_place_duration_seconds",
		Help:    "Latency of the place-order transaction.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pedidos_cancelled_total",
		Help: "Orders cancelled, including TTL expiry.",
	})
	reg.MustRegister(placed, rejected, duration, cancelled)
	return &OrderMetrics{
		placed:    placed,
		rejected:  rejected,
		duration:  duration,
		cancelled: cancelled,
	}
}

// IncPlaced increments the placed counter for the given channel.
func (m *OrderMetrics) IncPlaced(channel string) {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncRejected increments the rejected counter for the given reason.
func (m *OrderMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObservePlaceDuration records the end-to-end placement latency.
func (m *OrderMetrics) ObservePlaceDuration(channel string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(channel)).Observe(d.Seconds())
}

// IncCancelled increments the cancellation counter.
func (m *OrderMetrics) IncCancelled() {
	if m == nil || m.cancelled == nil {
		return
	}
	m.cancelled.Inc()
}
