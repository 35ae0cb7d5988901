package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Shipping quote outcomes.
const (
	QuoteCached   = "cached"
	QuoteFetched  = "fetched"
	QuoteDegraded = "degraded"
)

// Order creation results. OrderStuckPending means the order row exists but
// stock or confirmation failed; it needs an operator.
const (
	OrderConfirmed    = "confirmed"
	OrderRejected     = "rejected"
	OrderStuckPending = "stuck_pending"
)

type Metrics struct {
	registry      *prometheus.Registry
	shippingQuote *prometheus.CounterVec
	ordersCreated *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		shippingQuote: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shipping_quotes_total",
			Help: "Shipping quotes served, by outcome.",
		}, []string{"outcome"}),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Order creation attempts, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.shippingQuote,
		m.ordersCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// The Observe methods are nil-safe so components can run without metrics.

func (m *Metrics) ObserveShippingQuote(outcome string) {
	if m == nil {
		return
	}
	m.shippingQuote.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveOrder(result string) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(result).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
