package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ObserveShippingQuote(QuoteCached)
	m.ObserveShippingQuote(QuoteCached)
	m.ObserveShippingQuote(QuoteDegraded)
	m.ObserveOrder(OrderStuckPending)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.shippingQuote.WithLabelValues(QuoteCached)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shippingQuote.WithLabelValues(QuoteDegraded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersCreated.WithLabelValues(OrderStuckPending)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveShippingQuote(QuoteFetched)
		m.ObserveOrder(OrderConfirmed)
	})
}
