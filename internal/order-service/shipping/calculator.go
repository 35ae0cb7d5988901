package shipping

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/orders-service/internal/order-service/adapters/carrier"
	"github.com/jcmexdev/orders-service/internal/order-service/domain"
	"github.com/jcmexdev/orders-service/internal/pkg/telemetry"
)

type RateFetcher interface {
	GetRates(ctx context.Context, originZip, destinationZip string) ([]carrier.Rate, error)
}

type Calculator struct {
	rates     RateFetcher
	cache     QuoteCache
	originZip string
	metrics   *telemetry.Metrics
	tracer    trace.Tracer
}

// NewCalculator quotes shipments from originZip. metrics may be nil.
func NewCalculator(rates RateFetcher, cache QuoteCache, originZip string, metrics *telemetry.Metrics) *Calculator {
	return &Calculator{
		rates:     rates,
		cache:     cache,
		originZip: originZip,
		metrics:   metrics,
		tracer:    otel.Tracer("shipping_calculator"),
	}
}

// Calculate returns the customer's quote. It never fails: a carrier problem
// yields a degraded quote (every service NotAvailable) which is not cached.
func (c *Calculator) Calculate(ctx context.Context, customer domain.Customer) Quote {
	ctx, span := c.tracer.Start(ctx, "ShippingCalculator.Calculate")
	defer span.End()
	span.SetAttributes(attribute.String("customer_id", customer.ID))

	if cached, ok := c.cache.Get(ctx, customer.ID); ok && cached.ZipCode == customer.ZipCode {
		cached.Outcome = OutcomeCached
		span.SetAttributes(attribute.String("outcome", string(OutcomeCached)))
		c.metrics.ObserveShippingQuote(telemetry.QuoteCached)
		return cached
	}

	rates, err := c.rates.GetRates(ctx, c.originZip, customer.ZipCode)
	if err != nil {
		slog.WarnContext(ctx, "failed to calculate shipping price",
			"customer_id", customer.ID,
			"zip_code", customer.ZipCode,
			"error", err.Error(),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "carrier unavailable")
		span.SetAttributes(attribute.String("outcome", string(OutcomeDegraded)))
		c.metrics.ObserveShippingQuote(telemetry.QuoteDegraded)
		return DegradedQuote(customer.ID, customer.ZipCode)
	}

	quote := quoteFromRates(customer, rates)
	c.cache.Set(ctx, customer.ID, quote)

	span.SetAttributes(attribute.String("outcome", string(OutcomeFetched)))
	c.metrics.ObserveShippingQuote(telemetry.QuoteFetched)
	return quote
}

// quoteFromRates maps the positional carrier answer onto named services.
// Missing positions and priceless entries become NotAvailable.
func quoteFromRates(customer domain.Customer, rates []carrier.Rate) Quote {
	q := Quote{
		CustomerID: customer.ID,
		ZipCode:    customer.ZipCode,
		Outcome:    OutcomeFetched,
	}
	for i, m := range Methods {
		if i >= len(rates) || !rates[i].Price.Valid {
			q.setPrice(m, Unavailable())
			continue
		}
		q.setPrice(m, PriceOf(rates[i].Price.Decimal))
	}
	return q
}
