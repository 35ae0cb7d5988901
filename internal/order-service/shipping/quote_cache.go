package shipping

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jcmexdev/orders-service/internal/pkg/cache"
)

// DefaultQuoteTTL is how long a quote lives after its last write.
const DefaultQuoteTTL = 10 * 24 * time.Hour

const quoteOperation = "shipping"

// QuoteCache maps a customer id to the last quote computed for it. It never
// checks zip codes; that is the caller's job.
type QuoteCache interface {
	Has(ctx context.Context, customerID string) bool
	Get(ctx context.Context, customerID string) (Quote, bool)
	Set(ctx context.Context, customerID string, quote Quote)
}

type quoteCache struct {
	store cache.Cache
	ttl   time.Duration
}

// NewQuoteCache stores JSON-encoded quotes in store. Backend failures are
// logged and reported as misses so shipping keeps working without a cache.
func NewQuoteCache(store cache.Cache, ttl time.Duration) QuoteCache {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	return &quoteCache{store: store, ttl: ttl}
}

func (c *quoteCache) key(customerID string) string {
	return c.store.GenerateKey(quoteOperation, customerID)
}

func (c *quoteCache) Has(ctx context.Context, customerID string) bool {
	ok, err := c.store.Has(ctx, c.key(customerID))
	if err != nil {
		slog.WarnContext(ctx, "shipping cache lookup failed", "customer_id", customerID, "error", err)
		return false
	}
	return ok
}

func (c *quoteCache) Get(ctx context.Context, customerID string) (Quote, bool) {
	raw, ok, err := c.store.Get(ctx, c.key(customerID))
	if err != nil {
		slog.WarnContext(ctx, "shipping cache read failed", "customer_id", customerID, "error", err)
		return Quote{}, false
	}
	if !ok {
		return Quote{}, false
	}

	var q Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		slog.WarnContext(ctx, "discarding undecodable shipping quote", "customer_id", customerID, "error", err)
		return Quote{}, false
	}
	return q, true
}

func (c *quoteCache) Set(ctx context.Context, customerID string, quote Quote) {
	raw, err := json.Marshal(quote)
	if err != nil {
		slog.WarnContext(ctx, "shipping quote encode failed", "customer_id", customerID, "error", err)
		return
	}
	if err := c.store.Set(ctx, c.key(customerID), raw, c.ttl); err != nil {
		slog.WarnContext(ctx, "shipping cache write failed", "customer_id", customerID, "error", err)
	}
}
