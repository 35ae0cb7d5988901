package shipping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/orders-service/internal/order-service/adapters/carrier"
	"github.com/jcmexdev/orders-service/internal/order-service/domain"
	"github.com/jcmexdev/orders-service/internal/pkg/cache"
	"github.com/jcmexdev/orders-service/internal/pkg/telemetry"
)

const warehouseZip = "01001000"

type mockRates struct {
	mock.Mock
}

func (m *mockRates) GetRates(ctx context.Context, originZip, destinationZip string) ([]carrier.Rate, error) {
	args := m.Called(ctx, originZip, destinationZip)
	rates, _ := args.Get(0).([]carrier.Rate)
	return rates, args.Error(1)
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func fiveRates() []carrier.Rate {
	return []carrier.Rate{
		{ID: 1, Name: "PAC", Price: price("18.9")},
		{ID: 2, Name: "SEDEX", Price: price("25.5")},
		{ID: 3, Name: ".Package", Error: "Transportadora não atende este trecho."},
		{ID: 4, Name: ".Com", Price: price("21")},
		{ID: 5, Name: "Expresso", Price: price("40")},
	}
}

func newCalculator(t *testing.T, rates RateFetcher) (*Calculator, QuoteCache, *telemetry.Metrics) {
	t.Helper()
	qc := NewQuoteCache(cache.NewMemoryCache("orders", 64, DefaultQuoteTTL), DefaultQuoteTTL)
	m := telemetry.NewMetrics()
	return NewCalculator(rates, qc, warehouseZip, m), qc, m
}

func assertQuoteCount(t *testing.T, m *telemetry.Metrics, outcome string, want float64) {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "shipping_quotes_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == outcome {
					assert.Equal(t, want, metric.GetCounter().GetValue())
					return
				}
			}
		}
	}
	t.Fatalf("no shipping_quotes_total series for outcome %q", outcome)
}

func TestCalculate_FetchesAndCaches(t *testing.T) {
	ctx := context.Background()
	rates := new(mockRates)
	rates.On("GetRates", mock.Anything, warehouseZip, "09030310").Return(fiveRates(), nil).Once()

	calc, qc, m := newCalculator(t, rates)
	customer := domain.Customer{ID: "c1", ZipCode: "09030310"}

	q := calc.Calculate(ctx, customer)
	assert.Equal(t, OutcomeFetched, q.Outcome)
	assert.Equal(t, "18.9", q.Pac.String())
	assert.Equal(t, "25.5", q.Sedex.String())
	assert.Equal(t, NotAvailable, q.DotPackage.String())
	assert.Equal(t, "21", q.DotCom.String())
	assert.Equal(t, "40", q.Expresso.String())

	require.True(t, qc.Has(ctx, "c1"))

	again := calc.Calculate(ctx, customer)
	assert.Equal(t, OutcomeCached, again.Outcome)
	assert.Equal(t, "25.5", again.Sedex.String())

	rates.AssertExpectations(t)
	assertQuoteCount(t, m, telemetry.QuoteCached, 1)
}

func TestCalculate_ZipChangeBypassesCache(t *testing.T) {
	ctx := context.Background()
	rates := new(mockRates)
	rates.On("GetRates", mock.Anything, warehouseZip, "22041001").Return(fiveRates()[:2], nil).Once()

	calc, qc, _ := newCalculator(t, rates)
	qc.Set(ctx, "c1", Quote{CustomerID: "c1", ZipCode: "09030310", Sedex: PriceOf(decimal.NewFromInt(99))})

	q := calc.Calculate(ctx, domain.Customer{ID: "c1", ZipCode: "22041001"})
	assert.Equal(t, OutcomeFetched, q.Outcome)
	assert.Equal(t, "22041001", q.ZipCode)
	assert.Equal(t, "25.5", q.Sedex.String())
	assert.False(t, q.DotCom.Available)
	assert.False(t, q.Expresso.Available)

	cached, ok := qc.Get(ctx, "c1")
	require.True(t, ok)
	assert.Equal(t, "22041001", cached.ZipCode)
	rates.AssertExpectations(t)
}

func TestCalculate_CarrierFailureDegradesWithoutCaching(t *testing.T) {
	ctx := context.Background()
	rates := new(mockRates)
	rates.On("GetRates", mock.Anything, warehouseZip, "09030310").
		Return(nil, &carrier.Error{StatusCode: 503, Status: "Service Unavailable"}).Twice()

	calc, qc, m := newCalculator(t, rates)
	customer := domain.Customer{ID: "c1", ZipCode: "09030310"}

	q := calc.Calculate(ctx, customer)
	assert.True(t, q.Degraded())
	assert.Equal(t, "c1", q.CustomerID)
	for _, method := range Methods {
		p, _ := q.Price(method)
		assert.False(t, p.Available, method)
	}
	assert.False(t, qc.Has(ctx, "c1"))

	// next call tries the carrier again
	calc.Calculate(ctx, customer)
	rates.AssertExpectations(t)
	assertQuoteCount(t, m, telemetry.QuoteDegraded, 2)
}

type failingStore struct{}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingStore) Has(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func (failingStore) GenerateKey(op, key string) string { return op + ":" + key }

func TestCalculate_CacheOutageStillQuotes(t *testing.T) {
	ctx := context.Background()
	rates := new(mockRates)
	rates.On("GetRates", mock.Anything, warehouseZip, "09030310").Return(fiveRates(), nil)

	calc := NewCalculator(rates, NewQuoteCache(failingStore{}, 0), warehouseZip, nil)
	q := calc.Calculate(ctx, domain.Customer{ID: "c1", ZipCode: "09030310"})

	assert.Equal(t, OutcomeFetched, q.Outcome)
	assert.Equal(t, "25.5", q.Sedex.String())
}

func TestQuoteCache_DiscardsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache("orders", 8, time.Hour)
	require.NoError(t, store.Set(ctx, store.GenerateKey("shipping", "c1"), []byte("{not json"), time.Minute))

	qc := NewQuoteCache(store, time.Minute)
	_, ok := qc.Get(ctx, "c1")
	assert.False(t, ok)
}
