package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/orders-service/internal/order-service/domain"
)

func TestOrderStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewOrderStore()

	created, err := store.CreateOrder(ctx, domain.NewOrder{
		ID:         "o1",
		CustomerID: "c1",
		Lines: []domain.Line{
			{ProductID: "p1", ProductName: "Mug", Quantity: 2, Price: decimal.NewFromInt(50)},
		},
		ShippingPrice: decimal.RequireFromString("25.5"),
		Total:         decimal.RequireFromString("125.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)

	_, err = store.CreateOrder(ctx, domain.NewOrder{ID: "o1"})
	assert.Error(t, err)

	status := domain.StatusConfirmed
	updated, err := store.UpdateOrder(ctx, "o1", domain.OrderUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.Len(t, updated.Lines, 1)
	assert.Equal(t, "125.5", updated.Total.String())

	got, err := store.GetOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Lines[0].ProductName)

	_, err = store.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.UpdateOrder(ctx, "missing", domain.OrderUpdate{Status: &status})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderStore_ListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	store := NewOrderStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, o := range []domain.NewOrder{
		{ID: "o1", CustomerID: "c1"},
		{ID: "o2", CustomerID: "c1"},
		{ID: "o3", CustomerID: "c2"},
	} {
		_, err := store.CreateOrder(ctx, o)
		require.NoError(t, err)
	}
	confirmed := domain.StatusConfirmed
	_, err := store.UpdateOrder(ctx, "o2", domain.OrderUpdate{Status: &confirmed})
	require.NoError(t, err)

	orders, total, err := store.ListOrders(ctx, domain.OrderFilter{CustomerID: "c1"}, domain.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)

	orders, total, err = store.ListOrders(ctx, domain.OrderFilter{Status: domain.StatusPending}, domain.PageRequest{Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)

	orders, _, err = store.ListOrders(ctx, domain.OrderFilter{}, domain.PageRequest{Page: 5, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCustomerStore(t *testing.T) {
	ctx := context.Background()
	store := NewCustomerStore(
		domain.Customer{ID: "c1", Name: "Ana Souza", Email: "ana@example.com", ZipCode: "09030310"},
		domain.Customer{ID: "c2", Name: "Bruno Lima", Email: "bruno@EXAMPLE.com", ZipCode: "22041001"},
		domain.Customer{ID: "c3", Name: "Carla Dias", Email: "carla@other.org", ZipCode: "01310100"},
	)

	c, err := store.GetCustomerByID(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "22041001", c.ZipCode)

	_, err = store.GetCustomerByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, total, err := store.ListCustomers(ctx, domain.CustomerFilter{Email: "example"}, domain.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Ana Souza", list[0].Name)
	assert.Equal(t, "Bruno Lima", list[1].Name)

	list, total, err = store.ListCustomers(ctx, domain.CustomerFilter{Name: "DIAS"}, domain.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "c3", list[0].ID)
}
