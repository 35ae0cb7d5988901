package app

import (
	"context"

	"github.com/jcmexdev/orders-service/internal/order-service/domain"
	"github.com/jcmexdev/orders-service/internal/order-service/shipping"
)

// CustomerStore signals absence by wrapping domain.ErrNotFound.
type CustomerStore interface {
	GetCustomerByID(ctx context.Context, id string) (domain.Customer, error)
	ListCustomers(ctx context.Context, filter domain.CustomerFilter, page domain.PageRequest) ([]domain.Customer, int, error)
}

// OrderStore creates orders in PENDING. GetOrder and UpdateOrder return the
// order with its lines; absence wraps domain.ErrNotFound.
type OrderStore interface {
	CreateOrder(ctx context.Context, order domain.NewOrder) (domain.Order, error)
	UpdateOrder(ctx context.Context, id string, update domain.OrderUpdate) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter, page domain.PageRequest) ([]domain.Order, int, error)
}

// Inventory is the external product service. Unknown ids are silently
// dropped from GetProducts results.
type Inventory interface {
	GetProducts(ctx context.Context, productIDs []string) ([]domain.Product, error)
	UpdateStock(ctx context.Context, movements []domain.StockMovement) error
}

// ShippingCalculator never fails; carrier trouble shows up as a degraded quote.
type ShippingCalculator interface {
	Calculate(ctx context.Context, customer domain.Customer) shipping.Quote
}
