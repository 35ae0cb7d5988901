package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	Lines         []Line          `json:"products,omitempty"`
	ShippingPrice decimal.Decimal `json:"shippingPrice"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Line is the persisted snapshot of a product at order time. Price and name
// are never re-derived from the inventory after the order exists.
type Line struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderItem is the request shape: a product and how many units of it.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// NewOrder carries everything the order store needs to persist a PENDING order.
type NewOrder struct {
	ID            string
	CustomerID    string
	Lines         []Line
	ShippingPrice decimal.Decimal
	Total         decimal.Decimal
}

// OrderUpdate is a partial update; nil fields are left untouched.
type OrderUpdate struct {
	Status        *OrderStatus
	ShippingPrice *decimal.Decimal
	Total         *decimal.Decimal
}

type OrderFilter struct {
	CustomerID string
	Status     OrderStatus
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
