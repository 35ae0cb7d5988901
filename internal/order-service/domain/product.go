package domain

import "github.com/shopspring/decimal"

// Product is a snapshot of the inventory service's view at the time it was fetched.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Stock int
}

type StockAction string

const (
	StockActionSell     StockAction = "SELL"
	StockActionPurchase StockAction = "PURCHASE"
)

type StockMovement struct {
	ProductID   string
	Quantity    int
	Action      StockAction
	Description string
}
