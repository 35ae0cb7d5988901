package coordinator

import (
	"context"
	"fmt"

	"github.com/jcmexdev/orders-service/internal/order-service/domain"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, order domain.NewOrder) (domain.Order, error)
}

type OrderUpdater interface {
	UpdateOrder(ctx context.Context, id string, update domain.OrderUpdate) (domain.Order, error)
}

type StockUpdater interface {
	UpdateStock(ctx context.Context, movements []domain.StockMovement) error
}

const (
	CreateOrderStepName  = "Create_Order_Step"
	InventoryStepName    = "Inventory_Stock_Step"
	ConfirmOrderStepName = "Confirm_Order_Step"
)

// --- CreateOrderStep ---

// CreateOrderStep persists the order in PENDING.
type CreateOrderStep struct {
	store OrderCreator
	order domain.NewOrder
	saved domain.Order
}

func NewCreateOrderStep(store OrderCreator, order domain.NewOrder) *CreateOrderStep {
	return &CreateOrderStep{store: store, order: order}
}

func (s *CreateOrderStep) Name() string { return CreateOrderStepName }

func (s *CreateOrderStep) Execute(ctx context.Context) error {
	saved, err := s.store.CreateOrder(ctx, s.order)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	s.saved = saved
	return nil
}

func (s *CreateOrderStep) Order() domain.Order { return s.saved }

// --- InventoryStep ---

// InventoryStep decrements stock for every line of the order in one batch.
type InventoryStep struct {
	client    StockUpdater
	orderID   string
	movements []domain.StockMovement
}

func NewInventoryStep(client StockUpdater, orderID string, items []domain.OrderItem) *InventoryStep {
	movements := make([]domain.StockMovement, 0, len(items))
	for _, item := range items {
		movements = append(movements, domain.StockMovement{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Action:      domain.StockActionSell,
			Description: SellDescription(orderID),
		})
	}
	return &InventoryStep{client: client, orderID: orderID, movements: movements}
}

func SellDescription(orderID string) string {
	return "Selling for order " + orderID
}

func (s *InventoryStep) Name() string { return InventoryStepName }

func (s *InventoryStep) Execute(ctx context.Context) error {
	if err := s.client.UpdateStock(ctx, s.movements); err != nil {
		return fmt.Errorf("inventory update for order %s: %w", s.orderID, err)
	}
	return nil
}

// --- ConfirmOrderStep ---

// ConfirmOrderStep promotes the order to CONFIRMED.
type ConfirmOrderStep struct {
	store     OrderUpdater
	orderID   string
	confirmed domain.Order
}

func NewConfirmOrderStep(store OrderUpdater, orderID string) *ConfirmOrderStep {
	return &ConfirmOrderStep{store: store, orderID: orderID}
}

func (s *ConfirmOrderStep) Name() string { return ConfirmOrderStepName }

func (s *ConfirmOrderStep) Execute(ctx context.Context) error {
	status := domain.StatusConfirmed
	order, err := s.store.UpdateOrder(ctx, s.orderID, domain.OrderUpdate{Status: &status})
	if err != nil {
		return fmt.Errorf("failed to confirm order %s: %w", s.orderID, err)
	}
	s.confirmed = order
	return nil
}

func (s *ConfirmOrderStep) Order() domain.Order { return s.confirmed }
