// Package memory provides map-backed Customer and Order stores for local
// runs and tests.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jcmexdev/orders-service/internal/order-service/domain"
)

type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	now    func() time.Time
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[string]domain.Order),
		now:    time.Now,
	}
}

func (s *OrderStore) CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[in.ID]; exists {
		return domain.Order{}, fmt.Errorf("memory: order %s already exists", in.ID)
	}

	now := s.now().UTC()
	order := domain.Order{
		ID:            in.ID,
		CustomerID:    in.CustomerID,
		Lines:         slices.Clone(in.Lines),
		ShippingPrice: in.ShippingPrice,
		Total:         in.Total,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.orders[order.ID] = order

	slog.DebugContext(ctx, "order created", "order_id", order.ID)
	return cloneOrder(order), nil
}

func (s *OrderStore) UpdateOrder(_ context.Context, id string, update domain.OrderUpdate) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	if update.Status != nil {
		order.Status = *update.Status
	}
	if update.ShippingPrice != nil {
		order.ShippingPrice = *update.ShippingPrice
	}
	if update.Total != nil {
		order.Total = *update.Total
	}
	order.UpdatedAt = s.now().UTC()
	s.orders[id] = order

	return cloneOrder(order), nil
}

func (s *OrderStore) GetOrder(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return cloneOrder(order), nil
}

// ListOrders returns matches newest first. Listed orders carry no lines.
func (s *OrderStore) ListOrders(_ context.Context, filter domain.OrderFilter, page domain.PageRequest) ([]domain.Order, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Order
	for _, o := range s.orders {
		if filter.CustomerID != "" && o.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		o.Lines = nil
		matched = append(matched, o)
	}
	slices.SortFunc(matched, func(a, b domain.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return paginate(matched, page), len(matched), nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.Lines = slices.Clone(o.Lines)
	return o
}
