// Package app holds the order-service use cases.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/orders-service/internal/coordinator"
	"github.com/jcmexdev/orders-service/internal/coordinator/sagalog"
	"github.com/jcmexdev/orders-service/internal/order-service/domain"
	"github.com/jcmexdev/orders-service/internal/order-service/shipping"
	"github.com/jcmexdev/orders-service/internal/pkg/telemetry"
)

const (
	msgCustomerNotFound      = "Customer not found"
	msgOrderNotFound         = "Order not found"
	msgWorkflowNotFound      = "Workflow not found"
	msgInvalidShippingMethod = "Shipping method invalid for this customer location"
)

type Service struct {
	customers   CustomerStore
	orders      OrderStore
	inventory   Inventory
	shipping    ShippingCalculator
	workflowLog sagalog.Repository
	metrics     *telemetry.Metrics
	tracer      trace.Tracer
	newID       func() string
}

// NewService wires the use cases. workflowLog and metrics may be nil.
func NewService(
	customers CustomerStore,
	orders OrderStore,
	inventory Inventory,
	calculator ShippingCalculator,
	workflowLog sagalog.Repository,
	metrics *telemetry.Metrics,
) *Service {
	return &Service{
		customers:   customers,
		orders:      orders,
		inventory:   inventory,
		shipping:    calculator,
		workflowLog: workflowLog,
		metrics:     metrics,
		tracer:      otel.Tracer("order_service"),
		newID:       uuid.NewString,
	}
}

type CreateOrderInput struct {
	CustomerID     string             `json:"customerId"`
	Items          []domain.OrderItem `json:"items"`
	ShippingMethod shipping.Method    `json:"shippingMethod"`
}

// CreateOrder validates and prices the request, then persists the order in
// PENDING, sells the stock and confirms it. Nothing is written before
// pricing succeeds. A failure after the order row exists is returned as is
// and leaves the order PENDING.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "Service.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.String("customer_id", in.CustomerID))

	// each raw item must stand on its own before duplicates are summed
	if err := validateItems(in.Items); err != nil {
		s.metrics.ObserveOrder(telemetry.OrderRejected)
		return domain.Order{}, err
	}
	items := mergeItems(in.Items)

	order, err := s.priceOrder(ctx, in.CustomerID, items, in.ShippingMethod)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
			s.metrics.ObserveOrder(telemetry.OrderRejected)
		}
		return domain.Order{}, err
	}
	span.SetAttributes(attribute.String("order_id", order.ID))

	create := coordinator.NewCreateOrderStep(s.orders, order)
	confirm := coordinator.NewConfirmOrderStep(s.orders, order.ID)
	steps := []coordinator.Step{
		create,
		coordinator.NewInventoryStep(s.inventory, order.ID, items),
		confirm,
	}

	payload, err := json.Marshal(in)
	if err != nil {
		slog.WarnContext(ctx, "failed to encode workflow payload", "order_id", order.ID, "error", err)
	}
	err = coordinator.NewOrchestrator(order.ID, steps, s.workflowLog).
		WithPayload(string(payload)).
		Start(ctx)
	if err != nil {
		var stepErr *coordinator.StepError
		if errors.As(err, &stepErr) && stepErr.Completed > 0 {
			s.metrics.ObserveOrder(telemetry.OrderStuckPending)
			slog.ErrorContext(ctx, "order left in PENDING",
				"order_id", order.ID,
				"failed_step", stepErr.Step,
				"error", stepErr.Err,
			)
			return domain.Order{}, stepErr.Err
		}
		if stepErr != nil {
			return domain.Order{}, stepErr.Err
		}
		return domain.Order{}, err
	}

	s.metrics.ObserveOrder(telemetry.OrderConfirmed)
	confirmed := confirm.Order()
	if len(confirmed.Lines) == 0 {
		confirmed.Lines = create.Order().Lines
	}
	return confirmed, nil
}

// priceOrder runs every lookup and calculation that happens before anything
// is persisted. items must already be validated and merged.
func (s *Service) priceOrder(ctx context.Context, customerID string, items []domain.OrderItem, method shipping.Method) (domain.NewOrder, error) {
	customer, err := s.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewOrder{}, domain.NewNotFoundError(msgCustomerNotFound)
		}
		return domain.NewOrder{}, fmt.Errorf("get customer %s: %w", customerID, err)
	}
	if !method.Valid() {
		return domain.NewOrder{}, domain.NewValidationError(msgInvalidShippingMethod)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.inventory.GetProducts(ctx, ids)
	if err != nil {
		return domain.NewOrder{}, fmt.Errorf("price items: %w", err)
	}

	lines, err := buildLines(items, products)
	if err != nil {
		return domain.NewOrder{}, err
	}
	subtotal := domain.CalculateItemsPrice(lines)

	shippingPrice, err := s.shippingPrice(ctx, customer, method)
	if err != nil {
		return domain.NewOrder{}, err
	}

	return domain.NewOrder{
		ID:            s.newID(),
		CustomerID:    customer.ID,
		Lines:         lines,
		ShippingPrice: shippingPrice,
		Total:         subtotal.Add(shippingPrice),
	}, nil
}

func (s *Service) shippingPrice(ctx context.Context, customer domain.Customer, method shipping.Method) (decimal.Decimal, error) {
	quote := s.shipping.Calculate(ctx, customer)
	price, ok := quote.Price(method)
	if !ok || !price.Available || !price.Amount.IsPositive() {
		return decimal.Decimal{}, domain.NewValidationError(msgInvalidShippingMethod)
	}
	return price.Amount, nil
}

// mergeItems sums quantities of repeated product ids, keeping first-seen order.
func mergeItems(items []domain.OrderItem) []domain.OrderItem {
	index := make(map[string]int, len(items))
	merged := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func validateItems(items []domain.OrderItem) error {
	if len(items) == 0 {
		return domain.NewValidationError("Order must contain at least one item")
	}
	for _, item := range items {
		if item.ProductID == "" {
			return domain.NewValidationError("Product id is required")
		}
		if item.Quantity <= 0 {
			return domain.NewValidationError(fmt.Sprintf("Quantity for product %s must be positive", item.ProductID))
		}
	}
	return nil
}

// buildLines snapshots each requested product. Every requested id must be
// present in products.
func buildLines(items []domain.OrderItem, products []domain.Product) ([]domain.Line, error) {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]domain.Line, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("Product %s not found", item.ProductID))
		}
		lines = append(lines, domain.Line{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			Price:       p.Price,
		})
	}
	return lines, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Order{}, domain.NewNotFoundError(msgOrderNotFound)
		}
		return domain.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, filter domain.OrderFilter, page domain.PageRequest) (domain.Page[domain.Order], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return domain.Page[domain.Order]{}, domain.NewValidationError(fmt.Sprintf("Invalid order status %q", filter.Status))
	}
	page = page.Normalize()

	orders, total, err := s.orders.ListOrders(ctx, filter, page)
	if err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	return domain.NewPage(orders, total, page), nil
}

func (s *Service) ListCustomers(ctx context.Context, filter domain.CustomerFilter, page domain.PageRequest) (domain.Page[domain.Customer], error) {
	page = page.Normalize()

	customers, total, err := s.customers.ListCustomers(ctx, filter, page)
	if err != nil {
		return domain.Page[domain.Customer]{}, fmt.Errorf("list customers: %w", err)
	}
	return domain.NewPage(customers, total, page), nil
}

// CustomerShipping quotes every shipping method for the customer's zip code.
func (s *Service) CustomerShipping(ctx context.Context, customerID string) (shipping.Quote, error) {
	customer, err := s.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return shipping.Quote{}, domain.NewNotFoundError(msgCustomerNotFound)
		}
		return shipping.Quote{}, fmt.Errorf("get customer %s: %w", customerID, err)
	}
	return s.shipping.Calculate(ctx, customer), nil
}

type Workflow struct {
	Latest  sagalog.SagaLog   `json:"latest"`
	History []sagalog.SagaLog `json:"history"`
}

// OrderWorkflow returns the creation log of an order.
func (s *Service) OrderWorkflow(ctx context.Context, orderID string) (Workflow, error) {
	if s.workflowLog == nil {
		return Workflow{}, domain.NewNotFoundError(msgWorkflowNotFound)
	}
	history, err := s.workflowLog.History(ctx, orderID)
	if err != nil {
		if errors.Is(err, sagalog.ErrNotFound) {
			return Workflow{}, domain.NewNotFoundError(msgWorkflowNotFound)
		}
		return Workflow{}, fmt.Errorf("workflow for order %s: %w", orderID, err)
	}
	return Workflow{Latest: history[len(history)-1], History: history}, nil
}

// FailedWorkflows lists runs that stopped on a failed step. A run that failed
// after its first step left a PENDING order behind.
func (s *Service) FailedWorkflows(ctx context.Context) ([]sagalog.SagaLog, error) {
	if s.workflowLog == nil {
		return []sagalog.SagaLog{}, nil
	}
	failed, err := s.workflowLog.Failed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list failed workflows: %w", err)
	}
	if failed == nil {
		failed = []sagalog.SagaLog{}
	}
	return failed, nil
}
