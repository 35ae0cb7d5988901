package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/orders-service/internal/order-service/domain"
)

type OrderStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{
		pool:   pool,
		tracer: otel.Tracer("order_repository"),
	}
}

// Money is read back as text so decimal never goes through float64.
const orderColumns = `id::text, customer_id::text, shipping_price::text, total::text, status, created_at, updated_at`

// CreateOrder writes the order and its lines in one transaction. Status is
// always PENDING.
func (s *OrderStore) CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderRepository.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", in.ID))

	var order domain.Order
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (id, customer_id, shipping_price, total, status)
			VALUES ($1, $2, $3::numeric, $4::numeric, $5)
			RETURNING ` + orderColumns

		var err error
		order, err = scanOrder(tx.QueryRow(ctx, query,
			in.ID, in.CustomerID, in.ShippingPrice.String(), in.Total.String(), string(domain.StatusPending)))
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		batch := &pgx.Batch{}
		for i, l := range in.Lines {
			batch.Queue(`
				INSERT INTO order_items (order_id, position, product_id, product_name, quantity, price)
				VALUES ($1, $2, $3, $4, $5, $6::numeric)`,
				in.ID, i, l.ProductID, l.ProductName, l.Quantity, l.Price.String())
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return domain.Order{}, fmt.Errorf("postgres: create order %s: %w", in.ID, err)
	}

	order.Lines = append([]domain.Line(nil), in.Lines...)
	return order, nil
}

// UpdateOrder applies the non-nil fields of update and returns the order
// with its lines.
func (s *OrderStore) UpdateOrder(ctx context.Context, id string, update domain.OrderUpdate) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderRepository.UpdateOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", id))

	if !isUUID(id) {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	sets := []string{"updated_at = now()"}
	args := []any{id}
	if update.Status != nil {
		args = append(args, string(*update.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if update.ShippingPrice != nil {
		args = append(args, update.ShippingPrice.String())
		sets = append(sets, fmt.Sprintf("shipping_price = $%d::numeric", len(args)))
	}
	if update.Total != nil {
		args = append(args, update.Total.String())
		sets = append(sets, fmt.Sprintf("total = $%d::numeric", len(args)))
	}

	query := `UPDATE orders SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + orderColumns
	order, err := scanOrder(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		span.RecordError(err)
		return domain.Order{}, fmt.Errorf("postgres: update order %s: %w", id, err)
	}

	order.Lines, err = s.lines(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (s *OrderStore) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderRepository.GetOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", id))

	if !isUUID(id) {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	order, err := scanOrder(s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		span.RecordError(err)
		return domain.Order{}, fmt.Errorf("postgres: get order %s: %w", id, err)
	}

	order.Lines, err = s.lines(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// ListOrders returns matches newest first, without lines.
func (s *OrderStore) ListOrders(ctx context.Context, filter domain.OrderFilter, page domain.PageRequest) ([]domain.Order, int, error) {
	ctx, span := s.tracer.Start(ctx, "OrderRepository.ListOrders")
	defer span.End()

	var (
		clauses []string
		args    []any
	)
	if filter.CustomerID != "" {
		if !isUUID(filter.CustomerID) {
			return nil, 0, nil
		}
		args = append(args, filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	where := whereClause(clauses)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM orders`+where, args...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("postgres: count orders: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)+1, len(args)+2)
	rows, err := s.pool.Query(ctx, query, append(args, page.PageSize, page.Offset())...)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("postgres: list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: list orders: %w", err)
	}
	return out, total, nil
}

func (s *OrderStore) lines(ctx context.Context, orderID string) ([]domain.Line, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, product_name, quantity, price::text
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query order items: %w", err)
	}
	defer rows.Close()

	var out []domain.Line
	for rows.Next() {
		var (
			l     domain.Line
			price string
		)
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &price); err != nil {
			return nil, fmt.Errorf("postgres: scan order item: %w", err)
		}
		if l.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("postgres: order item price %q: %w", price, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o             domain.Order
		shipping, tot string
		status        string
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &shipping, &tot, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)

	var err error
	if o.ShippingPrice, err = decimal.NewFromString(shipping); err != nil {
		return domain.Order{}, fmt.Errorf("shipping price %q: %w", shipping, err)
	}
	if o.Total, err = decimal.NewFromString(tot); err != nil {
		return domain.Order{}, fmt.Errorf("total %q: %w", tot, err)
	}
	return o, nil
}
