package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/orders-service/internal/order-service/domain"
)

type CustomerStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

func NewCustomerStore(pool *pgxpool.Pool) *CustomerStore {
	return &CustomerStore{
		pool:   pool,
		tracer: otel.Tracer("customer_repository"),
	}
}

const customerColumns = `id::text, name, email, zip_code, created_at, updated_at`

// CreateCustomer inserts c and returns it with server-side timestamps.
func (s *CustomerStore) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerRepository.CreateCustomer")
	defer span.End()

	query := `
		INSERT INTO customers (id, name, email, zip_code)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + customerColumns

	out, err := scanCustomer(s.pool.QueryRow(ctx, query, c.ID, c.Name, c.Email, c.ZipCode))
	if err != nil {
		span.RecordError(err)
		return domain.Customer{}, fmt.Errorf("postgres: create customer: %w", err)
	}
	return out, nil
}

// SeedCustomers inserts customers only when the table is empty and reports
// how many rows were written.
func (s *CustomerStore) SeedCustomers(ctx context.Context, customers []domain.Customer) (int, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerRepository.SeedCustomers")
	defer span.End()

	seeded := 0
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		// serializes concurrent seeders on the same database
		if _, err := tx.Exec(ctx, `LOCK TABLE customers IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return err
		}
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers)`).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return nil
		}

		batch := &pgx.Batch{}
		for _, c := range customers {
			batch.Queue(`INSERT INTO customers (id, name, email, zip_code) VALUES ($1, $2, $3, $4)`,
				c.ID, c.Name, c.Email, c.ZipCode)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
		seeded = len(customers)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("postgres: seed customers: %w", err)
	}
	span.SetAttributes(attribute.Int("seeded", seeded))
	return seeded, nil
}

func (s *CustomerStore) GetCustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerRepository.GetCustomerByID")
	defer span.End()
	span.SetAttributes(attribute.String("customer_id", id))

	if !isUUID(id) {
		return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		span.RecordError(err)
		return domain.Customer{}, fmt.Errorf("postgres: get customer %s: %w", id, err)
	}
	return c, nil
}

func (s *CustomerStore) ListCustomers(ctx context.Context, filter domain.CustomerFilter, page domain.PageRequest) ([]domain.Customer, int, error) {
	ctx, span := s.tracer.Start(ctx, "CustomerRepository.ListCustomers")
	defer span.End()

	where, args := customerWhere(filter)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM customers`+where, args...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("postgres: count customers: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM customers%s ORDER BY name, id LIMIT $%d OFFSET $%d`,
		customerColumns, where, len(args)+1, len(args)+2)
	rows, err := s.pool.Query(ctx, query, append(args, page.PageSize, page.Offset())...)
	if err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("postgres: list customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: scan customer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: list customers: %w", err)
	}
	return out, total, nil
}

func customerWhere(filter domain.CustomerFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.Name != "" {
		args = append(args, "%"+escapeLike(filter.Name)+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Email != "" {
		args = append(args, "%"+escapeLike(filter.Email)+"%")
		clauses = append(clauses, fmt.Sprintf("email ILIKE $%d", len(args)))
	}
	return whereClause(clauses), args
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.ZipCode, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
