//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jcmexdev/orders-service/internal/order-service/domain"
)

type StoreSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	customers *CustomerStore
	orders    *OrderStore
}

func (s *StoreSuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.container, err = tcpostgres.Run(s.ctx,
		"postgres:17-alpine",
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test_user"),
		tcpostgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)

	connStr, err := s.container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pool, err = Connect(s.ctx, connStr)
	s.Require().NoError(err)
	s.Require().NoError(Migrate(s.ctx, s.pool))
	// idempotent
	s.Require().NoError(Migrate(s.ctx, s.pool))

	s.customers = NewCustomerStore(s.pool)
	s.orders = NewOrderStore(s.pool)
}

func (s *StoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

func (s *StoreSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, "TRUNCATE customers, orders, order_items CASCADE")
	s.Require().NoError(err)
}

func (s *StoreSuite) newCustomer(name, email, zip string) domain.Customer {
	c, err := s.customers.CreateCustomer(s.ctx, domain.Customer{
		ID:      uuid.NewString(),
		Name:    name,
		Email:   email,
		ZipCode: zip,
	})
	s.Require().NoError(err)
	return c
}

func (s *StoreSuite) TestCustomers() {
	ana := s.newCustomer("Ana Souza", "ana@example.com", "09030310")
	s.newCustomer("Bruno Lima", "bruno@example.com", "22041001")
	s.newCustomer("Carla Dias", "carla@other.org", "01310100")

	got, err := s.customers.GetCustomerByID(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Equal("09030310", got.ZipCode)
	s.False(got.CreatedAt.IsZero())

	_, err = s.customers.GetCustomerByID(s.ctx, uuid.NewString())
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.customers.GetCustomerByID(s.ctx, "not-a-uuid")
	s.ErrorIs(err, domain.ErrNotFound)

	list, total, err := s.customers.ListCustomers(s.ctx, domain.CustomerFilter{Email: "EXAMPLE"}, domain.PageRequest{Page: 1, PageSize: 1})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Require().Len(list, 1)
	s.Equal("Ana Souza", list[0].Name)

	list, total, err = s.customers.ListCustomers(s.ctx, domain.CustomerFilter{Name: "50%"}, domain.PageRequest{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(list)
}

func (s *StoreSuite) TestSeedCustomers() {
	seed := []domain.Customer{
		{ID: uuid.NewString(), Name: "Ana Souza", Email: "ana@example.com", ZipCode: "09030310"},
		{ID: uuid.NewString(), Name: "Bruno Lima", Email: "bruno@example.com", ZipCode: "22041001"},
	}

	n, err := s.customers.SeedCustomers(s.ctx, seed)
	s.Require().NoError(err)
	s.Equal(2, n)

	got, err := s.customers.GetCustomerByID(s.ctx, seed[1].ID)
	s.Require().NoError(err)
	s.Equal("22041001", got.ZipCode)

	// a non-empty table is left alone
	n, err = s.customers.SeedCustomers(s.ctx, []domain.Customer{
		{ID: uuid.NewString(), Name: "Carla Dias", Email: "carla@example.com", ZipCode: "30130010"},
	})
	s.Require().NoError(err)
	s.Zero(n)

	_, total, err := s.customers.ListCustomers(s.ctx, domain.CustomerFilter{}, domain.PageRequest{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Equal(2, total)
}

func (s *StoreSuite) TestOrderKeepsFullPrecision() {
	c := s.newCustomer("Ana Souza", "ana@example.com", "09030310")
	id := uuid.NewString()

	created, err := s.orders.CreateOrder(s.ctx, domain.NewOrder{
		ID:            id,
		CustomerID:    c.ID,
		Lines:         []domain.Line{{ProductID: "p1", ProductName: "Mug", Quantity: 3, Price: decimal.RequireFromString("19.999")}},
		ShippingPrice: decimal.RequireFromString("12.345"),
		Total:         decimal.RequireFromString("72.342"),
	})
	s.Require().NoError(err)

	got, err := s.orders.GetOrder(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(got.Lines, 1)
	s.Equal("19.999", got.Lines[0].Price.String())
	s.Equal("12.345", got.ShippingPrice.String())
	s.Equal("72.342", got.Total.String())
	s.True(created.Lines[0].Price.Equal(got.Lines[0].Price))
}

func (s *StoreSuite) TestOrderLifecycle() {
	c := s.newCustomer("Ana Souza", "ana@example.com", "09030310")
	id := uuid.NewString()

	created, err := s.orders.CreateOrder(s.ctx, domain.NewOrder{
		ID:         id,
		CustomerID: c.ID,
		Lines: []domain.Line{
			{ProductID: "p1", ProductName: "Mug", Quantity: 2, Price: decimal.NewFromInt(50)},
			{ProductID: "p2", ProductName: "Plate", Quantity: 1, Price: decimal.NewFromInt(30)},
		},
		ShippingPrice: decimal.RequireFromString("25.5"),
		Total:         decimal.RequireFromString("155.5"),
	})
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, created.Status)
	s.Equal("155.5", created.Total.String())

	confirmed := domain.StatusConfirmed
	updated, err := s.orders.UpdateOrder(s.ctx, id, domain.OrderUpdate{Status: &confirmed})
	s.Require().NoError(err)
	s.Equal(domain.StatusConfirmed, updated.Status)
	s.Equal("25.5", updated.ShippingPrice.String())
	s.Require().Len(updated.Lines, 2)
	s.Equal("Mug", updated.Lines[0].ProductName)
	s.True(updated.Lines[0].Price.Equal(decimal.NewFromInt(50)))

	got, err := s.orders.GetOrder(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(domain.StatusConfirmed, got.Status)
	s.Len(got.Lines, 2)

	_, err = s.orders.GetOrder(s.ctx, uuid.NewString())
	s.ErrorIs(err, domain.ErrNotFound)
	_, err = s.orders.UpdateOrder(s.ctx, uuid.NewString(), domain.OrderUpdate{Status: &confirmed})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StoreSuite) TestListOrders() {
	ana := s.newCustomer("Ana Souza", "ana@example.com", "09030310")
	bruno := s.newCustomer("Bruno Lima", "bruno@example.com", "22041001")

	for _, customerID := range []string{ana.ID, ana.ID, bruno.ID} {
		_, err := s.orders.CreateOrder(s.ctx, domain.NewOrder{
			ID:            uuid.NewString(),
			CustomerID:    customerID,
			ShippingPrice: decimal.NewFromInt(10),
			Total:         decimal.NewFromInt(10),
		})
		s.Require().NoError(err)
	}

	list, total, err := s.orders.ListOrders(s.ctx, domain.OrderFilter{CustomerID: ana.ID}, domain.PageRequest{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Len(list, 2)
	s.Empty(list[0].Lines)

	list, total, err = s.orders.ListOrders(s.ctx, domain.OrderFilter{Status: domain.StatusConfirmed}, domain.PageRequest{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(list)

	list, total, err = s.orders.ListOrders(s.ctx, domain.OrderFilter{}, domain.PageRequest{Page: 2, PageSize: 2})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Len(list, 1)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}
