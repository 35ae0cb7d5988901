package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jcmexdev/orders-service/internal/order-service/domain"
)

type CustomerStore struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

func NewCustomerStore(seed ...domain.Customer) *CustomerStore {
	s := &CustomerStore{customers: make(map[string]domain.Customer, len(seed))}
	for _, c := range seed {
		s.customers[c.ID] = c
	}
	return s
}

// Put inserts or replaces a customer.
func (s *CustomerStore) Put(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
}

func (s *CustomerStore) GetCustomerByID(_ context.Context, id string) (domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return domain.Customer{}, fmt.Errorf("customer %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

// ListCustomers matches name and email as case-insensitive substrings and
// orders by name.
func (s *CustomerStore) ListCustomers(_ context.Context, filter domain.CustomerFilter, page domain.PageRequest) ([]domain.Customer, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := strings.ToLower(filter.Name)
	email := strings.ToLower(filter.Email)

	var matched []domain.Customer
	for _, c := range s.customers {
		if name != "" && !strings.Contains(strings.ToLower(c.Name), name) {
			continue
		}
		if email != "" && !strings.Contains(strings.ToLower(c.Email), email) {
			continue
		}
		matched = append(matched, c)
	}
	slices.SortFunc(matched, func(a, b domain.Customer) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return paginate(matched, page), len(matched), nil
}
