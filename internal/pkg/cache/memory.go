package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache bounded by size. Every entry also carries
// its own deadline so the per-call ttl of Set is honoured even when it is
// shorter than maxTTL.
type MemoryCache struct {
	lru         *expirable.LRU[string, memoryEntry]
	serviceName string
	maxTTL      time.Duration
	now         func() time.Time
}

func NewMemoryCache(serviceName string, size int, maxTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		lru:         expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		serviceName: serviceName,
		maxTTL:      maxTTL,
		now:         time.Now,
	}
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > m.maxTTL {
		ttl = m.maxTTL
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	m.lru.Add(key, memoryEntry{value: buf, expiresAt: m.now().Add(ttl)})
	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		m.lru.Remove(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryCache) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := m.Get(ctx, key)
	return ok, err
}

func (m *MemoryCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", m.serviceName, operation, key)
}
