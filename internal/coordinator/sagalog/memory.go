package sagalog

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryRepository keeps the log in process. Used when no log path is
// configured and in tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]SagaLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string][]SagaLog)}
}

func (r *MemoryRepository) Save(_ context.Context, entry *SagaLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.SagaID] = append(r.entries[entry.SagaID], *entry)
	return nil
}

func (r *MemoryRepository) GetLatest(_ context.Context, sagaID string) (*SagaLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.entries[sagaID]
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	latest := rows[len(rows)-1]
	return &latest, nil
}

func (r *MemoryRepository) History(_ context.Context, sagaID string) ([]SagaLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows := r.entries[sagaID]
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	out := make([]SagaLog, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *MemoryRepository) Failed(_ context.Context) ([]SagaLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []SagaLog
	for _, rows := range r.entries {
		if latest := rows[len(rows)-1]; latest.Status == StatusFailed {
			out = append(out, latest)
		}
	}
	slices.SortFunc(out, func(a, b SagaLog) int {
		if c := a.UpdatedAt.Compare(b.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.SagaID, b.SagaID)
	})
	return out, nil
}
