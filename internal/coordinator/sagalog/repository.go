package sagalog

import "context"

// Repository persists workflow log entries.
type Repository interface {
	// Save appends an entry. Rows are never updated.
	Save(ctx context.Context, entry *SagaLog) error
	// GetLatest returns the newest entry for sagaID, or ErrNotFound.
	GetLatest(ctx context.Context, sagaID string) (*SagaLog, error)
	// History returns every entry for sagaID, oldest first.
	History(ctx context.Context, sagaID string) ([]SagaLog, error)
	// Failed returns the latest entry of every run whose newest entry is
	// FAILED, oldest first.
	Failed(ctx context.Context) ([]SagaLog, error)
}
