// Package cache provides byte-oriented key/value stores with per-entry expiry.
// Callers own serialisation; the stores only see opaque values.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get reports ok=false for a missing or expired key; err is reserved for
	// backend failures.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Has(ctx context.Context, key string) (bool, error)
	GenerateKey(operation, key string) string
}
