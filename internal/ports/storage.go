package ports

// Package ports defines interfaces (hexagonal ports) for workspace storage and identity lookup.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KVStore.Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("key not found")

// KVStore is durable key/value storage for workspace snapshots.
// Values are opaque bytes; callers own the encoding.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
