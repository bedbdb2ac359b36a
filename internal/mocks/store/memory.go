package store

// Package store contains simple hand-written test doubles for storage ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/target/jobtracker-ui/internal/ports"
)

var _ ports.KVStore = (*MemoryKV)(nil)

// MemoryKV is an in-memory ports.KVStore.
// Set FailWith to make every call return that error.
type MemoryKV struct {
	mu       sync.RWMutex
	data     map[string][]byte
	writes   int
	FailWith error
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	if key == "" {
		return errors.New("key cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys returns stored keys in sorted order.
func (m *MemoryKV) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Writes returns how many successful Set calls were made.
func (m *MemoryKV) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Raw returns the stored bytes for key, or nil.
func (m *MemoryKV) Raw(key string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key]
}

func (m *MemoryKV) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.FailWith
}
