package redis

// Package redis provides Redis-based adapters for workspace storage.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/jobtracker-ui/internal/ports"
)

// DefaultPrefix namespaces workspace keys in a shared Redis.
const DefaultPrefix = "jobtracker:"

// KVStore is a Redis-backed ports.KVStore.
// Entries never expire unless a TTL is configured.
type KVStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// KVStoreOptions configures a KVStore.
type KVStoreOptions struct {
	Prefix string
	// TTL is refreshed on every Set. Zero keeps keys forever.
	TTL time.Duration
}

// NewKVStore creates a Redis KV store using DefaultPrefix and no expiry.
func NewKVStore(client redis.UniversalClient) *KVStore {
	return NewKVStoreWithOptions(client, KVStoreOptions{Prefix: DefaultPrefix})
}

// NewKVStoreWithOptions creates a Redis KV store with a custom prefix and TTL.
func NewKVStoreWithOptions(client redis.UniversalClient, opts KVStoreOptions) *KVStore {
	return &KVStore{client: client, prefix: opts.Prefix, ttl: opts.TTL}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ports.ErrNotFound
	}
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

var _ ports.KVStore = (*KVStore)(nil)
