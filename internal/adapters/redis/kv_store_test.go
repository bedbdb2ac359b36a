package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobtracker-ui/internal/ports"
	"github.com/target/jobtracker-ui/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestKVStore_SetAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewKVStoreWithOptions(client, KVStoreOptions{Prefix: "test-kv:"})
	ctx := context.Background()
	t.Cleanup(func() { client.Del(ctx, "test-kv:c1:auth-storage") })

	require.NoError(t, store.Set(ctx, "c1:auth-storage", []byte(`{"isAuthenticated":false}`)))

	got, err := store.Get(ctx, "c1:auth-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"isAuthenticated":false}`, string(got))

	exists := client.Exists(ctx, "test-kv:c1:auth-storage").Val()
	assert.Equal(t, int64(1), exists)

	// no TTL by default
	assert.Equal(t, time.Duration(-1), client.TTL(ctx, "test-kv:c1:auth-storage").Val())
}

func TestKVStore_GetMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewKVStore(client)
	ctx := context.Background()

	_, err := store.Get(ctx, "non-existent")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestKVStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewKVStoreWithOptions(client, KVStoreOptions{Prefix: "test-kv:"})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "c2:ui-storage", []byte(`{}`)))
	require.NoError(t, store.Delete(ctx, "c2:ui-storage"))

	_, err := store.Get(ctx, "c2:ui-storage")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, ""))
}

func TestKVStore_TTL(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewKVStoreWithOptions(client, KVStoreOptions{Prefix: "test-kv:", TTL: 100 * time.Millisecond})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "c3:ui-storage", []byte(`{}`)))
	time.Sleep(200 * time.Millisecond)

	_, err := store.Get(ctx, "c3:ui-storage")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestKVStore_SetEmptyKey(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	err := NewKVStore(client).Set(context.Background(), "", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key cannot be empty")
}
