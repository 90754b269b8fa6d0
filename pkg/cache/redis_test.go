package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store, err := NewRedisStore(client)
	require.NoError(t, err)

	return store, mr
}

func TestNewRedisStore_RequiresClient(t *testing.T) {
	_, err := NewRedisStore(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis client is required")
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "dex:pokemon:1", []byte(`{"id":1}`), time.Minute))

	data, err := store.Get(ctx, "dex:pokemon:1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":1}`), data)
}

func TestRedisStore_Miss(t *testing.T) {
	store, _ := setupRedisStore(t)

	_, err := store.Get(context.Background(), "dex:pokemon:404")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Second))

	mr.FastForward(2 * time.Second)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_NonPositiveTTLIsNoop(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
