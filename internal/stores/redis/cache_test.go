package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========== Test helpers ==========

func setupTestCache(t *testing.T, prefix string) (*miniredis.Miniredis, *Cache) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := &Client{
		Client: goredis.NewClient(&goredis.Options{
			Addr: mr.Addr(),
		}),
	}

	cache, err := NewCache(client, prefix)
	require.NoError(t, err)

	return mr, cache
}

// ========== Constructor ==========

func TestNewCache_NilClient(t *testing.T) {
	cache, err := NewCache(nil, "x:")

	assert.Error(t, err)
	assert.Nil(t, cache)
	assert.Contains(t, err.Error(), "redis client is required")
}

// ========== Get / Set ==========

func TestCache_MissingKeyIsNotAnError(t *testing.T) {
	_, cache := setupTestCache(t, "t:")

	b, ok, err := cache.Get(context.Background(), "nothing-here")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, b)
}

func TestCache_RoundTrip(t *testing.T) {
	mr, cache := setupTestCache(t, "t:")

	payload := []byte(`[{"pool":1}]`)
	require.NoError(t, cache.Set(context.Background(), "stats:1:day", payload, time.Minute))

	b, ok, err := cache.Get(context.Background(), "stats:1:day")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, b)

	// prefixed in the store
	assert.True(t, mr.Exists("t:stats:1:day"))
	assert.Equal(t, time.Minute, mr.TTL("t:stats:1:day"))
}

func TestCache_EntryExpires(t *testing.T) {
	mr, cache := setupTestCache(t, "t:")

	require.NoError(t, cache.Set(context.Background(), "k", []byte("v"), 30*time.Second))
	mr.FastForward(31 * time.Second)

	_, ok, err := cache.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_PrefixesDoNotCollide(t *testing.T) {
	mr := miniredis.RunT(t)
	client := &Client{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}

	a, err := NewCache(client, "a:")
	require.NoError(t, err)
	b, err := NewCache(client, "b:")
	require.NoError(t, err)

	require.NoError(t, a.Set(context.Background(), "k", []byte("from-a"), time.Minute))

	_, ok, err := b.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_GetErrorSurfaces(t *testing.T) {
	mr, cache := setupTestCache(t, "t:")
	mr.Close()

	_, _, err := cache.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis GET")
}
