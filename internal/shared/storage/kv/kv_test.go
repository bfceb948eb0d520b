package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	key := UserKey("guest:1", "latestRecommendation")

	_, err := store.Get(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, key, []byte(`{"a":1}`)))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, store.Set(ctx, key, []byte(`{"a":2}`)))
	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedisStore(t *testing.T) {
	store, _ := setupRedisStore(t, 0)
	exerciseStore(t, store)
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := setupRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreSurfacesConnectionErrors(t *testing.T) {
	store, mr := setupRedisStore(t, 0)
	mr.Close()

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDialRejectsBadURL(t *testing.T) {
	_, _, err := Dial(context.Background(), "not a url", 0)
	assert.Error(t, err)
}

func TestDialPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)
	store, client, err := Dial(context.Background(), "redis://"+mr.Addr(), 0)
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, store.Set(context.Background(), "k", []byte("v")))
	assert.True(t, mr.Exists("k"))
}

func TestUserKey(t *testing.T) {
	assert.Equal(t, "user:42:latestRecommendation", UserKey("user:42", "latestRecommendation"))
	assert.Equal(t, "guest:d1:latestRecommendation", UserKey("guest:d1", "latestRecommendation"))
}
