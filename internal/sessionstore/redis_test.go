package sessionstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/storefront/internal/apperr"
)

func setupTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	r, err := NewRedis(context.Background(), client)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	return r, mr
}

func TestRedis_RoundTrip(t *testing.T) {
	r, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := r.Load(ctx)
	require.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, r.Save(ctx, "tok"))

	stored, err := mr.Get(RedisKey)
	require.NoError(t, err)
	assert.Equal(t, "tok", stored)
	assert.Zero(t, mr.TTL(RedisKey))

	token, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, r.Clear(ctx))
	assert.False(t, mr.Exists(RedisKey))
	require.NoError(t, r.Clear(ctx))
}

func TestRedis_ServerDown(t *testing.T) {
	r, mr := setupTestRedis(t)
	s := New(r, nil)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tok"))
	mr.Close()

	_, ok := s.Load(ctx)
	assert.False(t, ok)

	err := s.Save(ctx, "other")
	assert.ErrorIs(t, err, apperr.ErrPersistence)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := Open(context.Background(), "redis://"+mr.Addr(), nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), "tok"))
	token, ok := s.Load(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}
