package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RefreshTokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRefreshTokenStore(rdb), mr
}

func TestSave_WritesRecordWithTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 1, "refresh-1", time.Hour))

	require.Equal(t, "refresh-1", mr.HGet("RefreshToken:1", "token"))
	require.Equal(t, time.Hour, mr.TTL("RefreshToken:1"))
}

func TestSave_ReplacesPriorRecord(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 7, "old-token", time.Minute))
	require.NoError(t, store.Save(ctx, 7, "new-token", time.Hour))

	current, err := store.Current(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "new-token", current)
}

func TestExistsAndCurrent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Exists(ctx, 3)
	require.NoError(t, err)
	require.False(t, ok)

	current, err := store.Current(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, current)

	require.NoError(t, store.Save(ctx, 3, "tok", time.Hour))

	ok, err = store.Exists(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)

	current, err = store.Current(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "tok", current)
}

func TestDelete_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 5, "tok", time.Hour))
	require.NoError(t, store.Delete(ctx, 5))

	ok, err := store.Exists(ctx, 5)
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting an absent record is a no-op, not an error.
	require.NoError(t, store.Delete(ctx, 5))
}

func TestRecordExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, 9, "tok", 50*time.Millisecond))
	mr.FastForward(time.Second)

	ok, err := store.Exists(ctx, 9)
	require.NoError(t, err)
	require.False(t, ok)
}
