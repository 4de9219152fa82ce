package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/codemaster-ai/codemaster/pkg/adapters/redis"
	"github.com/codemaster-ai/codemaster/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
}

func TestRedisStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ports.RunSessionStoreContract(t, store)
}

func TestRedisStore_CurrentSurvivesReconnect(t *testing.T) {
	// The current-session pointer is durable: a fresh store over the same
	// backend resolves the same session.
	client := newTestClient(t)
	ctx := context.Background()

	first := redis.NewFromClient(client)
	session, err := first.Create(ctx, "durable")
	require.NoError(t, err)

	second := redis.NewFromClient(client)
	current, err := second.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.ID, current.ID)
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	client := newTestClient(t)
	locker := redis.NewLocker(client, "codemaster:session:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "session-1", time.Second)
	require.NoError(t, err)

	// A second acquisition must not succeed while the lock is held.
	shortCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(shortCtx, "session-1", time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	// After release the lock is free again.
	unlock2, err := locker.Lock(ctx, "session-1", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}
