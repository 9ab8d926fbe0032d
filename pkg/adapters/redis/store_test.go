package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/mindshifting/mindshift/pkg/adapters/redis"
	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/ports"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	ports.RunSessionStoreContract(t, redisadapter.NewFromClient(client))
}

func TestStore_Prefix(t *testing.T) {
	mr, client := newTestClient(t)
	store := redisadapter.NewFromClient(client, redisadapter.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", domain.NewState("sess-1", "user-1")))
	assert.True(t, mr.Exists("custom:sess-1"))
	assert.True(t, mr.Exists("custom:index"))
}

func TestStore_TTLExpiry(t *testing.T) {
	mr, client := newTestClient(t)
	store := redisadapter.NewFromClient(client, redisadapter.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", domain.NewState("sess-1", "user-1")))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "sess-1")

	// Past the TTL the blob is gone and List prunes the index entry.
	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, "sess-1")
}

func TestStore_NoTTLPersists(t *testing.T) {
	mr, client := newTestClient(t)
	store := redisadapter.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", domain.NewState("sess-1", "user-1")))
	mr.FastForward(24 * time.Hour)

	_, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "sess-1")
}

func TestLocker_MutualExclusion(t *testing.T) {
	_, client := newTestClient(t)
	locker := redisadapter.NewLocker(client, "")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "sess-1", 30*time.Second)
	require.NoError(t, err)

	// A second holder cannot acquire while the first holds the lock.
	blockedCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blockedCtx, "sess-1", 30*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "sess-1", 30*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_TTLReclaim(t *testing.T) {
	mr, client := newTestClient(t)
	locker := redisadapter.NewLocker(client, "")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "sess-1", time.Second)
	require.NoError(t, err)

	// The holder crashes; the TTL lets another replica take over.
	mr.FastForward(2 * time.Second)

	unlock2, err := locker.Lock(ctx, "sess-1", 30*time.Second)
	require.NoError(t, err)

	// The stale holder's unlock must not release the new holder's lock.
	require.NoError(t, unlock(ctx))
	blockedCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blockedCtx, "sess-1", 30*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock2(ctx))
}
