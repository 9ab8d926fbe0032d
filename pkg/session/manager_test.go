package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindshifting/mindshift/pkg/adapters/memory"
	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/ports"
	"github.com/mindshifting/mindshift/pkg/session"
)

func TestCheckoutAndCommit(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	ctx := context.Background()

	state := domain.NewState("sess-1", "user-1")
	require.NoError(t, m.Commit(ctx, "sess-1", state, 0))
	assert.Equal(t, int64(1), state.Revision)

	snap, err := m.Checkout(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Revision)

	// The snapshot is private: mutating it does not touch the store.
	snap.CurrentStep = domain.StepMethodSelection
	stored, err := m.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepMindShiftingExplanation, stored.CurrentStep)

	require.NoError(t, m.Commit(ctx, "sess-1", snap, 1))
	stored, err = m.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepMethodSelection, stored.CurrentStep)
	assert.Equal(t, int64(2), stored.Revision)
}

func TestCommit_RevisionConflict(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, m.Commit(ctx, "sess-1", domain.NewState("sess-1", "user-1"), 0))

	// Two turns check out the same revision; the second commit loses.
	a, err := m.Checkout(ctx, "sess-1")
	require.NoError(t, err)
	b, err := m.Checkout(ctx, "sess-1")
	require.NoError(t, err)

	require.NoError(t, m.Commit(ctx, "sess-1", a, a.Revision))
	err = m.Commit(ctx, "sess-1", b, b.Revision)
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)

	// The losing turn persisted nothing.
	stored, err := m.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Revision)
}

func TestCommit_NewSessionRequiresRevisionZero(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	ctx := context.Background()

	err := m.Commit(ctx, "ghost", domain.NewState("ghost", "user-1"), 3)
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)

	_, err = m.Load(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCheckout_NotFound(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	_, err := m.Checkout(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestWithLock_Serializes(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	ctx := context.Background()

	var inside int
	var maxInside int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.WithLock(ctx, "sess-1", func(context.Context) error {
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside, "critical sections must not overlap")
}

func TestWithLock_IndependentSessions(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	ctx := context.Background()

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = m.WithLock(ctx, "sess-a", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	// A different session is not blocked by sess-a's lock.
	done := make(chan struct{})
	go func() {
		_ = m.WithLock(ctx, "sess-b", func(context.Context) error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent session blocked on an unrelated lock")
	}
	close(release)
}

func TestWithLock_PropagatesError(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	sentinel := errors.New("boom")

	err := m.WithLock(context.Background(), "sess-1", func(context.Context) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestDeleteAndList(t *testing.T) {
	m := session.NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, m.Commit(ctx, "a", domain.NewState("a", "u"), 0))
	require.NoError(t, m.Commit(ctx, "b", domain.NewState("b", "u"), 0))

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	require.NoError(t, m.Delete(ctx, "a"))
	ids, err = m.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b"}, ids)
}

// stubLocker records lock/unlock calls.
type stubLocker struct {
	mu       sync.Mutex
	locks    int
	unlocks  int
	lockErr  error
	sessions []string
}

func (l *stubLocker) Lock(_ context.Context, sessionID string, _ time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lockErr != nil {
		return nil, l.lockErr
	}
	l.locks++
	l.sessions = append(l.sessions, sessionID)
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocks++
		return nil
	}, nil
}

func TestWithLock_DistributedLocker(t *testing.T) {
	locker := &stubLocker{}
	m := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	err := m.WithLock(context.Background(), "sess-1", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, locker.locks)
	assert.Equal(t, 1, locker.unlocks)
	assert.Equal(t, []string{"sess-1"}, locker.sessions)
}

func TestWithLock_DistributedLockerFailure(t *testing.T) {
	locker := &stubLocker{lockErr: errors.New("lock held elsewhere")}
	m := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	called := false
	err := m.WithLock(context.Background(), "sess-1", func(context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called, "fn must not run without the distributed lock")
}
