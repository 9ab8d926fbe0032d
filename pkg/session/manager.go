package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mindshifting/mindshift/internal/logging"
	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/ports"
)

// lockTTL bounds the distributed lock so a crashed replica cannot
// wedge a session forever.
const lockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to individual sessions. It uses reference
// counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker ports.DistributedLocker
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) { m.locker = locker }
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a session manager over the given store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference
// count. The caller must Lock entry.mu and call release after.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry once it
// reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn while holding the per-session lock (and the
// distributed lock, when configured).
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Checkout loads a private snapshot of the session. The lock is held
// only for the load itself; the caller computes the turn unlocked and
// finishes with Commit.
func (m *Manager) Checkout(ctx context.Context, sessionID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		loaded, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		state = loaded.Clone()
		return nil
	})
	return state, err
}

// Commit persists a turn outcome computed from the snapshot at
// expectedRev. The write is all-or-nothing: if the stored revision
// moved in the meantime, Commit fails with ErrRevisionConflict and
// nothing is persisted.
func (m *Manager) Commit(ctx context.Context, sessionID string, state *domain.State, expectedRev int64) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		current, err := m.store.Load(ctx, sessionID)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			// A brand-new session commits against revision zero.
			if expectedRev != 0 {
				return domain.ErrRevisionConflict
			}
		case err != nil:
			return fmt.Errorf("failed to check session revision: %w", err)
		case current.Revision != expectedRev:
			return domain.ErrRevisionConflict
		}

		state.Revision = expectedRev + 1
		return m.store.Save(ctx, sessionID, state)
	})
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		return err
	})
	return state, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
