package ports

import (
	"context"

	"github.com/mindshifting/mindshift/pkg/domain"
)

// SessionStore defines the interface for persisting session state.
// A store is assumed strongly consistent for a single session.
type SessionStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID. The engine
	// itself never deletes sessions; this exists for the store's own
	// retention tooling and the admin CLI.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}
