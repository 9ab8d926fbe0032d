package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in
// the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExists is returned by start when an active session already
// exists under the requested ID.
var ErrSessionExists = errors.New("session already exists")

// ErrSessionClosed is returned for operations on a completed session.
// Completed is terminal: no further turns and no undo.
var ErrSessionClosed = errors.New("session closed")

// ErrNothingToUndo is returned when undo is requested with no prior
// snapshot on the history stack. A no-op signal, not a fault.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrRevisionConflict is returned when a commit observes a revision
// other than the one the turn was computed from.
var ErrRevisionConflict = errors.New("session revision conflict")

// ErrAdapterUnavailable wraps generative adapter timeouts/failures.
// The engine recovers by substituting a scripted retry message; the
// sentinel surfaces only through logs and hooks.
var ErrAdapterUnavailable = errors.New("generative adapter unavailable")
