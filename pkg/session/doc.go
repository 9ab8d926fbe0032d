// Package session orchestrates safe concurrent access to session
// state. Each session is single-writer: turns for one session are
// serialized through a per-session lock, while many sessions proceed
// in parallel.
//
// The generative round-trip can take seconds, so the lock is not held
// across it. Callers Checkout a snapshot (brief lock), compute the
// turn outside the lock, then Commit (brief lock again); Commit uses
// the state's revision to reject anything that raced the turn.
package session
