// Package middleware provides session store decorators for data at
// rest: transcript encryption and PII masking. Treatment transcripts
// are sensitive, so deployments chain these between the engine and the
// backing store.
package middleware

import "github.com/mindshifting/mindshift/pkg/ports"

// Middleware wraps a SessionStore with additional behavior.
type Middleware func(next ports.SessionStore) ports.SessionStore

// Chain applies middlewares so the first listed is the outermost.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
