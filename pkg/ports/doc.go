// Package ports defines the collaborator interfaces consumed by the
// protocol engine: session persistence, distributed locking, and the
// generative fallback adapter.
//
// Adapters implement these interfaces (see pkg/adapters); the engine
// receives them by injection, which keeps every collaborator
// substitutable with a fake in tests.
package ports
