// Package domain contains the core types of the Mind Shifting protocol
// engine: the session state, the step/intent/method vocabulary, the
// bounded undo history, and the sentinel errors shared by the engine
// and its adapters.
//
// The package has no dependencies outside the standard library so it
// can be imported freely by adapters without dragging in the runtime.
package domain
