// Package runtime implements the protocol state machine: given the
// current session state and classified input it produces the next
// state, the outgoing message, and whether the generative adapter was
// used. It never touches storage; persistence and locking belong to
// the session manager.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mindshifting/mindshift/internal/logging"
	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/ports"
	"github.com/mindshifting/mindshift/pkg/script"
)

// DefaultAITimeout bounds the generative round-trip. On expiry the
// turn falls back to a scripted retry message.
const DefaultAITimeout = 10 * time.Second

// Reply is the outcome of one turn.
type Reply struct {
	Message   string
	UsedAI    bool
	CostUSD   float64
	Tokens    int
	Completed bool
}

// Engine is the core state machine. It is stateless across calls:
// every method takes a state snapshot and returns a new one, leaving
// the input untouched so partial updates are never observable.
type Engine struct {
	table     *script.Table
	generator ports.Generator
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	aiTimeout time.Duration
	now       func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithGenerator injects the AI fallback adapter. Without one, every
// AI-required step degrades to the scripted retry message.
func WithGenerator(g ports.Generator) Option {
	return func(e *Engine) { e.generator = g }
}

// WithHooks registers observability callbacks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// WithLogger configures the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithAITimeout overrides the generative adapter timeout.
func WithAITimeout(d time.Duration) Option {
	return func(e *Engine) { e.aiTimeout = d }
}

// WithClock injects the time source, for reproducible tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given script table.
func New(table *script.Table, opts ...Option) *Engine {
	e := &Engine{
		table:     table,
		logger:    logging.NewNop(),
		aiTimeout: DefaultAITimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table exposes the script table for introspection (graph export).
func (e *Engine) Table() *script.Table {
	return e.table
}

// Start initializes a fresh state at the entry step and emits the
// opening scripted message. The first history entry is recorded only
// after the state is fully assembled.
func (e *Engine) Start(ctx context.Context, state *domain.State) (*domain.State, Reply, error) {
	def, ok := e.table.Step(state.CurrentStep)
	if !ok {
		return nil, Reply{}, fmt.Errorf("unknown entry step %q", state.CurrentStep)
	}

	next := state.Clone()
	at := e.now()
	msg := script.Render(def.Prompt, e.vars(next))

	next.AppendSystem(msg, at)
	next.Stats.ScriptedCount++
	next.Stats.LastResponseMs = 0
	next.Status = domain.StatusActive
	next.CreatedAt = at
	next.UpdatedAt = at
	next.PushHistory()

	e.emitStepEnter(ctx, next, def)
	e.emitReply(ctx, next, Reply{Message: msg})
	return next, Reply{Message: msg}, nil
}

func (e *Engine) vars(s *domain.State) script.Vars {
	v := script.Vars{FirstName: s.FirstName}
	if s.Method != "" {
		v.Method = s.Method.Label()
	}
	if s.WorkType != "" {
		v.WorkType = s.WorkType.Label()
	}
	return v
}
