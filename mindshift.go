package mindshift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mindshifting/mindshift/internal/logging"
	"github.com/mindshifting/mindshift/internal/runtime"
	"github.com/mindshifting/mindshift/pkg/adapters/memory"
	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/ports"
	"github.com/mindshifting/mindshift/pkg/script"
	"github.com/mindshifting/mindshift/pkg/session"
)

// TurnResult is the outcome of Start and Continue.
type TurnResult struct {
	Message         string      `json:"message"`
	CurrentStep     domain.Step `json:"current_step"`
	UsedAI          bool        `json:"used_ai"`
	ResponseTimeMs  int64       `json:"response_time_ms"`
	SessionComplete bool        `json:"session_complete"`
	AICostUSD       float64     `json:"ai_cost_usd,omitempty"`
	AITokens        int         `json:"ai_tokens,omitempty"`
}

// UndoResult is the outcome of Undo. CurrentStep is authoritative:
// callers must render from it, not from the step they asked for.
type UndoResult struct {
	Success     bool        `json:"success"`
	CurrentStep domain.Step `json:"current_step"`
}

// Engine is the high-level entry point: the three session operations
// over a script table, a session manager and an optional generative
// adapter.
type Engine struct {
	manager *session.Manager
	runtime *runtime.Engine
	logger  *slog.Logger
}

type config struct {
	store     ports.SessionStore
	locker    ports.DistributedLocker
	generator ports.Generator
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	aiTimeout time.Duration
	clock     func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*config)

// WithStore injects the session store. Defaults to in-memory.
func WithStore(s ports.SessionStore) Option {
	return func(c *config) { c.store = s }
}

// WithLocker enables distributed locking for multi-replica setups.
func WithLocker(l ports.DistributedLocker) Option {
	return func(c *config) { c.locker = l }
}

// WithGenerator injects the AI fallback adapter.
func WithGenerator(g ports.Generator) Option {
	return func(c *config) { c.generator = g }
}

// WithHooks registers observability hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(c *config) { c.hooks = h }
}

// WithLogger configures the logger for the engine and its manager.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithAITimeout overrides the generative adapter timeout.
func WithAITimeout(d time.Duration) Option {
	return func(c *config) { c.aiTimeout = d }
}

// WithClock injects the time source, for reproducible tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.clock = now }
}

// New assembles the engine. Defaults: in-memory store, no locker, no
// generator (AI steps degrade to scripted retries), no-op logger.
func New(opts ...Option) *Engine {
	cfg := &config{
		store:     memory.NewStore(),
		logger:    logging.NewNop(),
		aiTimeout: runtime.DefaultAITimeout,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	managerOpts := []session.Option{session.WithLogger(cfg.logger)}
	if cfg.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(cfg.locker))
	}

	rt := runtime.New(script.New(),
		runtime.WithGenerator(cfg.generator),
		runtime.WithHooks(cfg.hooks),
		runtime.WithLogger(cfg.logger),
		runtime.WithAITimeout(cfg.aiTimeout),
		runtime.WithClock(cfg.clock),
	)

	return &Engine{
		manager: session.NewManager(cfg.store, managerOpts...),
		runtime: rt,
		logger:  cfg.logger,
	}
}

// Start creates a session and emits the opening scripted message.
// Fails with domain.ErrSessionExists when the ID is already taken.
// firstName is optional and only used for template substitution.
func (e *Engine) Start(ctx context.Context, sessionID, userID, firstName string) (TurnResult, error) {
	began := time.Now()

	if _, err := e.manager.Load(ctx, sessionID); err == nil {
		return TurnResult{}, domain.ErrSessionExists
	} else if !errors.Is(err, domain.ErrSessionNotFound) {
		return TurnResult{}, fmt.Errorf("failed to check session existence: %w", err)
	}

	state := domain.NewState(sessionID, userID)
	state.FirstName = firstName

	next, reply, err := e.runtime.Start(ctx, state)
	if err != nil {
		return TurnResult{}, err
	}

	if err := e.manager.Commit(ctx, sessionID, next, 0); err != nil {
		// A concurrent start won the race for this ID.
		if errors.Is(err, domain.ErrRevisionConflict) {
			return TurnResult{}, domain.ErrSessionExists
		}
		return TurnResult{}, err
	}

	return e.turnResult(next, reply, began), nil
}

// Continue advances one turn for the session.
func (e *Engine) Continue(ctx context.Context, sessionID, userID, input string) (TurnResult, error) {
	began := time.Now()

	state, err := e.checkout(ctx, sessionID, userID)
	if err != nil {
		return TurnResult{}, err
	}
	rev := state.Revision

	// The generative round-trip happens here, outside any lock.
	next, reply, err := e.runtime.Continue(ctx, state, input)
	if err != nil {
		return TurnResult{}, err
	}

	if err := e.manager.Commit(ctx, sessionID, next, rev); err != nil {
		return TurnResult{}, err
	}
	return e.turnResult(next, reply, began), nil
}

// Undo rolls the session back one step. NothingToUndo is a no-op
// signal: Success=false with the unchanged current step and no error.
func (e *Engine) Undo(ctx context.Context, sessionID, userID string, toStep domain.Step) (UndoResult, error) {
	state, err := e.checkout(ctx, sessionID, userID)
	if err != nil {
		return UndoResult{}, err
	}
	rev := state.Revision

	next, err := e.runtime.Undo(ctx, state, toStep)
	if err != nil {
		if errors.Is(err, domain.ErrNothingToUndo) {
			return UndoResult{Success: false, CurrentStep: state.CurrentStep}, nil
		}
		return UndoResult{}, err
	}

	if err := e.manager.Commit(ctx, sessionID, next, rev); err != nil {
		return UndoResult{}, err
	}
	return UndoResult{Success: true, CurrentStep: next.CurrentStep}, nil
}

// State returns a read-only snapshot of a session.
func (e *Engine) State(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.manager.Load(ctx, sessionID)
}

// Sessions exposes the session manager for admin tooling.
func (e *Engine) Sessions() *session.Manager {
	return e.manager
}

// Table exposes the script table for introspection (graph export).
func (e *Engine) Table() *script.Table {
	return e.runtime.Table()
}

func (e *Engine) checkout(ctx context.Context, sessionID, userID string) (*domain.State, error) {
	state, err := e.manager.Checkout(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Ownership mismatch reads as not-found so session IDs cannot be
	// probed across users.
	if userID != "" && state.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	return state, nil
}

func (e *Engine) turnResult(state *domain.State, reply runtime.Reply, began time.Time) TurnResult {
	return TurnResult{
		Message:         reply.Message,
		CurrentStep:     state.CurrentStep,
		UsedAI:          reply.UsedAI,
		ResponseTimeMs:  time.Since(began).Milliseconds(),
		SessionComplete: reply.Completed,
		AICostUSD:       reply.CostUSD,
		AITokens:        reply.Tokens,
	}
}
