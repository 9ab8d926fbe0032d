package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter EventType = "step_enter"
	EventReply     EventType = "reply"
	EventAIError   EventType = "ai_error"
	EventUndo      EventType = "undo"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// StepEvent marks entry into a step (including re-entry after a
// clarify turn or an undo).
type StepEvent struct {
	EventBase
	Step Step     `json:"step"`
	Gate GateKind `json:"gate"`
}

// ReplyEvent describes one completed turn.
type ReplyEvent struct {
	EventBase
	Step      Step    `json:"step"`
	UsedAI    bool    `json:"used_ai"`
	ElapsedMs int64   `json:"elapsed_ms"`
	CostUSD   float64 `json:"cost_usd,omitempty"`
	Tokens    int     `json:"tokens,omitempty"`
}

// AIErrorEvent describes a generative adapter failure that was
// recovered with a scripted retry message.
type AIErrorEvent struct {
	EventBase
	Step Step   `json:"step"`
	Err  string `json:"err"`
}

// LifecycleHooks defines callbacks for engine observability. All hooks
// are optional and must be fast; the engine invokes them synchronously.
type LifecycleHooks struct {
	OnStepEnter func(context.Context, *StepEvent)
	OnReply     func(context.Context, *ReplyEvent)
	OnAIError   func(context.Context, *AIErrorEvent)
	OnUndo      func(context.Context, *StepEvent)
}
