package runtime

import (
	"context"

	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/script"
)

func (e *Engine) base(s *domain.State, typ domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: typ, SessionID: s.SessionID}
}

func (e *Engine) emitStepEnter(ctx context.Context, s *domain.State, def script.StepDef) {
	if e.hooks.OnStepEnter == nil {
		return
	}
	e.hooks.OnStepEnter(ctx, &domain.StepEvent{
		EventBase: e.base(s, domain.EventStepEnter),
		Step:      def.ID,
		Gate:      def.Gate,
	})
}

func (e *Engine) emitReply(ctx context.Context, s *domain.State, r Reply) {
	if e.hooks.OnReply == nil {
		return
	}
	e.hooks.OnReply(ctx, &domain.ReplyEvent{
		EventBase: e.base(s, domain.EventReply),
		Step:      s.CurrentStep,
		UsedAI:    r.UsedAI,
		ElapsedMs: s.Stats.LastResponseMs,
		CostUSD:   r.CostUSD,
		Tokens:    r.Tokens,
	})
}

func (e *Engine) emitAIError(ctx context.Context, s *domain.State, step domain.Step, err error) {
	if e.hooks.OnAIError == nil {
		return
	}
	e.hooks.OnAIError(ctx, &domain.AIErrorEvent{
		EventBase: e.base(s, domain.EventAIError),
		Step:      step,
		Err:       err.Error(),
	})
}

func (e *Engine) emitUndo(ctx context.Context, s *domain.State) {
	if e.hooks.OnUndo == nil {
		return
	}
	gate := domain.GateFreeText
	if def, ok := e.table.Step(s.CurrentStep); ok {
		gate = def.Gate
	}
	e.hooks.OnUndo(ctx, &domain.StepEvent{
		EventBase: e.base(s, domain.EventUndo),
		Step:      s.CurrentStep,
		Gate:      gate,
	})
}
