package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/mindshifting/mindshift/pkg/classify"
	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/ports"
	"github.com/mindshifting/mindshift/pkg/script"
)

// Continue advances one turn: classify input, answer scripted or via
// the generative adapter, transition, update stats, and append the
// post-transition history entry. The input state is never mutated.
func (e *Engine) Continue(ctx context.Context, state *domain.State, rawInput string) (*domain.State, Reply, error) {
	if state.Status == domain.StatusCompleted {
		return nil, Reply{}, domain.ErrSessionClosed
	}

	def, ok := e.table.Step(state.CurrentStep)
	if !ok {
		return nil, Reply{}, fmt.Errorf("state references unknown step %q", state.CurrentStep)
	}

	start := e.now()
	next := state.Clone()
	next.AppendUser(rawInput, start)

	intent := classify.Classify(def, next.WorkType, rawInput)

	nextStep, valid := e.table.Next(next.CurrentStep, intent, next.WorkType, next.Method)
	if intent.Kind == domain.IntentUnclassified || !valid {
		// Gate steps are closed-vocabulary: unknown input re-presents
		// the same step with a clarifying scripted message and never
		// reaches the generative adapter.
		return e.clarify(ctx, next, def, start)
	}

	applyIntent(next, intent)

	nextDef, ok := e.table.Step(nextStep)
	if !ok {
		return nil, Reply{}, fmt.Errorf("transition target %q is not defined", nextStep)
	}

	reply := Reply{}
	if def.AIRequired {
		reply = e.generateReply(ctx, next, def, nextDef)
		if !reply.UsedAI {
			// Adapter unavailable: stay on the current step so the
			// turn still commits to a valid state.
			nextStep = next.CurrentStep
			nextDef = def
		}
	} else {
		reply.Message = script.Render(nextDef.Prompt, e.vars(next))
	}

	next.CurrentStep = nextStep
	if nextDef.Terminal {
		next.Status = domain.StatusCompleted
		reply.Completed = true
	}

	if reply.UsedAI {
		next.Stats.AICount++
	} else {
		next.Stats.ScriptedCount++
	}
	elapsed := e.now().Sub(start).Milliseconds()
	next.Stats.LastResponseMs = elapsed
	next.AppendSystem(reply.Message, e.now())
	next.UpdatedAt = e.now()
	next.PushHistory()

	e.emitStepEnter(ctx, next, nextDef)
	e.emitReply(ctx, next, reply)
	return next, reply, nil
}

// clarify re-presents the current step after unclassifiable input.
// The state still advances (transcript, stats, history) even though
// the step does not.
func (e *Engine) clarify(ctx context.Context, next *domain.State, def script.StepDef, start time.Time) (*domain.State, Reply, error) {
	msg := e.table.Clarify(def)
	reply := Reply{Message: msg}

	next.Stats.ScriptedCount++
	next.Stats.LastResponseMs = e.now().Sub(start).Milliseconds()
	next.AppendSystem(msg, e.now())
	next.UpdatedAt = e.now()
	next.PushHistory()

	e.emitStepEnter(ctx, next, def)
	e.emitReply(ctx, next, reply)
	return next, reply, nil
}

// generateReply invokes the AI fallback adapter with a step-specific
// system prompt. On failure or timeout it degrades to the scripted
// retry message with UsedAI=false (the turn produced no AI content).
func (e *Engine) generateReply(ctx context.Context, next *domain.State, def, nextDef script.StepDef) Reply {
	if e.generator == nil {
		e.emitAIError(ctx, next, def.ID, domain.ErrAdapterUnavailable)
		return Reply{Message: fallbackMessage(e, next, def)}
	}

	genCtx, cancel := context.WithTimeout(ctx, e.aiTimeout)
	defer cancel()

	res, err := e.generator.Generate(genCtx, ports.GenerateRequest{
		SystemPrompt: def.SystemPrompt,
		Transcript:   next.Transcript,
		UserInput:    lastUserText(next),
	})
	if err != nil {
		e.logger.Warn("generative adapter failed, substituting scripted retry",
			"session_id", next.SessionID,
			"step", next.CurrentStep,
			"err", err,
		)
		e.emitAIError(ctx, next, def.ID, fmt.Errorf("%w: %w", domain.ErrAdapterUnavailable, err))
		return Reply{Message: fallbackMessage(e, next, def)}
	}

	// The generated acknowledgment leads into the next scripted
	// question so the protocol keeps moving deterministically.
	msg := res.Text + "\n\n" + script.Render(nextDef.Prompt, e.vars(next))
	return Reply{Message: msg, UsedAI: true, CostUSD: res.CostUSD, Tokens: res.Tokens}
}

func fallbackMessage(e *Engine, next *domain.State, def script.StepDef) string {
	return script.RetryAfterFallback + "\n\n" + script.Render(def.Prompt, e.vars(next))
}

func lastUserText(s *domain.State) string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Speaker == domain.SpeakerUser {
			return s.Transcript[i].Text
		}
	}
	return ""
}

// applyIntent records the selections an intent carries. Work type is
// set once at the gate; GOAL and NEGATIVE_EXPERIENCE auto-assign
// their method.
func applyIntent(s *domain.State, intent domain.Intent) {
	switch intent.Kind {
	case domain.IntentWorkType:
		s.WorkType = intent.WorkType
		if auto := domain.AutoMethod(intent.WorkType); auto != "" {
			s.Method = auto
		}
	case domain.IntentMethod:
		s.Method = intent.Method
	}
}

// Undo restores the session from the previous history snapshot. The
// restored step is authoritative: callers must use the returned
// state's CurrentStep, not the step they asked for.
func (e *Engine) Undo(ctx context.Context, state *domain.State, target domain.Step) (*domain.State, error) {
	if state.Status == domain.StatusCompleted {
		return nil, domain.ErrSessionClosed
	}

	next := state.Clone()
	if !next.RestorePrevious() {
		return nil, domain.ErrNothingToUndo
	}
	if target != "" && target != next.CurrentStep {
		e.logger.Debug("undo target differs from restored step",
			"session_id", next.SessionID,
			"requested", target,
			"restored", next.CurrentStep,
		)
	}
	next.UpdatedAt = e.now()

	e.emitUndo(ctx, next)
	return next, nil
}
