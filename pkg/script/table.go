// Package script holds the fixed mapping from protocol steps to
// scripted reply templates, and the deterministic transition function
// over (step, intent, workType, method). The table is built once at
// startup, validated, and read-only afterwards, so it is safe to share
// across sessions.
package script

import (
	"fmt"

	"github.com/mindshifting/mindshift/pkg/domain"
)

// StepDef describes one step of the dialogue graph.
type StepDef struct {
	ID   domain.Step
	Gate domain.GateKind

	// Prompt is the scripted message presented when the step is
	// entered. Subject to variable substitution (see template.go).
	Prompt string

	// Clarify is the retry message re-presenting a gate after
	// unclassifiable input. Empty means the gate's default.
	Clarify string

	// AIRequired marks free-text steps whose reply needs the
	// generative adapter (e.g. acknowledging a problem description).
	AIRequired bool

	// SystemPrompt is the step-specific generation instruction.
	// Required when AIRequired is set.
	SystemPrompt string

	// MenuWorkTypes or MenuMethods mark which closed set a menu gate
	// draws its options from.
	MenuWorkTypes bool
	MenuMethods   bool

	// Terminal marks the session-complete step.
	Terminal bool
}

// Table is the read-only script table.
type Table struct {
	steps map[domain.Step]StepDef
	order []domain.Step
}

// New builds the built-in Mind Shifting table and validates it.
// Construction failure is a programming error, so New panics rather
// than returning an error the caller could only abort on anyway.
func New() *Table {
	t := &Table{steps: make(map[domain.Step]StepDef)}
	for _, def := range builtinSteps() {
		if _, dup := t.steps[def.ID]; dup {
			panic(fmt.Sprintf("script: duplicate step %q", def.ID))
		}
		t.steps[def.ID] = def
		t.order = append(t.order, def.ID)
	}
	if err := t.Validate(); err != nil {
		panic(fmt.Sprintf("script: invalid built-in table: %v", err))
	}
	return t
}

// Step returns the definition for a step ID.
func (t *Table) Step(id domain.Step) (StepDef, bool) {
	def, ok := t.steps[id]
	return def, ok
}

// Steps returns all definitions in declaration order.
func (t *Table) Steps() []StepDef {
	out := make([]StepDef, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.steps[id])
	}
	return out
}

// Clarify returns the retry message for a gate step.
func (t *Table) Clarify(def StepDef) string {
	if def.Clarify != "" {
		return def.Clarify
	}
	switch def.Gate {
	case domain.GateYesNo:
		return "Please answer yes or no."
	case domain.GateYesNoMaybe:
		return "Please answer yes, no or maybe."
	case domain.GateMenu:
		return "Please choose one of the options, by number or by name."
	}
	return "I didn't catch that. Could you try again?"
}

// RetryAfterFallback is the scripted message substituted when the
// generative adapter fails or times out. The step is re-presented so
// the transition still resolves to a valid, committed state.
const RetryAfterFallback = "I'm sorry, I lost my train of thought for a moment. Let's try that again."

// Validate checks graph integrity: every reachable transition target
// is defined, menus name their option set, AI steps carry a system
// prompt, and the terminal step has no outgoing edges.
func (t *Table) Validate() error {
	for _, def := range t.steps {
		if def.Prompt == "" {
			return fmt.Errorf("step %q has no prompt", def.ID)
		}
		if def.AIRequired && def.SystemPrompt == "" {
			return fmt.Errorf("step %q is AI-required but has no system prompt", def.ID)
		}
		if def.Gate == domain.GateMenu && !def.MenuWorkTypes && !def.MenuMethods {
			return fmt.Errorf("menu step %q names no option set", def.ID)
		}
		for _, e := range t.edgesFrom(def) {
			if def.Terminal {
				return fmt.Errorf("terminal step %q has outgoing edge to %q", def.ID, e.To)
			}
			if _, ok := t.steps[e.To]; !ok {
				return fmt.Errorf("step %q transitions to undefined step %q", def.ID, e.To)
			}
		}
		if !def.Terminal && len(t.edgesFrom(def)) == 0 {
			return fmt.Errorf("non-terminal step %q has no outgoing edges", def.ID)
		}
	}
	return nil
}
