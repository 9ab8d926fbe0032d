package script

import "github.com/mindshifting/mindshift/pkg/domain"

// Next is the deterministic transition function. Given the current
// step, the classified intent and the session's work type and method,
// it returns the next step. ok is false when the intent is not valid
// for the step (InvalidTransition: the caller re-presents the step, it
// never becomes a hard failure).
func (t *Table) Next(step domain.Step, intent domain.Intent, workType domain.WorkType, method domain.Method) (domain.Step, bool) {
	def, known := t.steps[step]
	if !known || def.Terminal {
		return "", false
	}

	switch {
	case def.MenuWorkTypes:
		if intent.Kind != domain.IntentWorkType {
			return "", false
		}
		// GOAL and NEGATIVE_EXPERIENCE auto-assign their method and
		// skip the method menu entirely.
		if auto := domain.AutoMethod(intent.WorkType); auto != "" {
			entry, _ := MethodEntry(auto)
			return entry, true
		}
		return domain.StepMethodSelection, true

	case def.MenuMethods:
		if intent.Kind != domain.IntentMethod {
			return "", false
		}
		entry, ok := MethodEntry(intent.Method)
		return entry, ok
	}

	switch def.Gate {
	case domain.GateYesNo, domain.GateYesNoMaybe:
		return t.nextFromGate(step, intent, method)
	case domain.GateFreeText:
		if intent.Kind != domain.IntentFreeText {
			return "", false
		}
		return t.nextFromFreeText(step, method)
	}
	return "", false
}

func (t *Table) nextFromGate(step domain.Step, intent domain.Intent, method domain.Method) (domain.Step, bool) {
	if step == domain.StepDiggingDeeperStart {
		switch intent.Kind {
		case domain.IntentYes:
			return domain.StepDiggingDeeperPrompt, true
		case domain.IntentNo:
			return domain.StepIntegrationStart, true
		}
		return "", false
	}

	// Method check gates: yes deepens, no heads to completion, maybe
	// branches into the digging-deeper sub-protocol.
	if m, ok := stepMethod[step]; ok && methodSteps[m].Check == step {
		switch intent.Kind {
		case domain.IntentYes:
			return methodSteps[m].Deepen, true
		case domain.IntentNo:
			return domain.StepIntegrationStart, true
		case domain.IntentMaybe:
			return domain.StepDiggingDeeperStart, true
		}
	}
	return "", false
}

func (t *Table) nextFromFreeText(step domain.Step, method domain.Method) (domain.Step, bool) {
	switch step {
	case domain.StepDiggingDeeperPrompt:
		// Route back to the active method's check gate.
		check, ok := MethodCheck(method)
		return check, ok
	case domain.StepIntegrationStart:
		return domain.StepSessionComplete, true
	}

	m, ok := stepMethod[step]
	if !ok {
		return "", false
	}
	set := methodSteps[m]
	switch step {
	case set.Intro:
		return set.Body, true
	case set.Body:
		return set.Check, true
	case set.Deepen:
		return set.Body, true
	}
	return "", false
}

// Edge is one labeled transition, used for validation and for the
// mermaid graph export.
type Edge struct {
	From  domain.Step
	Label string
	To    domain.Step
}

// Edges enumerates every transition in the graph.
func (t *Table) Edges() []Edge {
	var edges []Edge
	for _, id := range t.order {
		edges = append(edges, t.edgesFrom(t.steps[id])...)
	}
	return edges
}

func (t *Table) edgesFrom(def StepDef) []Edge {
	var edges []Edge
	add := func(label string, intent domain.Intent, wt domain.WorkType, m domain.Method) {
		if to, ok := t.Next(def.ID, intent, wt, m); ok {
			edges = append(edges, Edge{From: def.ID, Label: label, To: to})
		}
	}

	switch {
	case def.Terminal:
		return nil
	case def.MenuWorkTypes:
		for _, wt := range domain.WorkTypes() {
			add(wt.Label(), domain.Intent{Kind: domain.IntentWorkType, WorkType: wt}, wt, "")
		}
	case def.MenuMethods:
		for _, m := range domain.MethodsFor(domain.WorkTypeProblem) {
			add(m.Label(), domain.Intent{Kind: domain.IntentMethod, Method: m}, domain.WorkTypeProblem, m)
		}
	case def.Gate == domain.GateYesNo:
		add("yes", domain.Intent{Kind: domain.IntentYes}, "", "")
		add("no", domain.Intent{Kind: domain.IntentNo}, "", "")
	case def.Gate == domain.GateYesNoMaybe:
		add("yes", domain.Intent{Kind: domain.IntentYes}, "", stepMethod[def.ID])
		add("no", domain.Intent{Kind: domain.IntentNo}, "", stepMethod[def.ID])
		add("maybe", domain.Intent{Kind: domain.IntentMaybe}, "", stepMethod[def.ID])
	case def.Gate == domain.GateFreeText:
		if def.ID == domain.StepDiggingDeeperPrompt {
			// The target depends on the session's method.
			for m := range methodSteps {
				add(m.Label(), domain.Intent{Kind: domain.IntentFreeText, Text: "…"}, "", m)
			}
			break
		}
		add("input", domain.Intent{Kind: domain.IntentFreeText, Text: "…"}, "", stepMethod[def.ID])
	}
	return edges
}
