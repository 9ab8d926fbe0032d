package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/script"
)

func TestNext_WorkTypeMenu(t *testing.T) {
	table := script.New()

	next, ok := table.Next(domain.StepMindShiftingExplanation,
		domain.Intent{Kind: domain.IntentWorkType, WorkType: domain.WorkTypeProblem}, "", "")
	require.True(t, ok)
	assert.Equal(t, domain.StepMethodSelection, next, "PROBLEM offers the method menu")

	// GOAL and NEGATIVE_EXPERIENCE auto-assign their method and skip
	// the menu entirely.
	next, ok = table.Next(domain.StepMindShiftingExplanation,
		domain.Intent{Kind: domain.IntentWorkType, WorkType: domain.WorkTypeGoal}, "", "")
	require.True(t, ok)
	assert.Equal(t, domain.StepRealityShiftingIntro, next)

	next, ok = table.Next(domain.StepMindShiftingExplanation,
		domain.Intent{Kind: domain.IntentWorkType, WorkType: domain.WorkTypeNegativeExperience}, "", "")
	require.True(t, ok)
	assert.Equal(t, domain.StepTraumaShiftingIntro, next)

	// Anything but a work-type choice is rejected.
	_, ok = table.Next(domain.StepMindShiftingExplanation,
		domain.Intent{Kind: domain.IntentFreeText, Text: "hello"}, "", "")
	assert.False(t, ok)
}

func TestNext_MethodMenu(t *testing.T) {
	table := script.New()

	next, ok := table.Next(domain.StepMethodSelection,
		domain.Intent{Kind: domain.IntentMethod, Method: domain.MethodIdentityShifting},
		domain.WorkTypeProblem, "")
	require.True(t, ok)
	assert.Equal(t, domain.StepIdentityShiftingIntro, next)

	_, ok = table.Next(domain.StepMethodSelection,
		domain.Intent{Kind: domain.IntentYes}, domain.WorkTypeProblem, "")
	assert.False(t, ok)
}

func TestNext_MethodSequence(t *testing.T) {
	table := script.New()
	m := domain.MethodProblemShifting

	next, ok := table.Next(domain.StepProblemShiftingIntro,
		domain.Intent{Kind: domain.IntentFreeText, Text: "I freeze up"}, domain.WorkTypeProblem, m)
	require.True(t, ok)
	assert.Equal(t, domain.StepProblemShiftingBody, next)

	next, ok = table.Next(domain.StepProblemShiftingBody,
		domain.Intent{Kind: domain.IntentFreeText, Text: "tight chest"}, domain.WorkTypeProblem, m)
	require.True(t, ok)
	assert.Equal(t, domain.StepProblemShiftingCheck, next)

	// Deepen loops back into the body step.
	next, ok = table.Next(domain.StepProblemShiftingDeepen,
		domain.Intent{Kind: domain.IntentFreeText, Text: "calm"}, domain.WorkTypeProblem, m)
	require.True(t, ok)
	assert.Equal(t, domain.StepProblemShiftingBody, next)
}

func TestNext_CheckGateBranches(t *testing.T) {
	table := script.New()
	m := domain.MethodBeliefShifting

	cases := []struct {
		kind domain.IntentKind
		want domain.Step
	}{
		{domain.IntentYes, domain.StepBeliefShiftingDeepen},
		{domain.IntentNo, domain.StepIntegrationStart},
		{domain.IntentMaybe, domain.StepDiggingDeeperStart},
	}
	for _, tc := range cases {
		next, ok := table.Next(domain.StepBeliefShiftingCheck,
			domain.Intent{Kind: tc.kind}, domain.WorkTypeProblem, m)
		require.True(t, ok, "intent %s", tc.kind)
		assert.Equal(t, tc.want, next)
	}

	_, ok := table.Next(domain.StepBeliefShiftingCheck,
		domain.Intent{Kind: domain.IntentFreeText, Text: "sort of"}, domain.WorkTypeProblem, m)
	assert.False(t, ok)
}

func TestNext_DiggingDeeper(t *testing.T) {
	table := script.New()

	next, ok := table.Next(domain.StepDiggingDeeperStart,
		domain.Intent{Kind: domain.IntentYes}, domain.WorkTypeProblem, domain.MethodBlockageShifting)
	require.True(t, ok)
	assert.Equal(t, domain.StepDiggingDeeperPrompt, next)

	next, ok = table.Next(domain.StepDiggingDeeperStart,
		domain.Intent{Kind: domain.IntentNo}, domain.WorkTypeProblem, domain.MethodBlockageShifting)
	require.True(t, ok)
	assert.Equal(t, domain.StepIntegrationStart, next)

	// The yes/no gate has no "maybe" branch.
	_, ok = table.Next(domain.StepDiggingDeeperStart,
		domain.Intent{Kind: domain.IntentMaybe}, domain.WorkTypeProblem, domain.MethodBlockageShifting)
	assert.False(t, ok)

	// The prompt routes back to the active method's check gate.
	next, ok = table.Next(domain.StepDiggingDeeperPrompt,
		domain.Intent{Kind: domain.IntentFreeText, Text: "fear of being seen"},
		domain.WorkTypeProblem, domain.MethodBlockageShifting)
	require.True(t, ok)
	assert.Equal(t, domain.StepBlockageShiftingCheck, next)
}

func TestNext_IntegrationAndTerminal(t *testing.T) {
	table := script.New()

	next, ok := table.Next(domain.StepIntegrationStart,
		domain.Intent{Kind: domain.IntentFreeText, Text: "much lighter"},
		domain.WorkTypeProblem, domain.MethodProblemShifting)
	require.True(t, ok)
	assert.Equal(t, domain.StepSessionComplete, next)

	// Terminal step accepts nothing.
	_, ok = table.Next(domain.StepSessionComplete,
		domain.Intent{Kind: domain.IntentFreeText, Text: "thanks"},
		domain.WorkTypeProblem, domain.MethodProblemShifting)
	assert.False(t, ok)

	// Unknown step is not a transition either.
	_, ok = table.Next("no_such_step", domain.Intent{Kind: domain.IntentYes}, "", "")
	assert.False(t, ok)
}

func TestEdges_CoverEveryNonTerminalStep(t *testing.T) {
	table := script.New()

	byFrom := make(map[domain.Step]int)
	for _, e := range table.Edges() {
		byFrom[e.From]++
		_, ok := table.Step(e.To)
		assert.True(t, ok, "edge target %s undefined", e.To)
	}
	for _, def := range table.Steps() {
		if def.Terminal {
			assert.Zero(t, byFrom[def.ID])
			continue
		}
		assert.Positive(t, byFrom[def.ID], "step %s has no edges", def.ID)
	}
}
