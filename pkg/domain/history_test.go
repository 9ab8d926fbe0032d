package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindshifting/mindshift/pkg/domain"
)

func TestPushHistory_RingBound(t *testing.T) {
	state := domain.NewState("s1", "u1")

	for i := 0; i < domain.HistoryDepth+5; i++ {
		state.CurrentStep = domain.Step(fmt.Sprintf("step_%d", i))
		state.PushHistory()
	}

	require.Len(t, state.History, domain.HistoryDepth)
	// Oldest entries dropped first: the surviving window is the tail.
	assert.Equal(t, domain.Step("step_5"), state.History[0].CurrentStep)
	assert.Equal(t, domain.Step("step_14"), state.History[domain.HistoryDepth-1].CurrentStep)
}

func TestRestorePrevious(t *testing.T) {
	state := domain.NewState("s1", "u1")
	state.AppendSystem("welcome", time.Now())
	state.PushHistory()

	// Advance a step and snapshot again.
	state.CurrentStep = domain.StepMethodSelection
	state.WorkType = domain.WorkTypeProblem
	state.AppendUser("problem", time.Now())
	state.Stats.ScriptedCount = 2
	state.PushHistory()

	require.True(t, state.RestorePrevious())

	assert.Equal(t, domain.StepMindShiftingExplanation, state.CurrentStep)
	assert.Len(t, state.Transcript, 1)
	assert.Equal(t, 0, state.Stats.ScriptedCount)
	// The popped snapshot is gone; only the restored one remains.
	assert.Len(t, state.History, 1)
}

func TestRestorePrevious_NothingToUndo(t *testing.T) {
	state := domain.NewState("s1", "u1")
	assert.False(t, state.RestorePrevious(), "empty history")

	state.PushHistory()
	assert.False(t, state.RestorePrevious(), "single snapshot has no previous")
	assert.Len(t, state.History, 1, "failed restore must not consume the snapshot")
}

func TestSnapshot_Isolation(t *testing.T) {
	state := domain.NewState("s1", "u1")
	state.AppendUser("first", time.Now())
	state.PushHistory()

	// Mutating the live transcript must not leak into the snapshot.
	state.Transcript[0].Text = "mutated"
	assert.Equal(t, "first", state.History[0].Transcript[0].Text)
}

func TestClone_DeepCopies(t *testing.T) {
	state := domain.NewState("s1", "u1")
	state.AppendUser("hello", time.Now())
	state.PushHistory()

	clone := state.Clone()
	clone.Transcript[0].Text = "changed"
	clone.History[0].Transcript[0].Text = "changed"
	clone.CurrentStep = domain.StepSessionComplete

	assert.Equal(t, "hello", state.Transcript[0].Text)
	assert.Equal(t, "hello", state.History[0].Transcript[0].Text)
	assert.Equal(t, domain.StepMindShiftingExplanation, state.CurrentStep)
}

func TestStats_AIUsagePercent(t *testing.T) {
	assert.Zero(t, domain.Stats{}.AIUsagePercent())

	s := domain.Stats{ScriptedCount: 19, AICount: 1}
	assert.InDelta(t, 5.0, s.AIUsagePercent(), 1e-9)

	s = domain.Stats{ScriptedCount: 10}
	assert.Zero(t, s.AIUsagePercent())
}

func TestAutoMethod(t *testing.T) {
	assert.Equal(t, domain.MethodRealityShifting, domain.AutoMethod(domain.WorkTypeGoal))
	assert.Equal(t, domain.MethodTraumaShifting, domain.AutoMethod(domain.WorkTypeNegativeExperience))
	assert.Empty(t, domain.AutoMethod(domain.WorkTypeProblem))
}
