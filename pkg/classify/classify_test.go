package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindshifting/mindshift/pkg/classify"
	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/script"
)

func stepDef(t *testing.T, id domain.Step) script.StepDef {
	t.Helper()
	def, ok := script.New().Step(id)
	if !ok {
		t.Fatalf("step %q not in table", id)
	}
	return def
}

func TestClassify_YesNoMaybe(t *testing.T) {
	def := stepDef(t, domain.StepProblemShiftingCheck)

	tests := []struct {
		input string
		want  domain.IntentKind
	}{
		{"yes", domain.IntentYes},
		{"  YES  ", domain.IntentYes},
		{"No", domain.IntentNo},
		{"maybe", domain.IntentMaybe},
		{"Maybe", domain.IntentMaybe},
		// Closed vocabulary: anything else is unclassified.
		{"banana", domain.IntentUnclassified},
		{"yes please", domain.IntentUnclassified},
		{"y", domain.IntentUnclassified},
		{"", domain.IntentUnclassified},
	}
	for _, tt := range tests {
		got := classify.Classify(def, domain.WorkTypeProblem, tt.input)
		assert.Equal(t, tt.want, got.Kind, "input %q", tt.input)
	}
}

func TestClassify_YesNo(t *testing.T) {
	def := stepDef(t, domain.StepDiggingDeeperStart)

	assert.Equal(t, domain.IntentYes, classify.Classify(def, "", "yes").Kind)
	assert.Equal(t, domain.IntentNo, classify.Classify(def, "", "no").Kind)
	// "maybe" is not part of a strict yes/no gate.
	assert.Equal(t, domain.IntentUnclassified, classify.Classify(def, "", "maybe").Kind)
}

func TestClassify_WorkTypeMenu(t *testing.T) {
	def := stepDef(t, domain.StepMindShiftingExplanation)

	tests := []struct {
		input string
		want  domain.WorkType
	}{
		{"problem", domain.WorkTypeProblem},
		{"Problem", domain.WorkTypeProblem},
		{"1", domain.WorkTypeProblem},
		{"goal", domain.WorkTypeGoal},
		{"2", domain.WorkTypeGoal},
		{"negative experience", domain.WorkTypeNegativeExperience},
		{"3", domain.WorkTypeNegativeExperience},
	}
	for _, tt := range tests {
		got := classify.Classify(def, "", tt.input)
		assert.Equal(t, domain.IntentWorkType, got.Kind, "input %q", tt.input)
		assert.Equal(t, tt.want, got.WorkType, "input %q", tt.input)
	}

	for _, input := range []string{"4", "0", "worry", ""} {
		got := classify.Classify(def, "", input)
		assert.Equal(t, domain.IntentUnclassified, got.Kind, "input %q", input)
	}
}

func TestClassify_MethodMenu(t *testing.T) {
	def := stepDef(t, domain.StepMethodSelection)

	tests := []struct {
		input string
		want  domain.Method
	}{
		{"problem shifting", domain.MethodProblemShifting},
		{"1", domain.MethodProblemShifting},
		{"identity shifting", domain.MethodIdentityShifting},
		{"2", domain.MethodIdentityShifting},
		{"belief shifting", domain.MethodBeliefShifting},
		{"blockage shifting", domain.MethodBlockageShifting},
		{"4", domain.MethodBlockageShifting},
	}
	for _, tt := range tests {
		got := classify.Classify(def, domain.WorkTypeProblem, tt.input)
		assert.Equal(t, domain.IntentMethod, got.Kind, "input %q", tt.input)
		assert.Equal(t, tt.want, got.Method, "input %q", tt.input)
	}

	// Methods outside the work type's menu stay unclassified.
	got := classify.Classify(def, domain.WorkTypeProblem, "reality shifting")
	assert.Equal(t, domain.IntentUnclassified, got.Kind)

	got = classify.Classify(def, domain.WorkTypeProblem, "5")
	assert.Equal(t, domain.IntentUnclassified, got.Kind)
}

func TestClassify_FreeText(t *testing.T) {
	def := stepDef(t, domain.StepProblemShiftingIntro)

	got := classify.Classify(def, domain.WorkTypeProblem, "  I can't sleep before interviews  ")
	assert.Equal(t, domain.IntentFreeText, got.Kind)
	// Raw text passes through verbatim, untrimmed.
	assert.Equal(t, "  I can't sleep before interviews  ", got.Text)

	got = classify.Classify(def, domain.WorkTypeProblem, "   ")
	assert.Equal(t, domain.IntentUnclassified, got.Kind)
}

func TestClassify_Deterministic(t *testing.T) {
	def := stepDef(t, domain.StepProblemShiftingCheck)
	for i := 0; i < 10; i++ {
		assert.Equal(t, domain.IntentMaybe, classify.Classify(def, domain.WorkTypeProblem, "maybe").Kind)
	}
}
