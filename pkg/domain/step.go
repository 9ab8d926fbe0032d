package domain

// Step identifies a position in the scripted dialogue graph.
// Steps form a closed set; the script table rejects unknown values at
// construction time rather than at runtime.
type Step string

const (
	// StepMindShiftingExplanation is the entry step: the welcome
	// message plus the work-type menu (problem / goal / negative
	// experience).
	StepMindShiftingExplanation Step = "mind_shifting_explanation"

	// StepMethodSelection presents the method menu. Only reachable
	// when the work type is PROBLEM; the other work types auto-assign
	// their method and skip this step.
	StepMethodSelection Step = "method_selection"

	// Problem Shifting
	StepProblemShiftingIntro  Step = "problem_shifting_intro"
	StepProblemShiftingBody   Step = "problem_shifting_body"
	StepProblemShiftingCheck  Step = "problem_shifting_check"
	StepProblemShiftingDeepen Step = "problem_shifting_deepen"

	// Identity Shifting
	StepIdentityShiftingIntro  Step = "identity_shifting_intro"
	StepIdentityShiftingBody   Step = "identity_shifting_body"
	StepIdentityShiftingCheck  Step = "identity_shifting_check"
	StepIdentityShiftingDeepen Step = "identity_shifting_deepen"

	// Belief Shifting
	StepBeliefShiftingIntro  Step = "belief_shifting_intro"
	StepBeliefShiftingBody   Step = "belief_shifting_body"
	StepBeliefShiftingCheck  Step = "belief_shifting_check"
	StepBeliefShiftingDeepen Step = "belief_shifting_deepen"

	// Blockage Shifting
	StepBlockageShiftingIntro  Step = "blockage_shifting_intro"
	StepBlockageShiftingBody   Step = "blockage_shifting_body"
	StepBlockageShiftingCheck  Step = "blockage_shifting_check"
	StepBlockageShiftingDeepen Step = "blockage_shifting_deepen"

	// Reality Shifting (auto-assigned for GOAL)
	StepRealityShiftingIntro  Step = "reality_shifting_intro"
	StepRealityShiftingBody   Step = "reality_shifting_body"
	StepRealityShiftingCheck  Step = "reality_shifting_check"
	StepRealityShiftingDeepen Step = "reality_shifting_deepen"

	// Trauma Shifting (auto-assigned for NEGATIVE_EXPERIENCE)
	StepTraumaShiftingIntro  Step = "trauma_shifting_intro"
	StepTraumaShiftingBody   Step = "trauma_shifting_body"
	StepTraumaShiftingCheck  Step = "trauma_shifting_check"
	StepTraumaShiftingDeepen Step = "trauma_shifting_deepen"

	// Shared digging-deeper sub-protocol, entered from any method's
	// check gate on "maybe".
	StepDiggingDeeperStart  Step = "digging_deeper_start"
	StepDiggingDeeperPrompt Step = "digging_deeper_prompt"

	// Closure
	StepIntegrationStart Step = "integration_start"
	StepSessionComplete  Step = "session_complete"
)

// GateKind classifies the expected input vocabulary of a step. The
// presentation layer uses it to pick an input widget; the classifier
// uses it to pick a matching strategy.
type GateKind string

const (
	GateYesNo      GateKind = "yes_no"
	GateYesNoMaybe GateKind = "yes_no_maybe"
	GateMenu       GateKind = "menu"
	GateFreeText   GateKind = "free_text"
)

// WorkType is the top-level category of what the user wants addressed.
type WorkType string

const (
	WorkTypeProblem            WorkType = "PROBLEM"
	WorkTypeGoal               WorkType = "GOAL"
	WorkTypeNegativeExperience WorkType = "NEGATIVE_EXPERIENCE"
)

// WorkTypes lists the menu in presentation order. The numeric aliases
// "1", "2", "3" map to these positions.
func WorkTypes() []WorkType {
	return []WorkType{WorkTypeProblem, WorkTypeGoal, WorkTypeNegativeExperience}
}

// Label returns the human-readable menu label.
func (w WorkType) Label() string {
	switch w {
	case WorkTypeProblem:
		return "Problem"
	case WorkTypeGoal:
		return "Goal"
	case WorkTypeNegativeExperience:
		return "Negative Experience"
	}
	return string(w)
}

// Method is the therapeutic technique applied once the work type is
// known.
type Method string

const (
	MethodProblemShifting  Method = "ProblemShifting"
	MethodIdentityShifting Method = "IdentityShifting"
	MethodBeliefShifting   Method = "BeliefShifting"
	MethodBlockageShifting Method = "BlockageShifting"
	MethodRealityShifting  Method = "RealityShifting"
	MethodTraumaShifting   Method = "TraumaShifting"
)

// MethodsFor returns the methods selectable for a work type. Only
// PROBLEM offers a menu; the other work types have exactly one
// auto-assigned method.
func MethodsFor(w WorkType) []Method {
	switch w {
	case WorkTypeProblem:
		return []Method{
			MethodProblemShifting,
			MethodIdentityShifting,
			MethodBeliefShifting,
			MethodBlockageShifting,
		}
	case WorkTypeGoal:
		return []Method{MethodRealityShifting}
	case WorkTypeNegativeExperience:
		return []Method{MethodTraumaShifting}
	}
	return nil
}

// AutoMethod returns the auto-assigned method for work types that skip
// the method menu, or "" when a menu choice is required.
func AutoMethod(w WorkType) Method {
	switch w {
	case WorkTypeGoal:
		return MethodRealityShifting
	case WorkTypeNegativeExperience:
		return MethodTraumaShifting
	}
	return ""
}

// Label returns the human-readable menu label, e.g. "Problem Shifting".
func (m Method) Label() string {
	switch m {
	case MethodProblemShifting:
		return "Problem Shifting"
	case MethodIdentityShifting:
		return "Identity Shifting"
	case MethodBeliefShifting:
		return "Belief Shifting"
	case MethodBlockageShifting:
		return "Blockage Shifting"
	case MethodRealityShifting:
		return "Reality Shifting"
	case MethodTraumaShifting:
		return "Trauma Shifting"
	}
	return string(m)
}
