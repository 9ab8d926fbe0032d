package script

import "github.com/mindshifting/mindshift/pkg/domain"

// methodSteps maps each method to its four-step sequence.
type methodStepSet struct {
	Intro, Body, Check, Deepen domain.Step
}

var methodSteps = map[domain.Method]methodStepSet{
	domain.MethodProblemShifting: {
		Intro:  domain.StepProblemShiftingIntro,
		Body:   domain.StepProblemShiftingBody,
		Check:  domain.StepProblemShiftingCheck,
		Deepen: domain.StepProblemShiftingDeepen,
	},
	domain.MethodIdentityShifting: {
		Intro:  domain.StepIdentityShiftingIntro,
		Body:   domain.StepIdentityShiftingBody,
		Check:  domain.StepIdentityShiftingCheck,
		Deepen: domain.StepIdentityShiftingDeepen,
	},
	domain.MethodBeliefShifting: {
		Intro:  domain.StepBeliefShiftingIntro,
		Body:   domain.StepBeliefShiftingBody,
		Check:  domain.StepBeliefShiftingCheck,
		Deepen: domain.StepBeliefShiftingDeepen,
	},
	domain.MethodBlockageShifting: {
		Intro:  domain.StepBlockageShiftingIntro,
		Body:   domain.StepBlockageShiftingBody,
		Check:  domain.StepBlockageShiftingCheck,
		Deepen: domain.StepBlockageShiftingDeepen,
	},
	domain.MethodRealityShifting: {
		Intro:  domain.StepRealityShiftingIntro,
		Body:   domain.StepRealityShiftingBody,
		Check:  domain.StepRealityShiftingCheck,
		Deepen: domain.StepRealityShiftingDeepen,
	},
	domain.MethodTraumaShifting: {
		Intro:  domain.StepTraumaShiftingIntro,
		Body:   domain.StepTraumaShiftingBody,
		Check:  domain.StepTraumaShiftingCheck,
		Deepen: domain.StepTraumaShiftingDeepen,
	},
}

// stepMethod is the reverse index from a method-specific step back to
// its method.
var stepMethod = func() map[domain.Step]domain.Method {
	idx := make(map[domain.Step]domain.Method)
	for m, set := range methodSteps {
		idx[set.Intro] = m
		idx[set.Body] = m
		idx[set.Check] = m
		idx[set.Deepen] = m
	}
	return idx
}()

// MethodEntry returns the first step of a method's sequence.
func MethodEntry(m domain.Method) (domain.Step, bool) {
	set, ok := methodSteps[m]
	return set.Intro, ok
}

// MethodCheck returns the "still a problem?" gate of a method.
func MethodCheck(m domain.Method) (domain.Step, bool) {
	set, ok := methodSteps[m]
	return set.Check, ok
}

const introSystemPrompt = "You are a Mind Shifting practitioner guiding a treatment session. " +
	"The user has just described what they want to work on. Reflect it back in one warm, " +
	"neutral sentence without analysis or advice, then ask them to close their eyes and " +
	"notice where they feel it in their body. Keep the reply under three sentences."

const diggingSystemPrompt = "You are a Mind Shifting practitioner. The user is digging deeper " +
	"into what sits underneath their issue. Acknowledge what they shared in one sentence, " +
	"then gently ask them to feel what that feels like now. No analysis, no advice, under " +
	"three sentences."

func builtinSteps() []StepDef {
	steps := []StepDef{
		{
			ID:   domain.StepMindShiftingExplanation,
			Gate: domain.GateMenu,
			Prompt: "Hi {{first_name}}, welcome to Mind Shifting.\n\n" +
				"Mind Shifting is not like counselling or coaching. We won't be analysing anything; " +
				"we will be using a process that works directly with how your mind holds the issue.\n\n" +
				"What would you like to work on today?\n\n" +
				"1. A problem\n2. A goal\n3. A negative experience",
			MenuWorkTypes: true,
		},
		{
			ID:   domain.StepMethodSelection,
			Gate: domain.GateMenu,
			Prompt: "How would you like to work on your problem?\n\n" +
				"1. Problem Shifting\n2. Identity Shifting\n3. Belief Shifting\n4. Blockage Shifting",
			MenuMethods: true,
		},

		// Shared sub-protocol and closure.
		{
			ID:     domain.StepDiggingDeeperStart,
			Gate:   domain.GateYesNo,
			Prompt: "Sometimes there is more sitting underneath. Would you like to dig a little deeper? (yes/no)",
		},
		{
			ID:           domain.StepDiggingDeeperPrompt,
			Gate:         domain.GateFreeText,
			Prompt:       "Okay. When you feel into this, what else comes up for you around it?",
			AIRequired:   true,
			SystemPrompt: diggingSystemPrompt,
		},
		{
			ID:   domain.StepIntegrationStart,
			Gate: domain.GateFreeText,
			Prompt: "Good. Take a moment and let that settle, {{first_name}}.\n\n" +
				"How are you feeling now compared to when we started?",
		},
		{
			ID:   domain.StepSessionComplete,
			Gate: domain.GateFreeText,
			Prompt: "That completes the process. Well done, {{first_name}}.\n\n" +
				"Notice over the next few days how this sits differently. You can start a new " +
				"session whenever you like.",
			Terminal: true,
		},
	}

	steps = append(steps, methodStepDefs(domain.MethodProblemShifting,
		"Tell me in a few words: what is the problem?",
		"Close your eyes and feel the problem. What happens in your body when you feel it?",
		"Feel what the problem feels like now. Does it still feel like a problem? (yes/no/maybe)",
		"Feel that feeling... and what would you rather feel instead? Say it out loud, then feel that.",
	)...)
	steps = append(steps, methodStepDefs(domain.MethodIdentityShifting,
		"Tell me in a few words: what is the problem?",
		"When you feel this problem, who are you being? Close your eyes and step into that identity for a moment.",
		"Check in with that identity now. Does it still feel like a problem? (yes/no/maybe)",
		"Feel yourself letting go of being that. Who are you without it? Feel that for a moment.",
	)...)
	steps = append(steps, methodStepDefs(domain.MethodBeliefShifting,
		"Tell me in a few words: what is the problem?",
		"What do you believe about yourself or the world that makes this a problem? Feel what holding that belief feels like.",
		"Feel into that belief now. Does it still feel true for you? (yes/no/maybe)",
		"Feel what it would be like if the opposite were true. Let yourself try that on for a moment.",
	)...)
	steps = append(steps, methodStepDefs(domain.MethodBlockageShifting,
		"Tell me in a few words: what is the problem?",
		"Close your eyes and feel the blockage. Where do you feel it, and what is it like?",
		"Feel where the blockage was. Is it still a problem? (yes/no/maybe)",
		"Feel what's behind the blockage. What's there when you look past it?",
	)...)
	steps = append(steps, methodStepDefs(domain.MethodRealityShifting,
		"Tell me in a few words: what is the goal you want?",
		"Close your eyes and imagine the goal as already real. Step into that moment. What do you notice?",
		"Come back to now and feel into the goal. Is there still anything in the way? (yes/no/maybe)",
		"Feel what's in the way... and feel it dissolving as the goal becomes more real.",
	)...)
	steps = append(steps, methodStepDefs(domain.MethodTraumaShifting,
		"Tell me in a few words: what negative experience would you like to work on?",
		"You don't need to relive it. Think of the worst moment only as a fact, at a distance, and notice what your body does.",
		"Think of the experience now, still at a distance. Does it still feel like a problem? (yes/no/maybe)",
		"Feel yourself putting that moment down, like setting down a heavy bag. Notice the difference.",
	)...)

	return steps
}

// methodStepDefs builds the uniform intro/body/check/deepen sequence
// for one method. The intro is the only AI-required step: the user's
// free-form description gets a generated acknowledgment before the
// scripted sequence takes over.
func methodStepDefs(m domain.Method, intro, body, check, deepen string) []StepDef {
	set := methodSteps[m]
	return []StepDef{
		{ID: set.Intro, Gate: domain.GateFreeText, Prompt: intro, AIRequired: true, SystemPrompt: introSystemPrompt},
		{ID: set.Body, Gate: domain.GateFreeText, Prompt: body},
		{ID: set.Check, Gate: domain.GateYesNoMaybe, Prompt: check},
		{ID: set.Deepen, Gate: domain.GateFreeText, Prompt: deepen},
	}
}
