// Package classify normalizes free-text user input into an abstract
// intent given the active step's expected vocabulary.
//
// Classification is pure and deterministic: the same (step, text)
// always yields the same intent. Gate steps are closed-vocabulary by
// design, so anything outside the set comes back unclassified and is
// never forwarded to the generative adapter.
package classify

import (
	"strconv"
	"strings"

	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/script"
)

// Classify maps raw text to an intent for the given step. workType is
// needed for method menus, where the valid label set depends on it.
func Classify(def script.StepDef, workType domain.WorkType, raw string) domain.Intent {
	norm := strings.ToLower(strings.TrimSpace(raw))

	switch def.Gate {
	case domain.GateYesNo:
		switch norm {
		case "yes":
			return domain.Intent{Kind: domain.IntentYes}
		case "no":
			return domain.Intent{Kind: domain.IntentNo}
		}
		return domain.Unclassified()

	case domain.GateYesNoMaybe:
		switch norm {
		case "yes":
			return domain.Intent{Kind: domain.IntentYes}
		case "no":
			return domain.Intent{Kind: domain.IntentNo}
		case "maybe":
			return domain.Intent{Kind: domain.IntentMaybe}
		}
		return domain.Unclassified()

	case domain.GateMenu:
		if def.MenuWorkTypes {
			return classifyWorkType(norm)
		}
		if def.MenuMethods {
			return classifyMethod(workType, norm)
		}
		return domain.Unclassified()

	case domain.GateFreeText:
		// Open steps pass the raw text through verbatim as AI context.
		if norm == "" {
			return domain.Unclassified()
		}
		return domain.Intent{Kind: domain.IntentFreeText, Text: raw}
	}
	return domain.Unclassified()
}

// classifyWorkType matches the fixed work-type labels, with numeric
// shorthand ("1", "2", "3") as an alias for menu position.
func classifyWorkType(norm string) domain.Intent {
	options := domain.WorkTypes()
	if idx, ok := menuIndex(norm, len(options)); ok {
		return domain.Intent{Kind: domain.IntentWorkType, WorkType: options[idx]}
	}
	for _, wt := range options {
		if norm == strings.ToLower(wt.Label()) {
			return domain.Intent{Kind: domain.IntentWorkType, WorkType: wt}
		}
	}
	return domain.Unclassified()
}

// classifyMethod matches against the method set valid for the current
// work type. A method name outside that set stays unclassified, which
// re-presents the menu.
func classifyMethod(workType domain.WorkType, norm string) domain.Intent {
	options := domain.MethodsFor(workType)
	if idx, ok := menuIndex(norm, len(options)); ok {
		return domain.Intent{Kind: domain.IntentMethod, Method: options[idx]}
	}
	for _, m := range options {
		if norm == strings.ToLower(m.Label()) || norm == strings.ToLower(string(m)) {
			return domain.Intent{Kind: domain.IntentMethod, Method: m}
		}
	}
	return domain.Unclassified()
}

func menuIndex(norm string, size int) (int, bool) {
	n, err := strconv.Atoi(norm)
	if err != nil || n < 1 || n > size {
		return 0, false
	}
	return n - 1, true
}
