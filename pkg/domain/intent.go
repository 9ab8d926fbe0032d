package domain

// IntentKind is the abstract meaning of user input relative to the
// current step's expected vocabulary.
type IntentKind string

const (
	IntentYes          IntentKind = "yes"
	IntentNo           IntentKind = "no"
	IntentMaybe        IntentKind = "maybe"
	IntentWorkType     IntentKind = "work_type"
	IntentMethod       IntentKind = "method"
	IntentFreeText     IntentKind = "free_text"
	IntentUnclassified IntentKind = "unclassified"
)

// Intent is the result of classifying raw text against a step. Only
// the field matching Kind is populated: WorkType for IntentWorkType,
// Method for IntentMethod, Text for IntentFreeText.
type Intent struct {
	Kind     IntentKind
	WorkType WorkType
	Method   Method
	Text     string
}

// Unclassified is the zero-value intent returned for input that does
// not match the step's vocabulary.
func Unclassified() Intent {
	return Intent{Kind: IntentUnclassified}
}
