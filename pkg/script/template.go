package script

import "strings"

// Vars holds the session variables substituted into scripted replies.
type Vars struct {
	FirstName string
	Method    string
	WorkType  string
}

// Render expands {{first_name}}, {{method}} and {{work_type}} markers.
// An empty first name renders as "there" so greetings stay natural.
func Render(tmpl string, v Vars) string {
	first := v.FirstName
	if first == "" {
		first = "there"
	}
	r := strings.NewReplacer(
		"{{first_name}}", first,
		"{{method}}", v.Method,
		"{{work_type}}", v.WorkType,
	)
	return r.Replace(tmpl)
}
