package middleware

import (
	"context"
	"regexp"

	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/ports"
)

// DefaultPIIPatterns cover the identifiers users most commonly blurt
// out mid-session: email addresses and phone numbers.
var DefaultPIIPatterns = []string{
	`[\w.+-]+@[\w-]+\.[\w.]+`,
	`\+?\d[\d\s().-]{7,}\d`,
}

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks matches of the
// given regular expressions inside transcript text before it is
// persisted. Masking happens at rest only; the in-memory state the
// engine works with is left untouched.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	// Clone to avoid side effects on the state the engine still holds.
	cloned := state.Clone()

	maskTranscript(cloned.Transcript, m.patterns)
	for i := range cloned.History {
		maskTranscript(cloned.History[i].Transcript, m.patterns)
	}

	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskTranscript(entries []domain.TranscriptEntry, patterns []*regexp.Regexp) {
	for i := range entries {
		for _, p := range patterns {
			entries[i].Text = p.ReplaceAllString(entries[i].Text, "***")
		}
	}
}
