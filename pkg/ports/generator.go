package ports

import (
	"context"

	"github.com/mindshifting/mindshift/pkg/domain"
)

// GenerateRequest carries the conversation context for one fallback
// generation. The transcript is the full session so far; UserInput is
// the raw text of the current turn.
type GenerateRequest struct {
	SystemPrompt string
	Transcript   []domain.TranscriptEntry
	UserInput    string
}

// GenerateResult is the adapter's reply plus its cost accounting.
type GenerateResult struct {
	Text    string
	CostUSD float64
	Tokens  int
}

// Generator produces a natural-language reply when the script table
// has no deterministic answer. Implementations may fail or time out;
// the engine recovers with a scripted retry message.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)

	// ModelName identifies the underlying model, for logging.
	ModelName() string
}
