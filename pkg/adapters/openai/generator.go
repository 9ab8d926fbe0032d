// Package openai implements the generative fallback adapter on the
// OpenAI Responses API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/ports"
)

// DefaultModel is used unless overridden.
const DefaultModel = "gpt-4o-mini"

const maxReplyTokens = 1024

// Pricing is USD per million tokens, used for per-turn cost reporting.
type Pricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

var defaultPricing = Pricing{InputPerMTok: 0.15, OutputPerMTok: 0.60}

// Generator implements ports.Generator on the OpenAI API.
type Generator struct {
	client  openai.Client
	model   string
	pricing Pricing
}

// Option configures the Generator.
type Option func(*Generator)

// WithModel overrides the model.
func WithModel(model string) Option {
	return func(g *Generator) { g.model = model }
}

// WithPricing overrides the cost table used for reporting.
func WithPricing(p Pricing) Option {
	return func(g *Generator) { g.pricing = p }
}

// New creates a Generator with the given API key.
func New(apiKey string, opts ...Option) *Generator {
	g := &Generator{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   DefaultModel,
		pricing: defaultPricing,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ModelName identifies the underlying model.
func (g *Generator) ModelName() string {
	return g.model
}

// Generate produces a reply from the session transcript and the
// step-specific system prompt. The Responses API takes a single input
// string, so the transcript is flattened into a labeled dialogue.
func (g *Generator) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResult, error) {
	input := flattenTranscript(req)

	resp, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           g.model,
		MaxOutputTokens: openai.Int(int64(maxReplyTokens)),
		Input:           responses.ResponseNewParamsInputUnion{OfString: openai.String(input)},
	})
	if err != nil {
		return ports.GenerateResult{}, fmt.Errorf("openai request failed: %w", err)
	}

	text := resp.OutputText()
	if text == "" {
		return ports.GenerateResult{}, fmt.Errorf("openai returned an empty response")
	}

	tokens := int(resp.Usage.InputTokens + resp.Usage.OutputTokens)
	cost := float64(resp.Usage.InputTokens)/1e6*g.pricing.InputPerMTok +
		float64(resp.Usage.OutputTokens)/1e6*g.pricing.OutputPerMTok

	return ports.GenerateResult{Text: text, CostUSD: cost, Tokens: tokens}, nil
}

// flattenTranscript renders the dialogue as labeled lines, ending on an
// open practitioner turn for the model to complete.
func flattenTranscript(req ports.GenerateRequest) string {
	var input string
	if req.SystemPrompt != "" {
		input = fmt.Sprintf("System: %s\n\n", req.SystemPrompt)
	}
	for _, entry := range req.Transcript {
		switch entry.Speaker {
		case domain.SpeakerSystem:
			input += fmt.Sprintf("Practitioner: %s\n\n", entry.Text)
		case domain.SpeakerUser:
			input += fmt.Sprintf("User: %s\n\n", entry.Text)
		}
	}
	return input + "Practitioner:"
}
