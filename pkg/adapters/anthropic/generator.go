// Package anthropic implements the generative fallback adapter on the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/ports"
)

// DefaultModel is used unless overridden.
const DefaultModel = string(anthropic.ModelClaudeSonnet4_20250514)

const maxReplyTokens = 1024

// Reply temperature: warm but consistent.
const temperature = 0.4

// Pricing is USD per million tokens, used for per-turn cost reporting.
type Pricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

var defaultPricing = Pricing{InputPerMTok: 3.0, OutputPerMTok: 15.0}

// Generator implements ports.Generator on the Anthropic API.
type Generator struct {
	client  anthropic.Client
	model   anthropic.Model
	pricing Pricing
}

// Option configures the Generator.
type Option func(*Generator)

// WithModel overrides the model.
func WithModel(model string) Option {
	return func(g *Generator) { g.model = anthropic.Model(model) }
}

// WithPricing overrides the cost table used for reporting.
func WithPricing(p Pricing) Option {
	return func(g *Generator) { g.pricing = p }
}

// New creates a Generator with the given API key.
func New(apiKey string, opts ...Option) *Generator {
	g := &Generator{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   anthropic.Model(DefaultModel),
		pricing: defaultPricing,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ModelName identifies the underlying model.
func (g *Generator) ModelName() string {
	return string(g.model)
}

// Generate produces a reply from the session transcript and the
// step-specific system prompt.
func (g *Generator) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResult, error) {
	params := anthropic.MessageNewParams{
		Model:       g.model,
		Messages:    toMessages(req),
		MaxTokens:   maxReplyTokens,
		Temperature: anthropic.Float(temperature),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt, Type: "text"}}
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return ports.GenerateResult{}, fmt.Errorf("anthropic request failed: %w", err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return ports.GenerateResult{}, fmt.Errorf("anthropic returned an empty response")
	}

	var text string
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}

	tokens := int(resp.Usage.InputTokens + resp.Usage.OutputTokens)
	cost := float64(resp.Usage.InputTokens)/1e6*g.pricing.InputPerMTok +
		float64(resp.Usage.OutputTokens)/1e6*g.pricing.OutputPerMTok

	return ports.GenerateResult{Text: text, CostUSD: cost, Tokens: tokens}, nil
}

// toMessages maps the transcript to alternating API messages. The
// Anthropic API requires the sequence to start and end with a user
// message, so leading system utterances are folded into the first user
// turn and the raw input closes the sequence.
func toMessages(req ports.GenerateRequest) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	var pendingUser string

	flushUser := func() {
		if pendingUser == "" {
			return
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(pendingUser)))
		pendingUser = ""
	}

	for _, entry := range req.Transcript {
		switch entry.Speaker {
		case domain.SpeakerUser:
			if pendingUser != "" {
				pendingUser += "\n\n"
			}
			pendingUser += entry.Text
		case domain.SpeakerSystem:
			if len(messages) == 0 && pendingUser == "" {
				// Fold the opening script into the first user turn as
				// context; the API rejects a leading assistant message.
				pendingUser = "[Practitioner said earlier]\n" + entry.Text
				continue
			}
			flushUser()
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(entry.Text)))
		}
	}
	flushUser()

	if len(messages) == 0 || messages[len(messages)-1].Role != anthropic.MessageParamRoleUser {
		input := req.UserInput
		if input == "" {
			input = "(no input)"
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(input)))
	}
	return messages
}
