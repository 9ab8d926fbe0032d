package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Practitioner prompts are plain prose but the generated acknowledgments
// occasionally carry emphasis, so everything goes through the renderer.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
