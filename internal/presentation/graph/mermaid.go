package graph

import (
	"fmt"
	"strings"

	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/script"
)

// Overlay contains dynamic session data to visualize on the graph.
type Overlay struct {
	VisitedSteps []domain.Step
	CurrentStep  domain.Step
}

// GenerateMermaid produces a Mermaid flowchart from the script table.
// It applies semantic styling:
// - Entry step: ((Circle))
// - Gate (yes/no, yes/no/maybe): {Diamond}
// - Menu (work type / method selection): [/Parallelogram/]
// - Terminal: [[Subroutine]]
// - Free text: [Rectangle]
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(table *script.Table, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, def := range table.Steps() {
		id := string(def.ID)
		opener, closer := "[", "]"
		switch {
		case def.ID == domain.StepMindShiftingExplanation:
			opener, closer = "((", "))"
		case def.Terminal:
			opener, closer = "[[", "]]"
		case def.MenuWorkTypes || def.MenuMethods:
			opener, closer = "[/", "/]"
		case def.Gate == domain.GateYesNo || def.Gate == domain.GateYesNoMaybe:
			opener, closer = "{", "}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, id, closer))
	}

	for _, edge := range table.Edges() {
		arrow := "-->"
		if edge.Label != "" {
			// Escape double quotes for the Mermaid label.
			label := strings.ReplaceAll(edge.Label, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", edge.From, arrow, edge.To))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high-contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[domain.Step]bool)
		for _, step := range overlay.VisitedSteps {
			if step != "" && !visitedSet[step] {
				visitedSet[step] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", step))
			}
		}
		if overlay.CurrentStep != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", overlay.CurrentStep))
		}
	}

	return sb.String()
}

// SessionOverlay derives an overlay from a session state: every step
// recorded in the undo history is marked visited, the current step is
// highlighted.
func SessionOverlay(state *domain.State) *Overlay {
	o := &Overlay{CurrentStep: state.CurrentStep}
	for _, entry := range state.History {
		o.VisitedSteps = append(o.VisitedSteps, entry.CurrentStep)
	}
	return o
}
