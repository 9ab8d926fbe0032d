package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindshifting/mindshift/internal/presentation/graph"
	"github.com/mindshifting/mindshift/pkg/script"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the protocol step graph",
	Long:  `Outputs a Mermaid diagram (graph TD) of the treatment protocol. With --session, overlays the session's visited and current steps.`,
	Run: func(cmd *cobra.Command, args []string) {
		sessionID, _ := cmd.Flags().GetString("session")

		var overlay *graph.Overlay
		if sessionID != "" {
			engine, cleanup := getEngine(cmd)
			defer func() { _ = cleanup() }()

			state, err := engine.State(cmd.Context(), sessionID)
			if err != nil {
				fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
				os.Exit(1)
			}
			overlay = graph.SessionOverlay(state)
		}

		fmt.Print(graph.GenerateMermaid(script.New(), overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Overlay a session's progress on the graph")
}
