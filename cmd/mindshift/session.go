package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mindshift "github.com/mindshifting/mindshift"
	"github.com/mindshifting/mindshift/internal/cli"
	"github.com/mindshifting/mindshift/internal/config"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored sessions",
	Long:  `List, inspect, and remove sessions from the configured store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		engine, cleanup := getEngine(cmd)
		defer func() { _ = cleanup() }()

		sessions, err := engine.Sessions().List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No stored sessions found.")
			return
		}

		fmt.Println("Stored Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		engine, cleanup := getEngine(cmd)
		defer func() { _ = cleanup() }()

		state, err := engine.State(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling state: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, cleanup := getEngine(cmd)
		defer func() { _ = cleanup() }()
		hasError := false

		for _, sessionID := range args {
			if err := engine.Sessions().Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

func getEngine(cmd *cobra.Command) (*mindshift.Engine, func() error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := cli.NewLogger("off")
	engine, cleanup, err := cli.BuildEngine(cfg, logger)
	if err != nil {
		fmt.Printf("Error initializing engine: %v\n", err)
		os.Exit(1)
	}
	return engine, cleanup
}
