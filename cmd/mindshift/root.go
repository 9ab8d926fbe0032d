package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mindshift",
	Short: "Mind Shifting treatment session engine",
	Long: `mindshift runs guided Mind Shifting treatment sessions: a scripted
protocol state machine with selective AI assistance for the few steps
that need a personalized acknowledgment.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "mindshift.yaml", "Path to the configuration file")
}
