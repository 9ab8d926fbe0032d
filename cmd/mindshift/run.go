package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindshifting/mindshift/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive treatment session",
	Long: `Starts or resumes a treatment session on the terminal. Type /undo to
go back one step, /quit to leave the session resumable.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		sessionID, _ := cmd.Flags().GetString("session")
		userID, _ := cmd.Flags().GetString("user")
		firstName, _ := cmd.Flags().GetString("name")
		plain, _ := cmd.Flags().GetBool("plain")

		opts := cli.RunOptions{
			ConfigPath: configPath,
			SessionID:  sessionID,
			UserID:     userID,
			FirstName:  firstName,
			Plain:      plain,
		}
		if err := cli.RunSession(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to resume (default: a new random ID)")
	runCmd.Flags().StringP("user", "u", "", "User ID owning the session")
	runCmd.Flags().StringP("name", "n", "", "First name for personalized prompts")
	runCmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")

	// Make 'run' the default if no command is provided.
	rootCmd.Run = runCmd.Run
}
