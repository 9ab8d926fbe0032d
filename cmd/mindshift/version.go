package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	mindshift "github.com/mindshifting/mindshift"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mindshift",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mindshift version %s\n", strings.TrimSpace(mindshift.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
