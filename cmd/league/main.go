package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Version: "indev",
	Use:     "league",
	Short:   "Manages a sports league: teams, players, matches and tournaments",
}

func main() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(syncStatusCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
