package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attune",
	Short: "Just-in-time adaptive intervention engine",
	Long: "Attune watches how a learner moves through content and answers questions,\n" +
		"detects doom-scrolling and false confidence, and emits targeted\n" +
		"interventions instead of forcing a full content redo.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (YAML)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log (overrides ATTUNE_DB)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}
