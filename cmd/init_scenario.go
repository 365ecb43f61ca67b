package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sprint-sim/sprint-sim/sim/scenario"
)

var initScenarioCmd = &cobra.Command{
	Use:   "init-scenario",
	Short: "Print the built-in scenario as YAML",
	Long:  "Write the default scenario to stdout as a starting point for a custom scenario file.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := scenario.Default().Encode(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Failed to write scenario: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(initScenarioCmd)
}
