package cmd

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sprintsim",
	Short: "Discrete-event simulator for sprint, issue and worklog workflows",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := viper.GetString("log")
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig lets SPRINTSIM_* environment variables stand in for flags.
func initConfig() {
	viper.SetEnvPrefix("SPRINTSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// bindFlag exposes a command flag through viper under its own name.
func bindFlag(cmd *cobra.Command, name string) {
	_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().String("scenario", "", "Scenario YAML file (empty = built-in default scenario)")
	rootCmd.PersistentFlags().String("db", "", "SQLite tracker database path (empty = in-memory tracker)")
	for _, name := range []string{"log", "scenario", "db"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}
