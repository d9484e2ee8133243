package cmd

import (
	"fmt"
	"foodinspect/internal/components/telemetry"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "foodinspect",
	Short: "foodinspect scrapes the Maricopa County weekly food inspection report and publishes its views.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging/instrumentation.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "Path to the configuration file.")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
