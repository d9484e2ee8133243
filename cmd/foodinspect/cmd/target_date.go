package cmd

import (
	"fmt"
	"foodinspect/internal/components/chrono"
	"foodinspect/internal/pipeline"
	"foodinspect/pkg/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(targetDateCmd)
}

var targetDateCmd = &cobra.Command{
	Use:   "target-date",
	Short: "Prints the report date a run started now would request.",
	Run: func(cmd *cobra.Command, args []string) {
		clock, err := chrono.NewStandardImpl()
		if err != nil {
			serviceutil.Fatal("init time", err)
		}
		fmt.Println(pipeline.TargetDate(clock.Now()))
	},
}
