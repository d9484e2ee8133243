package cmd

import (
	"fmt"
	"foodinspect/pkg/serviceutil"

	"github.com/spf13/cobra"
)

var replayRunId int64

func init() {
	replayCmd.Flags().Int64Var(&replayRunId, "run", 0, "Id of the archived run to replay.")
	replayCmd.MarkFlagRequired("run")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Classifies and publishes the archived pages of a previous run without touching the live report.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := serviceutil.SignalContext()
		defer stop()
		app := MustInitApp(ctx)
		defer app.Close()

		open, err := app.ReplayOpener(replayRunId)
		if err != nil {
			serviceutil.Fatal("replay", err)
		}
		run, err := app.Archive.Archive.Run(ctx, replayRunId)
		if err != nil {
			serviceutil.Fatal(fmt.Sprintf("find run %d", replayRunId), err)
		}

		p, err := app.Pipeline(open, false)
		if err != nil {
			serviceutil.Fatal("init pipeline", err)
		}
		err = runOnce(ctx, p, run.TargetDate)
		if err != nil {
			app.Close()
			serviceutil.Fatal("replay", err)
		}
	},
}
