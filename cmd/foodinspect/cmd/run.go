package cmd

import (
	"context"
	"foodinspect/internal/pipeline"
	"foodinspect/pkg/serviceutil"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var runDate string

func init() {
	runCmd.Flags().StringVar(&runDate, "date", "", "Report date as MM-DD-YYYY, defaults to the current target date.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrapes, classifies and publishes the weekly report once.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := serviceutil.SignalContext()
		defer stop()
		app := MustInitApp(ctx)
		defer app.Close()

		if runDate != "" {
			_, err := time.Parse(pipeline.TargetDateLayout, runDate)
			if err != nil {
				serviceutil.Fatal("parse --date", err)
			}
		}

		p, err := app.LivePipeline()
		if err != nil {
			serviceutil.Fatal("init pipeline", err)
		}
		err = runOnce(ctx, p, runDate)
		if err != nil {
			app.Close()
			serviceutil.Fatal("run", err)
		}
	},
}

// runOnce runs p for targetDate, or for the current target date when it is
// empty, and logs the outcome.
func runOnce(ctx context.Context, p pipeline.Pipeline, targetDate string) error {
	var (
		result pipeline.Result
		err    error
	)
	if targetDate == "" {
		result, err = p.Run(ctx)
	} else {
		result, err = p.RunFor(ctx, targetDate)
	}
	logResult(result)
	return err
}

func logResult(result pipeline.Result) {
	for _, line := range result.Classification.Summary {
		slog.Info(line)
	}
	slog.Info(
		"run finished",
		"run", result.RunId,
		"target_date", result.TargetDate,
		"stop", result.Stop.State.String(),
		"pages", result.Assembly.Pages,
		"records", len(result.Assembly.Records),
		"dropped", result.Assembly.Dropped,
		"qualifying", len(result.Classification.Qualifying),
		"geocode_misses", len(result.Misses),
		"summary_only", result.SummaryOnly,
		"written", len(result.Publication.Written),
		"failed", len(result.Publication.Failures),
	)
}
