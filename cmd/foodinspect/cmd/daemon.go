package cmd

import (
	"foodinspect/internal/components/chrono"
	"foodinspect/internal/components/telemetry"
	"foodinspect/pkg/serviceutil"
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Runs the weekly report on the configured cron schedule until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := serviceutil.SignalContext()
		defer stop()
		app := MustInitApp(ctx)
		defer app.Close()

		telemetry.InstrumentPerfStats(ctx, app.Tel)

		p, err := app.LivePipeline()
		if err != nil {
			serviceutil.Fatal("init pipeline", err)
		}

		var cron chrono.CronAPI = chrono.NewStandardCron(app.Time, app.Tel)
		err = cron.Cron(app.Config.Schedule.Cron, func() {
			err := runOnce(ctx, p, "")
			if err != nil {
				app.Tel.ReportBroken("daemon.tick", err)
			}
			slog.Info("next run scheduled", "at", cron.Next())
		})
		if err != nil {
			serviceutil.Fatal("schedule run", err)
		}

		slog.Info("daemon started", "schedule", app.Config.Schedule.Cron, "next", cron.Next())
		<-ctx.Done()
		cron.Stop()
	},
}
