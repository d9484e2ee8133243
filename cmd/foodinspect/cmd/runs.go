package cmd

import (
	"foodinspect/pkg/serviceutil"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var runsLimit int

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to list.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Lists the most recent archived runs.",
	Run: func(cmd *cobra.Command, args []string) {
		app := MustInitApp(cmd.Context())
		defer app.Close()

		if app.Archive == nil {
			app.Close()
			serviceutil.Fatal("list runs", errArchiveDisabled)
		}
		runs, err := app.Archive.Archive.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			app.Close()
			serviceutil.Fatal("list runs", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Run", "Target date", "Started", "Outcome", "Pages", "Records", "Message"})

		for _, r := range runs {
			t.AppendRow(table.Row{
				r.ID,
				r.TargetDate,
				time.Unix(r.StartedAt, 0).In(app.Time.Location()).Format(time.DateTime),
				r.Outcome,
				r.Pages,
				r.Records,
				r.Message,
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
