package archive

import (
	"context"
	"errors"
	"foodinspect/internal/components/chrono"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/db"
	"foodinspect/internal/report"
	"foodinspect/pkg/migrations"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestArchive(t *testing.T) Archive {
	sqldb, err := migrations.OpenAndMigrateDB(db.Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	clock := chrono.FixedImpl{At: time.Date(2026, time.October, 16, 6, 0, 0, 0, time.UTC)}
	return NewArchive(db.New(sqldb), db.NewMakeTx(sqldb), clock, telemetry.NewTestAPI(t))
}

const (
	pageOne = `<table id="weekly-report-table"><thead><tr><th>Business Name</th></tr></thead>` +
		`<tbody><tr><td>Taco Shop</td></tr></tbody></table>` +
		`<div class="dataTables_paginate"><a id="weekly-report-table_next" class="next">Next</a></div>`
	pageTwo = `<table id="weekly-report-table"><thead><tr><th>Business Name</th></tr></thead>` +
		`<tbody><tr><td>Noodle Bar</td></tr></tbody></table>` +
		`<div class="dataTables_paginate"><a id="weekly-report-table_next" class="next">Next</a></div>`
)

func TestArchiveRunLifecycle(t *testing.T) {
	ctx := context.Background()
	archive := newTestArchive(t)

	first, err := archive.StartRun(ctx, "10-02-2026")
	require.NoError(t, err)
	require.NoError(t, archive.SaveSnapshot(ctx, first, 1, pageOne))
	require.NoError(t, archive.SaveSnapshot(ctx, first, 2, pageTwo))
	require.NoError(t, archive.FinishRun(ctx, first, RunResult{
		Outcome: db.OUTCOME_PUBLISHED,
		Pages:   2,
		Records: 2,
	}))

	second, err := archive.StartRun(ctx, "10-09-2026")
	require.NoError(t, err)

	run, err := archive.Run(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "10-02-2026", run.TargetDate)
	require.Equal(t, string(db.OUTCOME_PUBLISHED), run.Outcome)
	require.True(t, run.FinishedAt.Valid)
	require.Equal(t, int64(2), run.Pages)

	runs, err := archive.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, second, runs[0].ID)
	require.Equal(t, string(db.OUTCOME_RUNNING), runs[0].Outcome)
	require.False(t, runs[0].FinishedAt.Valid)

	pages, err := archive.Snapshots(ctx, first)
	require.NoError(t, err)
	require.Equal(t, []string{pageOne, pageTwo}, pages)

	_, err = archive.Run(ctx, 999)
	require.True(t, errors.Is(err, ErrRunNotFound))
}

func TestArchiveSessionReplays(t *testing.T) {
	ctx := context.Background()
	archive := newTestArchive(t)

	id, err := archive.StartRun(ctx, "10-02-2026")
	require.NoError(t, err)
	require.NoError(t, archive.SaveSnapshot(ctx, id, 1, pageOne))
	require.NoError(t, archive.SaveSnapshot(ctx, id, 2, pageTwo))

	session, err := archive.OpenSession(ctx, id, report.DefaultMarkup())
	require.NoError(t, err)
	defer session.Close()

	paginator := report.NewPaginator(session, report.DefaultPaginateOptions(), telemetry.NewTestAPI(t))

	var snapshots []string
	for {
		step := paginator.Next(ctx)
		if step.State != report.HasMore {
			require.Equal(t, report.Exhausted, step.State)
			require.Equal(t, report.ReasonDisabled, step.Reason)
			break
		}
		snapshots = append(snapshots, step.Snapshot)
	}
	require.Equal(t, []string{pageOne, pageTwo}, snapshots)
}

func TestArchiveSessionWithoutSnapshots(t *testing.T) {
	ctx := context.Background()
	archive := newTestArchive(t)

	id, err := archive.StartRun(ctx, "10-02-2026")
	require.NoError(t, err)

	_, err = archive.OpenSession(ctx, id, report.DefaultMarkup())
	require.Error(t, err)
}

func TestSessionRejectsPageWithoutTable(t *testing.T) {
	session := NewSession([]string{"<p>Please complete the CAPTCHA</p>"}, report.DefaultMarkup())
	err := session.WaitForTable(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, session.ClickNext(context.Background()), ErrPastLastPage)
}
