// Package archive keeps the page snapshots of every run so a run can be
// replayed offline.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"foodinspect/internal/components/assert"
	"foodinspect/internal/components/chrono"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/db"
)

const (
	report_db_query = "db.query"
)

// ErrRunNotFound is returned for a run id the archive does not have.
var ErrRunNotFound = errors.New("run not found")

type Archive struct {
	db     *db.Queries
	makeTx db.MakeTx
	time   chrono.API
	tel    telemetry.API
}

func NewArchive(
	db *db.Queries,
	makeTx db.MakeTx,
	time chrono.API,
	tel telemetry.API,
) Archive {
	assert.NotNil(db)
	assert.NotNil(makeTx)
	assert.NotNil(time)
	assert.NotNil(tel)

	return Archive{
		db:     db,
		makeTx: makeTx,
		time:   time,
		tel:    telemetry.NewScopedAPI("archive", tel),
	}
}

// StartRun records the start of a run for the given report date.
func (a Archive) StartRun(ctx context.Context, targetDate string) (int64, error) {
	param := db.CreateRunParams{
		TargetDate: targetDate,
		StartedAt:  a.time.Now().Unix(),
	}
	id, err := a.db.CreateRun(ctx, param)
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "CreateRun", param)
		return 0, err
	}
	a.tel.ReportDebug("start run", id, targetDate)
	return id, nil
}

// SaveSnapshot stores the markup of one page of a run.
func (a Archive) SaveSnapshot(ctx context.Context, runId int64, page int, html string) error {
	err := a.db.CreateSnapshot(ctx, db.CreateSnapshotParams{
		RunID: runId,
		Page:  int64(page),
		Html:  html,
	})
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "CreateSnapshot", runId, page)
		return err
	}
	return nil
}

type RunResult struct {
	Outcome db.Outcome
	Pages   int
	Records int
	Message string
}

func (a Archive) FinishRun(ctx context.Context, runId int64, result RunResult) error {
	param := db.FinishRunParams{
		ID: runId,
		FinishedAt: sql.NullInt64{
			Int64: a.time.Now().Unix(),
			Valid: true,
		},
		Outcome: string(result.Outcome),
		Pages:   int64(result.Pages),
		Records: int64(result.Records),
		Message: result.Message,
	}
	err := a.db.FinishRun(ctx, param)
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "FinishRun", param)
		return err
	}
	return nil
}

func (a Archive) Run(ctx context.Context, runId int64) (db.Run, error) {
	run, err := a.db.GetRun(ctx, runId)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, runId)
	}
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "GetRun", runId)
		return db.Run{}, err
	}
	return run, nil
}

// ListRuns returns the most recent runs first.
func (a Archive) ListRuns(ctx context.Context, limit int) ([]db.Run, error) {
	runs, err := a.db.ListRuns(ctx, int64(limit))
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "ListRuns", limit)
		return nil, err
	}
	return runs, nil
}

// Snapshots returns the archived pages of a run in page order.
func (a Archive) Snapshots(ctx context.Context, runId int64) ([]string, error) {
	rows, err := a.db.GetRunSnapshots(ctx, runId)
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "GetRunSnapshots", runId)
		return nil, err
	}
	pages := make([]string, len(rows))
	for i, row := range rows {
		pages[i] = row.Html
	}
	return pages, nil
}
