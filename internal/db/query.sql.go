// source: query.sql

package db

import (
	"context"
	"database/sql"
)

const createRun = `-- name: CreateRun :one
insert into run(target_date, started_at) values (?, ?)
returning id
`

type CreateRunParams struct {
	TargetDate string
	StartedAt  int64
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createRun, arg.TargetDate, arg.StartedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const finishRun = `-- name: FinishRun :exec
update run set
    finished_at = ?,
    outcome = ?,
    pages = ?,
    records = ?,
    message = ?
where id = ?
`

type FinishRunParams struct {
	FinishedAt sql.NullInt64
	Outcome    string
	Pages      int64
	Records    int64
	Message    string
	ID         int64
}

func (q *Queries) FinishRun(ctx context.Context, arg FinishRunParams) error {
	_, err := q.db.ExecContext(ctx, finishRun,
		arg.FinishedAt,
		arg.Outcome,
		arg.Pages,
		arg.Records,
		arg.Message,
		arg.ID,
	)
	return err
}

const getRun = `-- name: GetRun :one
select id, target_date, started_at, finished_at, outcome, pages, records, message from run where id = ?
`

func (q *Queries) GetRun(ctx context.Context, id int64) (Run, error) {
	row := q.db.QueryRowContext(ctx, getRun, id)
	var i Run
	err := row.Scan(
		&i.ID,
		&i.TargetDate,
		&i.StartedAt,
		&i.FinishedAt,
		&i.Outcome,
		&i.Pages,
		&i.Records,
		&i.Message,
	)
	return i, err
}

const listRuns = `-- name: ListRuns :many
select id, target_date, started_at, finished_at, outcome, pages, records, message from run order by id desc limit ?
`

func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var i Run
		if err := rows.Scan(
			&i.ID,
			&i.TargetDate,
			&i.StartedAt,
			&i.FinishedAt,
			&i.Outcome,
			&i.Pages,
			&i.Records,
			&i.Message,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createSnapshot = `-- name: CreateSnapshot :exec
insert into snapshot(run_id, page, html) values (?, ?, ?)
`

type CreateSnapshotParams struct {
	RunID int64
	Page  int64
	Html  string
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, createSnapshot, arg.RunID, arg.Page, arg.Html)
	return err
}

const getRunSnapshots = `-- name: GetRunSnapshots :many
select run_id, page, html from snapshot where run_id = ? order by page asc
`

func (q *Queries) GetRunSnapshots(ctx context.Context, runID int64) ([]Snapshot, error) {
	rows, err := q.db.QueryContext(ctx, getRunSnapshots, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Snapshot
	for rows.Next() {
		var i Snapshot
		if err := rows.Scan(&i.RunID, &i.Page, &i.Html); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteViewRows = `-- name: DeleteViewRows :exec
delete from published_row where view_name = ?
`

func (q *Queries) DeleteViewRows(ctx context.Context, viewName string) error {
	_, err := q.db.ExecContext(ctx, deleteViewRows, viewName)
	return err
}

const deleteView = `-- name: DeleteView :exec
delete from published_view where name = ?
`

func (q *Queries) DeleteView(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, deleteView, name)
	return err
}

const createView = `-- name: CreateView :exec
insert into published_view(name, written_at, row_count) values (?, ?, ?)
`

type CreateViewParams struct {
	Name      string
	WrittenAt int64
	RowCount  int64
}

func (q *Queries) CreateView(ctx context.Context, arg CreateViewParams) error {
	_, err := q.db.ExecContext(ctx, createView, arg.Name, arg.WrittenAt, arg.RowCount)
	return err
}

const createViewRow = `-- name: CreateViewRow :exec
insert into published_row(view_name, position, cells) values (?, ?, ?)
`

type CreateViewRowParams struct {
	ViewName string
	Position int64
	Cells    string
}

func (q *Queries) CreateViewRow(ctx context.Context, arg CreateViewRowParams) error {
	_, err := q.db.ExecContext(ctx, createViewRow, arg.ViewName, arg.Position, arg.Cells)
	return err
}

const getViewRows = `-- name: GetViewRows :many
select cells from published_row where view_name = ? order by position asc
`

func (q *Queries) GetViewRows(ctx context.Context, viewName string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getViewRows, viewName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		items = append(items, cells)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
