package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"foodinspect/internal/components/assert"
	"foodinspect/internal/components/chrono"
	"foodinspect/internal/db"
)

// SQLiteSink stores the latest grid of every view in the database.
type SQLiteSink struct {
	makeTx db.MakeTx
	time   chrono.API
}

func NewSQLiteSink(makeTx db.MakeTx, time chrono.API) SQLiteSink {
	assert.NotNil(makeTx)
	assert.NotNil(time)
	return SQLiteSink{makeTx: makeTx, time: time}
}

func (s SQLiteSink) Name() string {
	return "sqlite"
}

func (s SQLiteSink) Write(ctx context.Context, view View) error {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return fmt.Errorf("make tx: %w", err)
	}
	defer discard()

	err = tx.DeleteViewRows(ctx, view.Name)
	if err != nil {
		return fmt.Errorf("delete rows: %w", err)
	}
	err = tx.DeleteView(ctx, view.Name)
	if err != nil {
		return fmt.Errorf("delete view: %w", err)
	}

	grid := view.Grid()
	err = tx.CreateView(ctx, db.CreateViewParams{
		Name:      view.Name,
		WrittenAt: s.time.Now().Unix(),
		RowCount:  int64(len(grid)),
	})
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}

	for i, row := range grid {
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal row %d: %w", i, err)
		}
		err = tx.CreateViewRow(ctx, db.CreateViewRowParams{
			ViewName: view.Name,
			Position: int64(i),
			Cells:    string(cells),
		})
		if err != nil {
			return fmt.Errorf("create row %d: %w", i, err)
		}
	}

	return commit()
}

// ReadView returns the grid stored under name.
func ReadView(ctx context.Context, qry *db.Queries, name string) ([][]string, error) {
	rows, err := qry.GetViewRows(ctx, name)
	if err != nil {
		return nil, err
	}
	grid := make([][]string, len(rows))
	for i, row := range rows {
		err := json.Unmarshal([]byte(row), &grid[i])
		if err != nil {
			return nil, fmt.Errorf("unmarshal row %d: %w", i, err)
		}
	}
	return grid, nil
}
