package db

import (
	"database/sql"
)

type Run struct {
	ID         int64
	TargetDate string
	StartedAt  int64
	FinishedAt sql.NullInt64
	Outcome    string
	Pages      int64
	Records    int64
	Message    string
}

type Snapshot struct {
	RunID int64
	Page  int64
	Html  string
}

type View struct {
	Name      string
	WrittenAt int64
	RowCount  int64
}

type ViewRow struct {
	ViewName string
	Position int64
	Cells    string
}
