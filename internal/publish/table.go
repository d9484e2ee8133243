package publish

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func renderTable(view View) table.Writer {
	t := table.NewWriter()
	t.SetTitle(view.Name)
	t.SetStyle(table.StyleLight)
	if !view.Headerless {
		t.AppendHeader(toRow(view.Header))
	}
	for _, row := range view.Rows {
		t.AppendRow(toRow(row))
	}
	return t
}

// TableSink prints every view as a text table.
type TableSink struct {
	out io.Writer
}

func NewTableSink(out io.Writer) TableSink {
	return TableSink{out: out}
}

func (s TableSink) Name() string {
	return "table"
}

func (s TableSink) Write(ctx context.Context, view View) error {
	_, err := fmt.Fprintln(s.out, renderTable(view).Render())
	return err
}
