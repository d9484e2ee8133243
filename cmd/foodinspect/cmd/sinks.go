package cmd

import (
	"fmt"
	"foodinspect/internal/components/chrono"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/db"
	"foodinspect/internal/publish"
	"foodinspect/pkg/restyutil"
	"os"
)

type SinksConfig struct {
	// Sheets is used when spreadsheet_id is set.
	Sheets publish.SheetsOptions `json:"sheets"`
	// Email is used when addr is set.
	Email  publish.EmailOptions `json:"email"`
	SQLite bool                 `json:"sqlite"`
	Table  bool                 `json:"table"`
}

func DefaultSinksConfig() SinksConfig {
	return SinksConfig{
		Sheets: publish.DefaultSheetsOptions(),
	}
}

// InitPublisher builds a publisher over every enabled sink, makeTx may be nil
// when there is no database.
func InitPublisher(
	cfg SinksConfig,
	makeTx db.MakeTx,
	time chrono.API,
	tel telemetry.API,
	output restyutil.InstrumentOutput,
) (publish.Publisher, error) {
	var sinks []publish.Sink
	if cfg.Sheets.SpreadsheetId != "" {
		sinks = append(sinks, publish.NewSheetsSink(cfg.Sheets, tel, output))
	}
	if cfg.SQLite {
		if makeTx == nil {
			return publish.Publisher{}, fmt.Errorf("sinks.sqlite requires the archive database")
		}
		sinks = append(sinks, publish.NewSQLiteSink(makeTx, time))
	}
	if cfg.Email.Addr != "" {
		sinks = append(sinks, publish.NewEmailSink(cfg.Email))
	}
	if cfg.Table || len(sinks) == 0 {
		sinks = append(sinks, publish.NewTableSink(os.Stdout))
	}
	return publish.NewPublisher(tel, sinks...), nil
}
