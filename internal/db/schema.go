package db

import (
	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Outcome is the final state of a run.
type Outcome string

const (
	OUTCOME_RUNNING      Outcome = "running"
	OUTCOME_PUBLISHED    Outcome = "published"
	OUTCOME_SUMMARY_ONLY Outcome = "summary_only"
	OUTCOME_FAILED       Outcome = "failed"
)
