package report

import (
	"errors"
	"fmt"
	"foodinspect/internal/components/assert"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/inspection"
	"slices"

	"github.com/antzucaro/matchr"
)

const (
	report_assembler_add    = "assembler.add"
	report_assembler_schema = "assembler.schema"
)

// Assembly is everything collected from the pages of one run.
type Assembly struct {
	Schema  inspection.Schema
	Records []inspection.Record
	// Dropped counts rows that could not provide a required field.
	Dropped int
	// Rejected holds the RowShapeErrors of every page and the
	// MissingFieldErrors of every dropped row.
	Rejected []error
	Drift    []*inspection.SchemaDriftError
	Pages    int
}

// Headers returns the canonical column order of the run, nil before the first page.
func (a Assembly) Headers() []string {
	return a.Schema.Headers
}

// Assembler combines extracted pages into a single record list. The headers
// of the first page fix the schema for the rest of the run.
type Assembler struct {
	columns  inspection.Columns
	tel      telemetry.API
	assembly Assembly
	fixed    bool
}

func NewAssembler(columns inspection.Columns, tel telemetry.API) *Assembler {
	assert.NotNil(tel)
	return &Assembler{
		columns: columns,
		tel:     telemetry.NewScopedAPI("report", tel),
	}
}

// Add maps the rows of page onto records. Schema drift is reported and
// returned but is not fatal, the page is still mapped with the schema of the first page.
func (a *Assembler) Add(page Page) error {
	a.assembly.Pages++
	pageNum := a.assembly.Pages
	a.assembly.Rejected = append(a.assembly.Rejected, page.Rejected...)

	var drift error
	if !a.fixed {
		a.fixSchema(page.Headers)
	} else if !slices.Equal(page.Headers, a.assembly.Schema.Headers) {
		err := &inspection.SchemaDriftError{
			Page:     pageNum,
			Expected: a.assembly.Schema.Headers,
			Got:      page.Headers,
		}
		a.tel.ReportWarning(report_assembler_add, err)
		a.assembly.Drift = append(a.assembly.Drift, err)
		drift = err
	}

	for i, row := range page.Rows {
		record, err := a.assembly.Schema.Record(row)
		if err != nil {
			var missing *inspection.MissingFieldError
			if errors.As(err, &missing) {
				missing.Page = pageNum
				missing.Row = i
			}
			a.tel.ReportDebug("dropping row", err)
			a.assembly.Dropped++
			a.assembly.Rejected = append(a.assembly.Rejected, err)
			continue
		}
		a.assembly.Records = append(a.assembly.Records, record)
	}

	a.tel.ReportCount(report_assembler_add, int64(len(a.assembly.Records)))
	return drift
}

func (a *Assembler) fixSchema(headers []string) {
	a.fixed = true
	a.assembly.Schema = inspection.NewSchema(headers, a.columns)

	for _, f := range a.assembly.Schema.Missing {
		name := a.columns.Name(f)
		hint, score := closestHeader(name, headers)
		if hint == "" {
			a.tel.ReportBroken(report_assembler_schema, fmt.Errorf("required column %q not in report", name))
			continue
		}
		a.tel.ReportBroken(
			report_assembler_schema,
			fmt.Errorf("required column %q not in report, closest is %q (%.2f)", name, hint, score),
		)
	}
}

func closestHeader(name string, headers []string) (string, float64) {
	var best string
	var bestScore float64
	for _, h := range headers {
		score := matchr.JaroWinkler(name, h, false)
		if score > bestScore {
			best = h
			bestScore = score
		}
	}
	return best, bestScore
}

// Result returns the assembly collected so far.
func (a *Assembler) Result() Assembly {
	return a.assembly
}
