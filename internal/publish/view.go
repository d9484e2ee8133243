// Package publish builds the named views of a run and writes them to sinks.
package publish

import (
	"fmt"
	"foodinspect/internal/classify"
	"foodinspect/internal/inspection"
	"slices"
	"strconv"
)

const (
	ViewTopViolators = "topViolators"
	ViewSummary      = "Summary"
)

// TopViolatorsHeader is the fixed header of the topViolators view.
var TopViolatorsHeader = []string{
	"Business Name",
	"latitude",
	"longitude",
	"Address",
	"Inspection date",
	"Priority Violation",
}

// View is one named grid. Header is written as the first row, unless the view
// is headerless, in which case Rows is the whole grid.
type View struct {
	Name       string
	Header     []string
	Headerless bool
	Rows       [][]string
}

// Grid returns the rows to write, header first.
func (v View) Grid() [][]string {
	if v.Headerless {
		return v.Rows
	}
	grid := make([][]string, 0, len(v.Rows)+1)
	grid = append(grid, v.Header)
	return append(grid, v.Rows...)
}

type ViewSet []View

// Get returns the view with the given name.
func (s ViewSet) Get(name string) (View, bool) {
	idx := slices.IndexFunc(s, func(v View) bool { return v.Name == name })
	if idx < 0 {
		return View{}, false
	}
	return s[idx], true
}

func (s ViewSet) Names() []string {
	names := make([]string, len(s))
	for i, v := range s {
		names[i] = v.Name
	}
	return names
}

func summaryView(summary inspection.Summary) View {
	rows := make([][]string, len(summary))
	for i, line := range summary {
		rows[i] = []string{line}
	}
	return View{Name: ViewSummary, Headerless: true, Rows: rows}
}

// SummaryOnly is the view set of a run where nothing qualified.
func SummaryOnly(summary inspection.Summary) ViewSet {
	return ViewSet{summaryView(summary)}
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func topViolatorRow(r inspection.Record) []string {
	violations := r.RawPriorityViolations
	if r.PriorityViolations != nil {
		violations = strconv.Itoa(*r.PriorityViolations)
	}
	return []string{
		r.BusinessName,
		formatCoordinate(r.Latitude),
		formatCoordinate(r.Longitude),
		r.MailingAddress,
		r.InspectionDate,
		fmt.Sprintf("Priority violations: %s", violations),
	}
}

// regionRow returns the source row of r in the schema's column order with the
// address replaced by the mailing address.
func regionRow(r inspection.Record, schema inspection.Schema) []string {
	row := make([]string, len(schema.Headers))
	copy(row, r.Source)
	if idx, ok := schema.Index(inspection.FieldAddress); ok && idx < len(row) {
		row[idx] = r.MailingAddress
	}
	return row
}

// BuildViews builds every view of a run: topViolators from the enriched
// qualifying records, one view per region, and the summary.
func BuildViews(c classify.Classification, enriched []inspection.Record, schema inspection.Schema) ViewSet {
	top := View{
		Name:   ViewTopViolators,
		Header: slices.Clone(TopViolatorsHeader),
		Rows:   [][]string{},
	}
	for _, r := range enriched {
		top.Rows = append(top.Rows, topViolatorRow(r))
	}

	views := ViewSet{top}
	for _, region := range c.Regions {
		view := View{
			Name:   region.Region.View,
			Header: slices.Clone(schema.Headers),
			Rows:   [][]string{},
		}
		for _, r := range region.Records {
			view.Rows = append(view.Rows, regionRow(r, schema))
		}
		views = append(views, view)
	}

	return append(views, summaryView(c.Summary))
}
