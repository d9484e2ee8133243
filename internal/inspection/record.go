// Package inspection holds the data model shared by every stage of the weekly
// report pipeline.
package inspection

import "slices"

// RawRow is one data row of the report table as parsed, before any mapping to
// named fields. Cells lines up with Headers one to one.
type RawRow struct {
	Headers []string
	Cells   []string
	// DetailLink is the absolute url of the inspection details page, nil when the
	// row had no link cell or the link could not be resolved.
	DetailLink *string
}

// Record is a single inspection after assembly.
//
// Stages never mutate a Record they received, they return updated copies.
type Record struct {
	BusinessName   string
	Address        string
	City           string
	PermitType     string
	PermitID       string
	Grade          string
	InspectionDate string

	// RawPriorityViolations is the violation count as it appears in the report.
	RawPriorityViolations string
	// PriorityViolations is nil until classification, and stays nil when the raw
	// value is not a number.
	PriorityViolations *int

	// MailingAddress is the address with city and state appended, set during classification.
	MailingAddress string
	DetailLink     *string

	Latitude  *float64
	Longitude *float64

	// Source holds the row's cells in the canonical header order of the run.
	Source []string
}

// Clone returns a copy of the record that shares no slices with r.
func (r Record) Clone() Record {
	r.Source = slices.Clone(r.Source)
	return r
}

// HasCoordinates reports whether the record was successfully geocoded.
func (r Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Summary is the ordered list of human readable lines describing a run.
type Summary []string
