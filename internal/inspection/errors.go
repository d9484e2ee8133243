package inspection

import (
	"fmt"
	"strings"
	"time"
)

// StructuralError means markup the report always carries is absent, the run
// cannot continue.
type StructuralError struct {
	What string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("unexpected report structure: %s", e.What)
}

// RowShapeError is a row whose cell count does not match the header count.
type RowShapeError struct {
	Row     int
	Cells   int
	Headers int
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("row %d has %d cells, expected %d", e.Row, e.Cells, e.Headers)
}

// MissingFieldError is a row that cannot provide a required field.
type MissingFieldError struct {
	Page  int
	Row   int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("page %d row %d: missing field %q", e.Page, e.Row, e.Field)
}

// SchemaDriftError is a page whose headers differ from the first page of the run.
type SchemaDriftError struct {
	Page     int
	Expected []string
	Got      []string
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf(
		"page %d headers [%s] differ from [%s]",
		e.Page,
		strings.Join(e.Got, ", "),
		strings.Join(e.Expected, ", "),
	)
}

// NavigationError means a page transition could not be made.
type NavigationError struct {
	Attempts int
	Err      error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate to next page (%d attempts): %s", e.Attempts, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// TimeoutError is a bounded wait that ran out.
type TimeoutError struct {
	Op    string
	After time.Duration
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %s", e.Op, e.After)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// DataTypeError is a field whose value cannot be coerced to the type it should have.
type DataTypeError struct {
	BusinessName string
	Field        string
	Value        string
	Err          error
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("%s: %s %q is not a number", e.BusinessName, e.Field, e.Value)
}

func (e *DataTypeError) Unwrap() error {
	return e.Err
}

// GeocodeMiss is an address the geocoder could not resolve.
type GeocodeMiss struct {
	Address string
	Err     error
}

func (e *GeocodeMiss) Error() string {
	return fmt.Sprintf("geocode %q: %s", e.Address, e.Err)
}

func (e *GeocodeMiss) Unwrap() error {
	return e.Err
}
