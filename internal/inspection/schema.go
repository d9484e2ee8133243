package inspection

import (
	"slices"
	"strings"
)

// Field names a column the pipeline knows how to interpret.
type Field int

const (
	FieldBusinessName Field = iota
	FieldAddress
	FieldCity
	FieldPermitType
	FieldPermitID
	FieldPriorityViolation
	FieldGrade
	FieldInspectionDate
	FieldDetailLink
)

// RequiredFields must be present for a row to become a Record.
var RequiredFields = []Field{
	FieldBusinessName,
	FieldAddress,
	FieldCity,
	FieldPermitType,
	FieldPriorityViolation,
	FieldInspectionDate,
}

// OptionalFields are mapped when the report carries them.
var OptionalFields = []Field{
	FieldPermitID,
	FieldGrade,
}

// Columns are the header labels the report uses for each Field. They are
// configuration so that a renamed column can be followed without a release.
type Columns struct {
	BusinessName      string `json:"business_name"`
	Address           string `json:"address"`
	City              string `json:"city"`
	PermitType        string `json:"permit_type"`
	PermitID          string `json:"permit_id"`
	PriorityViolation string `json:"priority_violation"`
	Grade             string `json:"grade"`
	InspectionDate    string `json:"inspection_date"`
	// DetailLink is the synthetic column appended for the resolved details link.
	DetailLink string `json:"detail_link"`
}

func DefaultColumns() Columns {
	return Columns{
		BusinessName:      "Business Name",
		Address:           "Address",
		City:              "City",
		PermitType:        "Permit Type",
		PermitID:          "Permit ID",
		PriorityViolation: "Priority Violation",
		Grade:             "Grade",
		InspectionDate:    "Inspection date",
		DetailLink:        "Inspection details",
	}
}

func (c Columns) Name(f Field) string {
	switch f {
	case FieldBusinessName:
		return c.BusinessName
	case FieldAddress:
		return c.Address
	case FieldCity:
		return c.City
	case FieldPermitType:
		return c.PermitType
	case FieldPermitID:
		return c.PermitID
	case FieldPriorityViolation:
		return c.PriorityViolation
	case FieldGrade:
		return c.Grade
	case FieldInspectionDate:
		return c.InspectionDate
	case FieldDetailLink:
		return c.DetailLink
	}
	return ""
}

// Schema is the validated mapping from Field to column position, built once
// per run from the headers of the first page.
type Schema struct {
	// Headers is the canonical column order, including the detail link column.
	Headers []string
	// Missing lists required fields the headers do not provide.
	Missing []Field

	columns Columns
	index   map[Field]int
}

func NewSchema(headers []string, columns Columns) Schema {
	s := Schema{
		Headers: slices.Clone(headers),
		columns: columns,
		index:   map[Field]int{},
	}

	fields := append(slices.Clone(RequiredFields), OptionalFields...)
	fields = append(fields, FieldDetailLink)
	for _, f := range fields {
		name := columns.Name(f)
		idx := slices.IndexFunc(headers, func(h string) bool {
			return strings.EqualFold(strings.TrimSpace(h), name)
		})
		if idx < 0 {
			if slices.Contains(RequiredFields, f) {
				s.Missing = append(s.Missing, f)
			}
			continue
		}
		s.index[f] = idx
	}

	return s
}

func (s Schema) Columns() Columns {
	return s.columns
}

// Index returns the column position of f.
func (s Schema) Index(f Field) (int, bool) {
	idx, ok := s.index[f]
	return idx, ok
}

// Record maps a row positionally onto a Record. It fails with a
// MissingFieldError (Page and Row left for the caller) when a required field
// is not in the schema or the row is too short to contain it.
func (s Schema) Record(row RawRow) (Record, error) {
	value := func(f Field) (string, bool) {
		idx, ok := s.index[f]
		if !ok || idx >= len(row.Cells) {
			return "", false
		}
		return row.Cells[idx], true
	}

	for _, f := range RequiredFields {
		if _, ok := value(f); !ok {
			return Record{}, &MissingFieldError{Field: s.columns.Name(f)}
		}
	}

	get := func(f Field) string {
		v, _ := value(f)
		return v
	}

	source := slices.Clone(row.Cells)
	if idx, ok := s.index[FieldDetailLink]; ok && idx >= len(source) {
		link := ""
		if row.DetailLink != nil {
			link = *row.DetailLink
		}
		source = append(source, link)
	}

	return Record{
		BusinessName:          get(FieldBusinessName),
		Address:               get(FieldAddress),
		City:                  get(FieldCity),
		PermitType:            get(FieldPermitType),
		PermitID:              get(FieldPermitID),
		Grade:                 get(FieldGrade),
		InspectionDate:        get(FieldInspectionDate),
		RawPriorityViolations: get(FieldPriorityViolation),
		DetailLink:            row.DetailLink,
		Source:                source,
	}, nil
}
