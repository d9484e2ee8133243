package inspection

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testHeaders = []string{
	"Business Name", "Address", "City", "Permit ID", "Permit Type",
	"Inspection date", "Grade", "Priority Violation", "Inspection details",
}

func ptr[T any](v T) *T {
	return &v
}

func TestNewSchema(t *testing.T) {
	schema := NewSchema(testHeaders, DefaultColumns())
	require.Empty(t, schema.Missing)

	idx, ok := schema.Index(FieldPriorityViolation)
	require.True(t, ok)
	require.Equal(t, 7, idx)

	idx, ok = schema.Index(FieldDetailLink)
	require.True(t, ok)
	require.Equal(t, 8, idx)
}

func TestNewSchemaToleratesCaseAndSpacing(t *testing.T) {
	headers := []string{" business name", "ADDRESS", "City", "Permit Type", "Inspection Date", "Priority Violation"}
	schema := NewSchema(headers, DefaultColumns())
	require.Empty(t, schema.Missing)

	_, ok := schema.Index(FieldGrade)
	require.False(t, ok)
}

func TestNewSchemaMissingRequired(t *testing.T) {
	headers := []string{"Business Name", "Street", "City", "Permit Type", "Inspection date", "Priority Violation"}
	schema := NewSchema(headers, DefaultColumns())
	require.Equal(t, []Field{FieldAddress}, schema.Missing)

	_, err := schema.Record(RawRow{
		Headers: headers,
		Cells:   []string{"Taco Shop", "1 Main St", "Mesa", "Eating & Drinking", "10/01/2026", "2"},
	})
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "Address", missing.Field)
}

func TestSchemaRecord(t *testing.T) {
	schema := NewSchema(testHeaders, DefaultColumns())
	cells := []string{
		"Taco Shop", "1 Main St", "Mesa", "FD-1", "Eating & Drinking",
		"10/01/2026", "A", "4",
	}

	record, err := schema.Record(RawRow{
		Headers:    testHeaders[:8],
		Cells:      cells,
		DetailLink: ptr("https://envapp.maricopa.gov/Inspection/1"),
	})
	require.NoError(t, err)

	expected := Record{
		BusinessName:          "Taco Shop",
		Address:               "1 Main St",
		City:                  "Mesa",
		PermitType:            "Eating & Drinking",
		PermitID:              "FD-1",
		Grade:                 "A",
		InspectionDate:        "10/01/2026",
		RawPriorityViolations: "4",
		DetailLink:            ptr("https://envapp.maricopa.gov/Inspection/1"),
		Source:                append(cells, "https://envapp.maricopa.gov/Inspection/1"),
	}
	if diff := cmp.Diff(expected, record); diff != "" {
		t.Fatal(diff)
	}
}

func TestSchemaRecordShortRow(t *testing.T) {
	schema := NewSchema(testHeaders, DefaultColumns())

	_, err := schema.Record(RawRow{
		Headers: []string{"Business Name", "Address", "City"},
		Cells:   []string{"Taco Shop", "1 Main St", "Mesa"},
	})
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "Permit Type", missing.Field)
}
