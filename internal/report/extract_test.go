package report

import (
	"context"
	"errors"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/inspection"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T) (Extractor, telemetry.TestAPI) {
	tel := telemetry.NewTestAPI(t)
	extractor, err := NewExtractor(DefaultMarkup(), inspection.DefaultColumns().DetailLink, tel)
	require.NoError(t, err)
	return extractor, tel
}

func TestExtractKeepsValidRows(t *testing.T) {
	extractor, _ := newTestExtractor(t)

	snapshot := renderPage(testHeaders, []testRow{
		inspectionRow("Taco Shop", "1 Main St", "Phoenix", "Eating & Drinking", "4", "A", "/Report/Detail?id=1"),
		inspectionRow("Noodle Bar", "2 Main St", "Mesa", "Eating & Drinking", "0", "B", "Detail?id=2"),
		inspectionRow("Corner Mart", "3 Main St", "Tempe", "Retail", "1", "", ""),
	}, nextDisabled)

	page, err := extractor.Extract(context.Background(), snapshot)
	require.NoError(t, err)
	require.Empty(t, page.Rejected)
	require.Len(t, page.Rows, 3)

	expectedHeaders := append(append([]string{}, testHeaders...), "Inspection details")
	if diff := cmp.Diff(expectedHeaders, page.Headers); diff != "" {
		t.Fatalf("headers (-want +got):\n%s", diff)
	}

	first := page.Rows[0]
	require.Equal(t, testHeaders, first.Headers)
	require.Equal(t, "Taco Shop", first.Cells[0])
	require.Equal(t, "1 Main St", first.Cells[1])
	require.NotNil(t, first.DetailLink)
	require.Equal(t, "https://envapp.maricopa.gov/Report/Detail?id=1", *first.DetailLink)

	require.NotNil(t, page.Rows[1].DetailLink)
	require.Equal(t, "https://envapp.maricopa.gov/Detail?id=2", *page.Rows[1].DetailLink)

	require.Nil(t, page.Rows[2].DetailLink)
}

func TestExtractSkipsNoDataRow(t *testing.T) {
	extractor, _ := newTestExtractor(t)

	page, err := extractor.Extract(context.Background(), renderEmptyPage())
	require.NoError(t, err)
	require.Empty(t, page.Rows)
	require.Empty(t, page.Rejected)
	require.Len(t, page.Headers, len(testHeaders)+1)
}

func TestExtractRejectsMisshapenRows(t *testing.T) {
	extractor, tel := newTestExtractor(t)

	short := inspectionRow("Short", "9 Main St", "Phoenix", "Eating & Drinking", "5", "A", "")
	short.cells = append(short.cells[:3], short.cells[8])

	snapshot := renderPage(testHeaders, []testRow{
		inspectionRow("Taco Shop", "1 Main St", "Phoenix", "Eating & Drinking", "4", "A", "/d/1"),
		short,
	}, nextDisabled)

	page, err := extractor.Extract(context.Background(), snapshot)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	require.Len(t, page.Rejected, 1)

	var shape *inspection.RowShapeError
	require.True(t, errors.As(page.Rejected[0], &shape))
	require.Equal(t, 1, shape.Row)
	require.Equal(t, 4, shape.Cells)
	require.Equal(t, len(testHeaders), shape.Headers)

	require.Len(t, tel.Reports("warning", report_extractor_extract), 1)
}

func TestExtractStructuralFaults(t *testing.T) {
	extractor, _ := newTestExtractor(t)

	cases := []struct {
		name     string
		snapshot string
	}{
		{
			name:     "no table",
			snapshot: "<html><body><p>Please complete the CAPTCHA</p></body></html>",
		},
		{
			name:     "wrong table",
			snapshot: `<html><body><table id="other"><thead><tr><th>A</th></tr></thead></table></body></html>`,
		},
		{
			name:     "no headers",
			snapshot: `<html><body><table id="weekly-report-table"><tbody><tr><td>x</td></tr></tbody></table></body></html>`,
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			_, err := extractor.Extract(context.Background(), test.snapshot)
			var structural *inspection.StructuralError
			require.True(t, errors.As(err, &structural), "got %v", err)
		})
	}
}
