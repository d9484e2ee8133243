package pipeline

import (
	"context"
	"errors"
	"fmt"
	"foodinspect/internal/archive"
	"foodinspect/internal/classify"
	"foodinspect/internal/components/chrono"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/db"
	"foodinspect/internal/geocode"
	"foodinspect/internal/inspection"
	"foodinspect/internal/publish"
	"foodinspect/internal/report"
	"foodinspect/pkg/migrations"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTargetDate(t *testing.T) {
	phoenix, err := time.LoadLocation("America/Phoenix")
	require.NoError(t, err)

	cases := []struct {
		now    time.Time
		expect string
	}{
		// sunday
		{now: time.Date(2026, time.October, 18, 9, 0, 0, 0, phoenix), expect: "10-02-2026"},
		// saturday
		{now: time.Date(2026, time.October, 17, 9, 0, 0, 0, phoenix), expect: "10-02-2026"},
		// friday
		{now: time.Date(2026, time.October, 16, 9, 0, 0, 0, phoenix), expect: "10-02-2026"},
		// thursday
		{now: time.Date(2026, time.October, 15, 9, 0, 0, 0, phoenix), expect: "09-25-2026"},
		// monday
		{now: time.Date(2026, time.October, 12, 9, 0, 0, 0, phoenix), expect: "09-25-2026"},
		// across a year boundary
		{now: time.Date(2027, time.January, 4, 9, 0, 0, 0, phoenix), expect: "12-18-2026"},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, TargetDate(test.now), test.now.Format(time.RFC850))
	}
}

var pageHeaders = []string{
	"Business Name", "Address", "City", "Permit Type", "Permit ID", "Priority Violation", "Grade", "Inspection date",
}

type row struct {
	name, address, city, permitType, violations, grade string
}

func renderPage(rows []row, last bool) string {
	var out strings.Builder
	out.WriteString(`<html><body><table id="weekly-report-table"><thead><tr>`)
	for _, h := range pageHeaders {
		fmt.Fprintf(&out, "<th>%s</th>", h)
	}
	out.WriteString("</tr></thead><tbody>")
	for i, r := range rows {
		fmt.Fprintf(
			&out,
			`<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>FD-%d</td><td>%s</td><td>%s</td>`+
				`<td class="text-center"><a href="/Report/Detail/%d">10/01/2026</a></td></tr>`,
			r.name, r.address, r.city, r.permitType, i, r.violations, r.grade, i,
		)
	}
	out.WriteString("</tbody></table>")
	class := "paginate_button next"
	if last {
		class += " disabled"
	}
	fmt.Fprintf(&out, `<div class="dataTables_paginate"><a class="%s" id="weekly-report-table_next" href="#">Next</a></div>`, class)
	out.WriteString("</body></html>")
	return out.String()
}

type trackedSession struct {
	report.Session
	clickErr error
	closed   bool
}

func (s *trackedSession) ClickNext(ctx context.Context) error {
	if s.clickErr != nil {
		return s.clickErr
	}
	return s.Session.ClickNext(ctx)
}

func (s *trackedSession) Close() error {
	s.closed = true
	return s.Session.Close()
}

type fakeGeocoder struct {
	failing map[string]bool
}

func (g fakeGeocoder) Geocode(ctx context.Context, address string) (geocode.Coordinates, error) {
	if g.failing[address] {
		return geocode.Coordinates{}, geocode.ErrNoResults
	}
	return geocode.Coordinates{Lat: 33.4, Lng: -112}, nil
}

type harness struct {
	pipeline Pipeline
	session  *trackedSession
	sink     *publish.MemorySink
	archive  archive.Archive
	tel      telemetry.TestAPI
}

func newHarness(t *testing.T, pages []string, geocoder geocode.Geocoder) *harness {
	tel := telemetry.NewTestAPI(t)
	clock := chrono.FixedImpl{At: time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)}

	sqldb, err := migrations.OpenAndMigrateDB(db.Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })
	arc := archive.NewArchive(db.New(sqldb), db.NewMakeTx(sqldb), clock, tel)

	h := &harness{
		session: &trackedSession{Session: archive.NewSession(pages, report.DefaultMarkup())},
		sink:    publish.NewMemorySink(),
		archive: arc,
		tel:     tel,
	}

	paginate := report.DefaultPaginateOptions()
	paginate.ClickDelay = time.Millisecond

	h.pipeline, err = NewPipeline(
		func(ctx context.Context, targetDate string) (report.Session, error) {
			return h.session, nil
		},
		geocode.NewEnricher(geocoder, geocode.EnrichOptions{Timeout: time.Second}, tel),
		publish.NewPublisher(tel, h.sink),
		arc,
		Options{
			Markup:   report.DefaultMarkup(),
			Columns:  inspection.DefaultColumns(),
			Paginate: paginate,
			Classify: classify.DefaultParams(),
		},
		clock,
		tel,
	)
	require.NoError(t, err)
	return h
}

func TestPipelinePublishesEveryView(t *testing.T) {
	pages := []string{
		renderPage([]row{
			{"Taco Shop", "1 Main St ", "Phoenix", "Eating & Drinking", "5", "A"},
			{"Starbucks #12", "2 Main St", "Phoenix", "Eating & Drinking", "9", "A"},
			{"Corner Grocery", "3 Main St", "Mesa", "Retail Food", "9", "A"},
		}, false),
		renderPage([]row{
			{"Noodle Bar", "4 Main St", "Mesa", "Eating & Drinking", "4", "B"},
			{"Pho Thanh", "5 Main St", "Tempe", "Eating & Drinking", "0", "A"},
		}, true),
	}
	h := newHarness(t, pages, fakeGeocoder{failing: map[string]bool{"4 Main St, Mesa, AZ": true}})

	result, err := h.pipeline.Run(context.Background())
	require.NoError(t, err)
	require.True(t, h.session.closed)

	require.Equal(t, "10-02-2026", result.TargetDate)
	require.Equal(t, 2, result.Assembly.Pages)
	require.Len(t, result.Assembly.Records, 5)
	require.Equal(t, report.ReasonDisabled, result.Stop.Reason)
	require.False(t, result.SummaryOnly)
	require.Len(t, result.Misses, 1)

	require.Equal(t, []string{
		"topViolators", "Phoenix", "Scottsdale", "eastValley", "westValley", "Summary",
	}, h.sink.Writes())

	top, _ := h.sink.View("topViolators")
	require.Len(t, top, 3)
	require.Equal(t, []string{"Taco Shop", "33.4", "-112", "1 Main St, Phoenix, AZ", "10/01/2026", "Priority violations: 5"}, top[1])
	require.Equal(t, []string{"Noodle Bar", "", "", "4 Main St, Mesa, AZ", "10/01/2026", "Priority violations: 4"}, top[2])

	west, _ := h.sink.View("westValley")
	require.Len(t, west, 1)

	summary, _ := h.sink.View("Summary")
	require.Equal(t, [][]string{
		{"5 restaurants were inspected in the week of 10-02-2026"},
		{"2 restaurants had more than 3 priority violations"},
		{"2 restaurants were rated 'A'"},
	}, summary)

	run, err := h.archive.Run(context.Background(), result.RunId)
	require.NoError(t, err)
	require.Equal(t, string(db.OUTCOME_PUBLISHED), run.Outcome)
	require.Equal(t, int64(2), run.Pages)
	snapshots, err := h.archive.Snapshots(context.Background(), result.RunId)
	require.NoError(t, err)
	require.Equal(t, pages, snapshots)
}

func TestPipelineWithoutQualifyingRecordsPublishesSummaryOnly(t *testing.T) {
	pages := []string{
		renderPage([]row{
			{"Taco Shop", "1 Main St", "Phoenix", "Eating & Drinking", "3", "A"},
			{"Noodle Bar", "2 Main St", "Mesa", "Eating & Drinking", "0", "B"},
		}, true),
	}
	h := newHarness(t, pages, fakeGeocoder{})

	result, err := h.pipeline.RunFor(context.Background(), "10-02-2026")
	require.NoError(t, err)
	require.True(t, result.SummaryOnly)
	require.True(t, h.session.closed)

	require.Equal(t, []string{"Summary"}, h.sink.Writes())
	summary, _ := h.sink.View("Summary")
	require.Equal(t, [][]string{
		{"2 restaurants were inspected in the week of 10-02-2026"},
		{"No restaurant had more than 3 priority violations of 10-02-2026"},
	}, summary)

	run, err := h.archive.Run(context.Background(), result.RunId)
	require.NoError(t, err)
	require.Equal(t, string(db.OUTCOME_SUMMARY_ONLY), run.Outcome)
}

func TestPipelineNavigationFailure(t *testing.T) {
	pages := []string{
		renderPage([]row{{"Taco Shop", "1 Main St", "Phoenix", "Eating & Drinking", "5", "A"}}, false),
		renderPage([]row{{"Noodle Bar", "2 Main St", "Mesa", "Eating & Drinking", "5", "A"}}, true),
	}
	h := newHarness(t, pages, fakeGeocoder{})
	h.session.clickErr = errors.New("connection reset")

	result, err := h.pipeline.RunFor(context.Background(), "10-02-2026")
	var nav *inspection.NavigationError
	require.True(t, errors.As(err, &nav), "got %v", err)
	require.True(t, h.session.closed)
	require.Empty(t, h.sink.Writes())
	require.Equal(t, report.Failed, result.Stop.State)

	run, err := h.archive.Run(context.Background(), result.RunId)
	require.NoError(t, err)
	require.Equal(t, string(db.OUTCOME_FAILED), run.Outcome)
	require.Contains(t, run.Message, "connection reset")
}

func TestPipelineStructuralFailure(t *testing.T) {
	h := newHarness(t, []string{"<html><body><p>maintenance</p></body></html>"}, fakeGeocoder{})

	_, err := h.pipeline.RunFor(context.Background(), "10-02-2026")
	var structural *inspection.StructuralError
	require.True(t, errors.As(err, &structural), "got %v", err)
	require.True(t, h.session.closed)
	require.Empty(t, h.sink.Writes())
}

func TestPipelineReportsPublicationFailures(t *testing.T) {
	pages := []string{
		renderPage([]row{{"Taco Shop", "1 Main St", "Phoenix", "Eating & Drinking", "5", "A"}}, true),
	}
	h := newHarness(t, pages, fakeGeocoder{})
	h.sink.Fail = map[string]error{"Phoenix": errors.New("quota exceeded")}

	result, err := h.pipeline.RunFor(context.Background(), "10-02-2026")
	require.ErrorContains(t, err, "quota exceeded")
	require.Len(t, result.Publication.Failures, 1)
	require.Contains(t, h.sink.Writes(), "Summary")
	require.NotContains(t, h.sink.Writes(), "Phoenix")
}
