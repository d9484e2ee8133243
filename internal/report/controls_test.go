package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, snapshot string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot))
	require.NoError(t, err)
	return doc
}

func TestParseNextControl(t *testing.T) {
	cases := []struct {
		name           string
		snapshot       string
		expectDisabled bool
		expectHref     string
		expectMissing  bool
	}{
		{
			name:     "enabled",
			snapshot: renderPage(testHeaders, nil, nextEnabled),
		},
		{
			name:           "disabled",
			snapshot:       renderPage(testHeaders, nil, nextDisabled),
			expectDisabled: true,
		},
		{
			name: "disabled wrapper",
			snapshot: `<div class="dataTables_paginate"><ul><li class="paginate_button next disabled" id="weekly-report-table_next">` +
				`<a href="#">Next</a></li></ul></div>`,
			expectDisabled: true,
		},
		{
			name: "plain link",
			snapshot: `<div class="dataTables_paginate"><li id="weekly-report-table_next">` +
				`<a href="/Report/WeeklyReport?page=2">Next</a></li></div>`,
			expectHref: "/Report/WeeklyReport?page=2",
		},
		{
			name:          "no region",
			snapshot:      renderPage(testHeaders, nil, nextAbsent),
			expectMissing: true,
		},
		{
			name:          "no control",
			snapshot:      `<div class="dataTables_paginate"><a id="weekly-report-table_previous">Previous</a></div>`,
			expectMissing: true,
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			control, err := ParseNextControl(parseDoc(t, test.snapshot), DefaultMarkup())
			if test.expectMissing {
				require.True(t, errors.Is(err, ErrControlMissing), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expectDisabled, control.Disabled)
			require.Equal(t, test.expectHref, control.Href)
		})
	}
}

func TestHasTable(t *testing.T) {
	require.True(t, HasTable(parseDoc(t, renderEmptyPage()), DefaultMarkup()))
	require.False(t, HasTable(parseDoc(t, "<p>loading</p>"), DefaultMarkup()))
}
