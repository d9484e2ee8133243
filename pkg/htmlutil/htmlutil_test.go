package htmlutil

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestCleanText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "  Mesa  ", expected: "Mesa"},
		{input: "\n\tNo data available\n   in table ", expected: "No data available in table"},
		{input: "Joe's\u0000 Diner", expected: "Joe's Diner"},
	}

	for _, row := range table {
		require.Equal(t, row.expected, CleanText(row.input))
	}
}

func TestResolveHref(t *testing.T) {
	base, err := url.Parse("https://envapp.maricopa.gov")
	require.NoError(t, err)

	table := []struct {
		href     string
		expected string
		fails    bool
	}{
		{href: "/Inspection/Details/123", expected: "https://envapp.maricopa.gov/Inspection/Details/123"},
		{href: " /Inspection/Details?id=5#top ", expected: "https://envapp.maricopa.gov/Inspection/Details?id=5"},
		{href: "https://ENVAPP.maricopa.gov:443/x", expected: "https://envapp.maricopa.gov/x"},
		{href: "", fails: true},
		{href: "javascript:void(0)", fails: true},
	}

	for _, row := range table {
		resolved, err := ResolveHref(base, row.href)
		if row.fails {
			require.Error(t, err, row.href)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, row.expected, resolved)
	}
}

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div>Taco <b>Shop</b> <i>#3</i></div>`))
	require.NoError(t, err)
	require.Equal(t, "Taco Shop #3", GetText(doc))

	doc, err = html.Parse(strings.NewReader(`<table><tr><td>1 E Washington St<br>Suite 100</td></tr></table>`))
	require.NoError(t, err)
	require.Equal(t, "1 E Washington St Suite 100", GetText(doc))
}
