package report

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func parseSnapshot(snapshot string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return doc, nil
}

// ParseNextControl locates the next control inside the pagination region of a
// rendered page. The control is disabled when its class list (or that of the
// link inside it) carries the markup's disabled class.
func ParseNextControl(doc *goquery.Document, markup Markup) (NextControl, error) {
	region := doc.Find("." + markup.PaginateClass).First()
	if region.Length() == 0 {
		return NextControl{}, fmt.Errorf("%w: no .%s", ErrControlMissing, markup.PaginateClass)
	}
	next := region.Find(`[id="` + markup.NextControlID + `"]`).First()
	if next.Length() == 0 {
		return NextControl{}, fmt.Errorf("%w: no #%s", ErrControlMissing, markup.NextControlID)
	}

	disabled := hasClassPart(next, markup.DisabledClass)
	href := next.AttrOr("href", "")
	if href == "" {
		anchor := next.Find("a").First()
		href = anchor.AttrOr("href", "")
		disabled = disabled || hasClassPart(anchor, markup.DisabledClass)
	}
	if href == "#" {
		href = ""
	}

	return NextControl{
		Disabled: disabled,
		Href:     strings.TrimSpace(href),
	}, nil
}

func hasClassPart(sel *goquery.Selection, part string) bool {
	class, ok := sel.Attr("class")
	return ok && strings.Contains(class, part)
}

// HasTable reports whether the report table is present in doc.
func HasTable(doc *goquery.Document, markup Markup) bool {
	return doc.Find(markup.tableSelector()).Length() > 0
}
