package report

import (
	"context"
	"fmt"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/inspection"
	"foodinspect/pkg/htmlutil"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("foodinspect/internal/report")

const (
	report_extractor_extract = "extractor.extract"
)

// Page is the result of extracting one snapshot.
type Page struct {
	// Headers is the canonical column order of the page with the detail link
	// column appended.
	Headers []string
	Rows    []inspection.RawRow
	// Rejected holds a RowShapeError for every row that was skipped.
	Rejected []error
}

type Extractor struct {
	markup        Markup
	detailsColumn string
	base          *url.URL
	tel           telemetry.API
}

func NewExtractor(markup Markup, detailsColumn string, tel telemetry.API) (Extractor, error) {
	base, err := url.Parse(markup.BaseURL)
	if err != nil {
		return Extractor{}, fmt.Errorf("parse base url: %w", err)
	}
	return Extractor{
		markup:        markup,
		detailsColumn: detailsColumn,
		base:          base,
		tel:           telemetry.NewScopedAPI("report", tel),
	}, nil
}

// Extract parses one snapshot of the report page. A missing report table is a
// StructuralError, a table without data rows is not an error.
func (e Extractor) Extract(ctx context.Context, snapshot string) (Page, error) {
	doc, err := parseSnapshot(snapshot)
	if err != nil {
		return Page{}, err
	}
	return e.ExtractDocument(ctx, doc)
}

func (e Extractor) ExtractDocument(ctx context.Context, doc *goquery.Document) (Page, error) {
	_, span := tracer.Start(ctx, "ExtractDocument")
	defer span.End()

	table := doc.Find(e.markup.tableSelector()).First()
	if table.Length() == 0 {
		return Page{}, &inspection.StructuralError{
			What: fmt.Sprintf("table #%s not found", e.markup.TableID),
		}
	}

	var headers []string
	table.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.CleanText(th.Text()))
	})
	if len(headers) == 0 {
		return Page{}, &inspection.StructuralError{
			What: fmt.Sprintf("table #%s has no header cells", e.markup.TableID),
		}
	}

	page := Page{
		Headers: append(slices.Clone(headers), e.detailsColumn),
	}

	table.Find("tbody tr").Each(func(i int, tr *goquery.Selection) {
		if e.isNoData(tr) {
			e.tel.ReportDebug("skipping no-data row", i)
			return
		}

		cells := tr.ChildrenFiltered("td")
		if cells.Length() != len(headers) {
			rejected := &inspection.RowShapeError{
				Row:     i,
				Cells:   cells.Length(),
				Headers: len(headers),
			}
			e.tel.ReportWarning(report_extractor_extract, rejected)
			page.Rejected = append(page.Rejected, rejected)
			return
		}

		values := make([]string, 0, len(headers))
		cells.Each(func(_ int, td *goquery.Selection) {
			values = append(values, strings.TrimSpace(htmlutil.GetText(td.Get(0))))
		})

		page.Rows = append(page.Rows, inspection.RawRow{
			Headers:    headers,
			Cells:      values,
			DetailLink: e.detailLink(i, tr),
		})
	})

	span.SetAttributes(
		attribute.Int("rows", len(page.Rows)),
		attribute.Int("rejected", len(page.Rejected)),
	)
	return page, nil
}

func (e Extractor) isNoData(tr *goquery.Selection) bool {
	text := htmlutil.CleanText(tr.Text())
	if strings.EqualFold(text, e.markup.NoDataSentinel) {
		return true
	}
	cells := tr.ChildrenFiltered("td")
	return cells.Length() == 1 && cells.HasClass(e.markup.EmptyCellClass)
}

func (e Extractor) detailLink(row int, tr *goquery.Selection) *string {
	cell := tr.ChildrenFiltered("td." + e.markup.LinkCellClass).Has("a[href]").First()
	if cell.Length() == 0 {
		return nil
	}
	href, _ := cell.Find("a[href]").First().Attr("href")
	link, err := htmlutil.ResolveHref(e.base, href)
	if err != nil {
		e.tel.ReportWarning(report_extractor_extract, fmt.Errorf("row %d: resolve detail link: %w", row, err))
		return nil
	}
	return &link
}
