package report

import (
	"fmt"
	"html"
	"strings"
)

var testHeaders = []string{
	"Business Name",
	"Address",
	"City",
	"Permit Type",
	"Permit ID",
	"Priority Violation",
	"Grade",
	"Inspection date",
	"Details",
}

type testRow struct {
	cells []string
	// link is the href of the details anchor, no anchor when empty.
	link string
}

func inspectionRow(name, address, city, permitType, violations, grade, link string) testRow {
	return testRow{
		cells: []string{name, address, city, permitType, "FD-1234", violations, grade, "10/01/2026", "View"},
		link:  link,
	}
}

type nextState int

const (
	nextEnabled nextState = iota
	nextDisabled
	nextAbsent
)

func renderTable(headers []string, rows []testRow) string {
	var out strings.Builder
	out.WriteString(`<table id="weekly-report-table" class="table"><thead><tr>`)
	for _, h := range headers {
		fmt.Fprintf(&out, "<th>  %s </th>", html.EscapeString(h))
	}
	out.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		out.WriteString("<tr>")
		for i, cell := range row.cells {
			if i == len(row.cells)-1 {
				if row.link == "" {
					fmt.Fprintf(&out, `<td class="text-center">%s</td>`, html.EscapeString(cell))
					continue
				}
				fmt.Fprintf(
					&out,
					`<td class="text-center"><a href="%s">%s</a></td>`,
					html.EscapeString(row.link),
					html.EscapeString(cell),
				)
				continue
			}
			fmt.Fprintf(&out, "<td>\n  %s\n</td>", html.EscapeString(cell))
		}
		out.WriteString("</tr>")
	}
	out.WriteString("</tbody></table>")
	return out.String()
}

func renderPagination(next nextState) string {
	switch next {
	case nextEnabled:
		return `<div class="dataTables_paginate paging_simple_numbers">` +
			`<a class="paginate_button next" id="weekly-report-table_next" href="#">Next</a></div>`
	case nextDisabled:
		return `<div class="dataTables_paginate paging_simple_numbers">` +
			`<a class="paginate_button next disabled" id="weekly-report-table_next">Next</a></div>`
	}
	return ""
}

func renderPage(headers []string, rows []testRow, next nextState) string {
	return "<html><body><h1>Weekly Report</h1>" +
		renderTable(headers, rows) +
		renderPagination(next) +
		"</body></html>"
}

func renderEmptyPage() string {
	var out strings.Builder
	out.WriteString(`<html><body><table id="weekly-report-table"><thead><tr>`)
	for _, h := range testHeaders {
		fmt.Fprintf(&out, "<th>%s</th>", h)
	}
	fmt.Fprintf(
		&out,
		`</tr></thead><tbody><tr class="odd"><td valign="top" colspan="%d" class="dataTables_empty">No data available in table</td></tr></tbody></table>`,
		len(testHeaders),
	)
	out.WriteString(renderPagination(nextDisabled))
	out.WriteString("</body></html>")
	return out.String()
}
