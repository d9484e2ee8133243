package report

// Markup names the stable hooks the weekly report page exposes.
type Markup struct {
	// BaseURL is what relative detail links are resolved against.
	BaseURL string `json:"base_url"`
	TableID string `json:"table_id"`
	// LinkCellClass marks the cell carrying the inspection details anchor.
	LinkCellClass string `json:"link_cell_class"`
	// PaginateClass marks the pagination control region.
	PaginateClass string `json:"paginate_class"`
	NextControlID string `json:"next_control_id"`
	// DisabledClass is the class the next control carries on the last page.
	DisabledClass  string `json:"disabled_class"`
	NoDataSentinel string `json:"no_data_sentinel"`
	// EmptyCellClass marks the single cell of a table with no data.
	EmptyCellClass string `json:"empty_cell_class"`
}

func DefaultMarkup() Markup {
	return Markup{
		BaseURL:        "https://envapp.maricopa.gov",
		TableID:        "weekly-report-table",
		LinkCellClass:  "text-center",
		PaginateClass:  "dataTables_paginate",
		NextControlID:  "weekly-report-table_next",
		DisabledClass:  "disabled",
		NoDataSentinel: "No data available in table",
		EmptyCellClass: "dataTables_empty",
	}
}

func (m Markup) tableSelector() string {
	return `table[id="` + m.TableID + `"]`
}
