// Package classify turns the assembled records of a run into the subsets the
// published views are made of. Everything here is pure: records are copied,
// never modified in place.
package classify

import (
	"fmt"
	"foodinspect/internal/inspection"
	"slices"
	"strconv"
	"strings"
)

type Region struct {
	Name string `json:"name"`
	// View is the name of the view the region is published under.
	View   string   `json:"view"`
	Cities []string `json:"cities"`
}

func (r Region) Contains(city string) bool {
	return slices.Contains(r.Cities, city)
}

type Params struct {
	// PermitType is the only permit type kept, matched exactly.
	PermitType string `json:"permit_type"`
	// Exclusions are business name substrings, matched case-insensitively.
	Exclusions []string `json:"exclusions"`
	// Threshold is the priority violation count a record must exceed to qualify.
	Threshold int      `json:"threshold"`
	TopGrade  string   `json:"top_grade"`
	StateCode string   `json:"state_code"`
	Regions   []Region `json:"regions"`
	// WeekOf is the report date the summary lines refer to.
	WeekOf string `json:"-"`
}

type RegionSlice struct {
	Region  Region
	Records []inspection.Record
}

type Classification struct {
	// Total is the number of records before any filtering.
	Total int
	// Kept are the records that passed the permit type and exclusion filters.
	Kept []inspection.Record
	// Qualifying are the kept records above the violation threshold.
	Qualifying []inspection.Record
	TopGraded  []inspection.Record
	Regions    []RegionSlice
	Summary    inspection.Summary
	// Invalid holds a DataTypeError for every kept record whose violation count
	// is not a number.
	Invalid []*inspection.DataTypeError
}

// MailingAddress returns the full mailing address of a street address.
func MailingAddress(address, city, stateCode string) string {
	return strings.TrimSpace(address) + ", " + city + ", " + stateCode
}

type excluder []string

func newExcluder(exclusions []string) excluder {
	lowered := make(excluder, 0, len(exclusions))
	for _, e := range exclusions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			lowered = append(lowered, e)
		}
	}
	return lowered
}

func (e excluder) excluded(name string) bool {
	name = strings.ToLower(name)
	for _, sub := range e {
		if strings.Contains(name, sub) {
			return true
		}
	}
	return false
}

func normalize(r inspection.Record, params Params) (inspection.Record, *inspection.DataTypeError) {
	r = r.Clone()
	r.MailingAddress = MailingAddress(r.Address, r.City, params.StateCode)

	raw := strings.TrimSpace(r.RawPriorityViolations)
	count, err := strconv.Atoi(raw)
	if err != nil {
		r.PriorityViolations = nil
		return r, &inspection.DataTypeError{
			BusinessName: r.BusinessName,
			Field:        "priority violations",
			Value:        r.RawPriorityViolations,
			Err:          err,
		}
	}
	r.PriorityViolations = &count
	return r, nil
}

// Classify filters, coerces and partitions records. Applying it to the Kept
// records of its own result yields the same Kept records.
func Classify(records []inspection.Record, params Params) Classification {
	exclude := newExcluder(params.Exclusions)

	result := Classification{
		Total: len(records),
	}
	for _, r := range records {
		if r.PermitType != params.PermitType {
			continue
		}
		if exclude.excluded(r.BusinessName) {
			continue
		}

		normalized, invalid := normalize(r, params)
		if invalid != nil {
			result.Invalid = append(result.Invalid, invalid)
		}
		result.Kept = append(result.Kept, normalized)

		if normalized.PriorityViolations != nil && *normalized.PriorityViolations > params.Threshold {
			result.Qualifying = append(result.Qualifying, normalized)
		}
		if normalized.Grade == params.TopGrade {
			result.TopGraded = append(result.TopGraded, normalized)
		}
	}

	for _, region := range params.Regions {
		slice := RegionSlice{Region: region}
		for _, r := range result.TopGraded {
			if region.Contains(r.City) {
				slice.Records = append(slice.Records, r)
			}
		}
		result.Regions = append(result.Regions, slice)
	}

	result.Summary = summarize(result, params)
	return result
}

func summarize(c Classification, params Params) inspection.Summary {
	summary := inspection.Summary{
		fmt.Sprintf("%d restaurants were inspected in the week of %s", c.Total, params.WeekOf),
	}
	if len(c.Qualifying) == 0 {
		return append(summary, fmt.Sprintf(
			"No restaurant had more than %d priority violations of %s",
			params.Threshold, params.WeekOf,
		))
	}
	return append(
		summary,
		fmt.Sprintf("%d restaurants had more than %d priority violations", len(c.Qualifying), params.Threshold),
		fmt.Sprintf("%d restaurants were rated '%s'", len(c.TopGraded), params.TopGrade),
	)
}
