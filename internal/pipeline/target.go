package pipeline

import "time"

// TargetDateLayout is the date format the report form expects.
const TargetDateLayout = "01-02-2006"

// TargetDate returns the report date for a run made at now: the third most
// recent Friday, counting today when today is a Friday. Inspections take about
// two weeks to show up in the weekly report.
func TargetDate(now time.Time) string {
	// monday = 0
	weekday := (int(now.Weekday()) + 6) % 7
	sinceFriday := ((weekday-4)%7 + 7) % 7
	return now.AddDate(0, 0, -sinceFriday-14).Format(TargetDateLayout)
}
