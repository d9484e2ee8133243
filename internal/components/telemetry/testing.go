package telemetry

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// Report is a single call recorded by TestAPI.
type Report struct {
	Kind   string
	Id     string
	Params []any
	Count  int64
}

// TestAPI is an API that records every report it receives and mirrors them to
// the test log, so tests can assert that a component reported what it should.
type TestAPI struct {
	t       testing.TB
	mutex   *sync.Mutex
	reports *[]Report
}

func NewTestAPI(t testing.TB) TestAPI {
	return TestAPI{
		t:       t,
		mutex:   &sync.Mutex{},
		reports: &[]Report{},
	}
}

func (a TestAPI) record(r Report) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	*a.reports = append(*a.reports, r)
	a.t.Logf("[%s] %s %v", r.Kind, r.Id, r.Params)
}

func (a TestAPI) ReportBroken(id string, params ...any) {
	a.record(Report{Kind: "broken", Id: id, Params: params})
}

func (a TestAPI) ReportWarning(id string, params ...any) {
	a.record(Report{Kind: "warning", Id: id, Params: params})
}

func (a TestAPI) ReportDebug(msg string, params ...any) {
	a.record(Report{Kind: "debug", Id: msg, Params: params})
}

func (a TestAPI) ReportCount(id string, count int64) {
	a.record(Report{Kind: "count", Id: id, Count: count})
}

// Reports returns the reports of the given kind whose id ends with suffix.
func (a TestAPI) Reports(kind, suffix string) []Report {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	var out []Report
	for _, r := range *a.reports {
		if r.Kind == kind && strings.HasSuffix(r.Id, suffix) {
			out = append(out, r)
		}
	}
	return out
}

// LastCount returns the most recent count reported under an id ending with suffix.
func (a TestAPI) LastCount(suffix string) (int64, error) {
	counts := a.Reports("count", suffix)
	if len(counts) == 0 {
		return 0, fmt.Errorf("no count reported for %s", suffix)
	}
	return counts[len(counts)-1].Count, nil
}
