package report

import (
	"context"
	"errors"
)

// ErrClickIntercepted is returned by Session.ClickNext for the known transient
// fault where the click does not reach the control (an overlay in a browser,
// a throttled request over http). The paginator retries it.
var ErrClickIntercepted = errors.New("click intercepted")

// ErrControlMissing is returned by Session.NextControl when the page has no
// pagination control at all.
var ErrControlMissing = errors.New("pagination control not found")

// NextControl is the state of the "next page" affordance.
type NextControl struct {
	Disabled bool
	// Href is the target of the control when it is a plain link.
	Href string
}

// Session is a navigable view of the report, positioned on one page at a time.
//
// note: fault injection point
type Session interface {
	// Snapshot returns the markup of the current page.
	Snapshot(ctx context.Context) (string, error)
	// NextControl locates the next page control on the current page.
	NextControl(ctx context.Context) (NextControl, error)
	// ClickNext requests the transition to the next page.
	ClickNext(ctx context.Context) error
	// WaitForTable blocks until the report table is present on the current page
	// or ctx is done.
	WaitForTable(ctx context.Context) error
	Close() error
}
