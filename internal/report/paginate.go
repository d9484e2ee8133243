package report

import (
	"context"
	"errors"
	"fmt"
	"foodinspect/internal/components/assert"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/inspection"
	"time"
)

const (
	report_paginator_next  = "paginator.next"
	report_paginator_click = "paginator.click"
)

// State is the state of a Paginator after a call to Next.
type State int

const (
	// HasMore means the step carries a snapshot and the sequence may continue.
	HasMore State = iota
	// Exhausted means there are no more pages, it is not an error.
	Exhausted
	// Failed means the sequence ended on a navigation or timeout fault.
	Failed
)

func (s State) String() string {
	switch s {
	case HasMore:
		return "has-more"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Reasons a paginator reaches Exhausted.
const (
	ReasonDisabled       = "disabled"
	ReasonControlMissing = "control-missing"
	ReasonLookupFault    = "lookup-fault"
)

// Step is one element of the snapshot sequence.
type Step struct {
	State State
	// Page is the 1-based page number of Snapshot.
	Page     int
	Snapshot string
	// Reason is set when State is Exhausted.
	Reason string
	// Err is set when State is Failed.
	Err error
}

type PaginateOptions struct {
	// ClickAttempts is the total number of attempts made when a click is intercepted.
	ClickAttempts int
	ClickDelay    time.Duration
	TableTimeout  time.Duration
}

func DefaultPaginateOptions() PaginateOptions {
	return PaginateOptions{
		ClickAttempts: 3,
		ClickDelay:    time.Second,
		TableTimeout:  time.Second * 10,
	}
}

// Paginator walks a Session page by page. The sequence it produces is lazy,
// finite and cannot be restarted: once Exhausted or Failed, every later call to
// Next returns the same terminal step.
type Paginator struct {
	session  Session
	opts     PaginateOptions
	tel      telemetry.API
	page     int
	terminal *Step
}

func NewPaginator(session Session, opts PaginateOptions, tel telemetry.API) *Paginator {
	assert.NotNil(session)
	assert.NotNil(tel)
	assert.Positive(opts.ClickAttempts)

	return &Paginator{
		session: session,
		opts:    opts,
		tel:     telemetry.NewScopedAPI("report", tel),
	}
}

// Next advances to the next page and returns its snapshot. The first call
// returns the page the session is currently on.
//
// Any fault while locating the next control ends the report instead of
// failing the run. Such steps carry ReasonControlMissing or ReasonLookupFault
// so callers can tell them from a disabled control.
func (p *Paginator) Next(ctx context.Context) Step {
	if p.terminal != nil {
		return *p.terminal
	}

	if p.page > 0 {
		control, err := p.session.NextControl(ctx)
		if err != nil {
			reason := ReasonLookupFault
			if errors.Is(err, ErrControlMissing) {
				reason = ReasonControlMissing
			}
			p.tel.ReportWarning(
				report_paginator_next,
				fmt.Errorf("treating next control lookup failure as last page: %w", err),
				reason,
				p.page,
			)
			return p.finish(Step{State: Exhausted, Page: p.page, Reason: reason})
		}
		if control.Disabled {
			p.tel.ReportDebug("reached the last page", p.page)
			return p.finish(Step{State: Exhausted, Page: p.page, Reason: ReasonDisabled})
		}

		err = p.click(ctx)
		if err != nil {
			p.tel.ReportBroken(report_paginator_click, err, p.page)
			return p.finish(Step{State: Failed, Page: p.page, Err: err})
		}
	}

	err := p.waitForTable(ctx)
	if err != nil {
		p.tel.ReportBroken(report_paginator_next, err, p.page+1)
		return p.finish(Step{State: Failed, Page: p.page, Err: err})
	}

	snapshot, err := p.session.Snapshot(ctx)
	if err != nil {
		p.tel.ReportBroken(report_paginator_next, fmt.Errorf("snapshot: %w", err), p.page+1)
		return p.finish(Step{State: Failed, Page: p.page, Err: err})
	}

	p.page++
	return Step{State: HasMore, Page: p.page, Snapshot: snapshot}
}

func (p *Paginator) finish(step Step) Step {
	p.terminal = &step
	return step
}

func (p *Paginator) click(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= p.opts.ClickAttempts; attempt++ {
		err = p.session.ClickNext(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrClickIntercepted) {
			return &inspection.NavigationError{Attempts: attempt, Err: err}
		}

		p.tel.ReportDebug("click intercepted", attempt, p.page)
		if attempt == p.opts.ClickAttempts {
			break
		}

		select {
		case <-time.After(p.opts.ClickDelay):
		case <-ctx.Done():
			return &inspection.NavigationError{Attempts: attempt, Err: ctx.Err()}
		}
	}
	return &inspection.NavigationError{Attempts: p.opts.ClickAttempts, Err: err}
}

func (p *Paginator) waitForTable(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, p.opts.TableTimeout)
	defer cancel()

	err := p.session.WaitForTable(waitCtx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &inspection.TimeoutError{
			Op:    "wait for report table",
			After: p.opts.TableTimeout,
			Err:   err,
		}
	}
	return err
}
