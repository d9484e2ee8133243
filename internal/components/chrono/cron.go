package chrono

import (
	"fmt"
	"foodinspect/internal/components/telemetry"
	"time"

	"github.com/robfig/cron/v3"
)

const report_cron_job = "cron.job"

// CronAPI schedules callbacks on cron expressions.
type CronAPI interface {
	Cron(spec string, callback func()) error
	// Next returns when the earliest scheduled callback runs next, zero when
	// nothing is scheduled.
	Next() time.Time
	Stop()
}

// StandardCron runs jobs with `github.com/robfig/cron/v3` in the location of
// a clock. A job still running when its next tick comes skips that tick.
type StandardCron struct {
	cron *cron.Cron
}

func NewStandardCron(time API, tel telemetry.API) StandardCron {
	logger := cronLogger{tel: telemetry.NewScopedAPI("chrono", tel)}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithLocation(time.Location()),
		cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		),
	)
	c.Start()
	return StandardCron{cron: c}
}

func (s StandardCron) Cron(spec string, callback func()) error {
	_, err := s.cron.AddFunc(spec, callback)
	if err != nil {
		return fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	return nil
}

func (s StandardCron) Next() time.Time {
	var next time.Time
	for _, entry := range s.cron.Entries() {
		if next.IsZero() || entry.Next.Before(next) {
			next = entry.Next
		}
	}
	return next
}

// Stop stops scheduling new jobs and waits for running ones to finish.
func (s StandardCron) Stop() {
	<-s.cron.Stop().Done()
}

// cronLogger adapts the logger robfig/cron expects to telemetry.API.
type cronLogger struct {
	tel telemetry.API
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.tel.ReportBroken(report_cron_job, append([]any{fmt.Errorf("%s: %w", msg, err)}, keysAndValues...)...)
}
