package publish

import (
	"context"
	"errors"
	"fmt"
	"foodinspect/internal/components/assert"
	"foodinspect/internal/components/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_publisher_publish = "publisher.publish"
)

var tracer = telemetry.Tracer("foodinspect/internal/publish")

// Sink is a destination that stores named views. Write replaces the whole
// view, it never appends.
//
// note: fault injection point
type Sink interface {
	Name() string
	Write(ctx context.Context, view View) error
}

// ViewFilter is implemented by sinks that only take some of the views.
// Publish does not hand them the others.
type ViewFilter interface {
	Accepts(view string) bool
}

func accepts(sink Sink, view string) bool {
	filter, ok := sink.(ViewFilter)
	return !ok || filter.Accepts(view)
}

// Failure is one view that could not be written to one sink.
type Failure struct {
	Sink string
	View string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("write %s to %s: %s", f.View, f.Sink, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

type Report struct {
	// Written lists "<sink>/<view>" for every successful write.
	Written  []string
	Failures []Failure
}

// Err joins every failure, it is nil when all writes succeeded.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

type Publisher struct {
	sinks []Sink
	tel   telemetry.API
}

func NewPublisher(tel telemetry.API, sinks ...Sink) Publisher {
	assert.NotNil(tel)
	for _, s := range sinks {
		assert.NotNil(s)
	}
	return Publisher{
		sinks: sinks,
		tel:   telemetry.NewScopedAPI("publish", tel),
	}
}

// Publish writes every view to every sink. Writes are independent: a failed
// write is recorded and the remaining writes still happen.
func (p Publisher) Publish(ctx context.Context, views ViewSet) Report {
	var report Report
	for _, sink := range p.sinks {
		for _, view := range views {
			if !accepts(sink, view.Name) {
				continue
			}
			err := p.write(ctx, sink, view)
			if err != nil {
				failure := Failure{Sink: sink.Name(), View: view.Name, Err: err}
				p.tel.ReportBroken(report_publisher_publish, failure)
				report.Failures = append(report.Failures, failure)
				continue
			}
			report.Written = append(report.Written, sink.Name()+"/"+view.Name)
		}
	}
	p.tel.ReportCount(report_publisher_publish, int64(len(report.Written)))
	return report
}

func (p Publisher) write(ctx context.Context, sink Sink, view View) error {
	ctx, span := tracer.Start(ctx, "Write")
	defer span.End()
	span.SetAttributes(
		attribute.String("sink", sink.Name()),
		attribute.String("view", view.Name),
		attribute.Int("rows", len(view.Rows)),
	)

	p.tel.ReportDebug("write view", sink.Name(), view.Name, len(view.Rows))
	err := sink.Write(ctx, view)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
	}
	return err
}
