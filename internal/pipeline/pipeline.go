// Package pipeline runs the weekly report end to end: scrape, assemble,
// classify, enrich and publish.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"foodinspect/internal/archive"
	"foodinspect/internal/classify"
	"foodinspect/internal/components/assert"
	"foodinspect/internal/components/chrono"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/db"
	"foodinspect/internal/geocode"
	"foodinspect/internal/inspection"
	"foodinspect/internal/publish"
	"foodinspect/internal/report"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_pipeline_run    = "pipeline.run"
	report_pipeline_scrape = "pipeline.scrape"
)

var tracer = telemetry.Tracer("foodinspect/internal/pipeline")

// SessionOpener opens a report session positioned on the first page of the
// report for targetDate.
type SessionOpener = func(ctx context.Context, targetDate string) (report.Session, error)

// Recorder archives the snapshots of a run.
//
// note: fault injection point
type Recorder interface {
	StartRun(ctx context.Context, targetDate string) (int64, error)
	SaveSnapshot(ctx context.Context, runId int64, page int, html string) error
	FinishRun(ctx context.Context, runId int64, result archive.RunResult) error
}

type Options struct {
	Markup   report.Markup
	Columns  inspection.Columns
	Paginate report.PaginateOptions
	Classify classify.Params
}

type Pipeline struct {
	open      SessionOpener
	extractor report.Extractor
	enricher  geocode.Enricher
	publisher publish.Publisher
	recorder  Recorder
	opts      Options
	time      chrono.API
	tel       telemetry.API
}

// NewPipeline creates a pipeline, recorder may be nil.
func NewPipeline(
	open SessionOpener,
	enricher geocode.Enricher,
	publisher publish.Publisher,
	recorder Recorder,
	opts Options,
	time chrono.API,
	tel telemetry.API,
) (Pipeline, error) {
	assert.NotNil(open)
	assert.NotNil(time)
	assert.NotNil(tel)

	extractor, err := report.NewExtractor(opts.Markup, opts.Columns.DetailLink, tel)
	if err != nil {
		return Pipeline{}, err
	}

	return Pipeline{
		open:      open,
		extractor: extractor,
		enricher:  enricher,
		publisher: publisher,
		recorder:  recorder,
		opts:      opts,
		time:      time,
		tel:       telemetry.NewScopedAPI("pipeline", tel),
	}, nil
}

type Result struct {
	// RunId is 0 when the run was not archived.
	RunId          int64
	TargetDate     string
	Assembly       report.Assembly
	Classification classify.Classification
	Misses         []*inspection.GeocodeMiss
	Views          publish.ViewSet
	Publication    publish.Report
	// SummaryOnly is set when no record qualified and only the summary was published.
	SummaryOnly bool
	// Stop is the terminal step of the paginator.
	Stop report.Step
}

// Run runs the pipeline for the report date of the current week.
func (p Pipeline) Run(ctx context.Context) (Result, error) {
	return p.RunFor(ctx, TargetDate(p.time.Now()))
}

// RunFor runs the pipeline for the given report date. A run that scraped
// successfully always publishes at least the summary. Publication failures are
// returned as an error alongside the full result.
func (p Pipeline) RunFor(ctx context.Context, targetDate string) (result Result, err error) {
	ctx, span := tracer.Start(ctx, "RunFor")
	defer span.End()
	span.SetAttributes(attribute.String("target_date", targetDate))

	result.TargetDate = targetDate
	result.RunId = p.startRun(ctx, targetDate)
	defer func() {
		p.finishRun(ctx, result, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "run failed")
		}
	}()

	session, err := p.open(ctx, targetDate)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_run, fmt.Errorf("open session: %w", err), targetDate)
		return result, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		closeErr := session.Close()
		if closeErr != nil {
			p.tel.ReportWarning(report_pipeline_run, fmt.Errorf("close session: %w", closeErr))
		}
	}()

	assembly, stop, err := p.scrape(ctx, session, result.RunId)
	result.Assembly = assembly
	result.Stop = stop
	if err != nil {
		return result, err
	}

	params := p.opts.Classify
	params.WeekOf = targetDate
	classification := classify.Classify(assembly.Records, params)
	result.Classification = classification
	for _, invalid := range classification.Invalid {
		p.tel.ReportWarning(report_pipeline_run, invalid)
	}

	if len(classification.Qualifying) == 0 {
		p.tel.ReportDebug("no record qualified, publishing summary only", targetDate)
		result.SummaryOnly = true
		result.Views = publish.SummaryOnly(classification.Summary)
	} else {
		enriched, misses := p.enricher.Enrich(ctx, classification.Qualifying)
		result.Misses = misses
		result.Views = publish.BuildViews(classification, enriched, assembly.Schema)
	}

	result.Publication = p.publisher.Publish(ctx, result.Views)
	pubErr := result.Publication.Err()
	if pubErr != nil {
		return result, fmt.Errorf("publish: %w", pubErr)
	}
	return result, nil
}

func (p Pipeline) scrape(ctx context.Context, session report.Session, runId int64) (report.Assembly, report.Step, error) {
	ctx, span := tracer.Start(ctx, "scrape")
	defer span.End()

	paginator := report.NewPaginator(session, p.opts.Paginate, p.tel)
	assembler := report.NewAssembler(p.opts.Columns, p.tel)

	for {
		step := paginator.Next(ctx)
		switch step.State {
		case report.Exhausted:
			span.SetAttributes(attribute.Int("pages", assembler.Result().Pages))
			return assembler.Result(), step, nil
		case report.Failed:
			return assembler.Result(), step, fmt.Errorf("scrape page %d: %w", step.Page+1, step.Err)
		}

		p.saveSnapshot(ctx, runId, step)

		page, err := p.extractor.Extract(ctx, step.Snapshot)
		if err != nil {
			p.tel.ReportBroken(report_pipeline_scrape, err, step.Page)
			return assembler.Result(), step, fmt.Errorf("extract page %d: %w", step.Page, err)
		}

		// drift is reported by the assembler and does not stop the run
		var drift *inspection.SchemaDriftError
		err = assembler.Add(page)
		if err != nil && !errors.As(err, &drift) {
			return assembler.Result(), step, err
		}
	}
}

func (p Pipeline) startRun(ctx context.Context, targetDate string) int64 {
	if p.recorder == nil {
		return 0
	}
	id, err := p.recorder.StartRun(ctx, targetDate)
	if err != nil {
		p.tel.ReportWarning(report_pipeline_run, fmt.Errorf("start archived run: %w", err))
		return 0
	}
	return id
}

func (p Pipeline) saveSnapshot(ctx context.Context, runId int64, step report.Step) {
	if p.recorder == nil || runId == 0 {
		return
	}
	err := p.recorder.SaveSnapshot(ctx, runId, step.Page, step.Snapshot)
	if err != nil {
		p.tel.ReportWarning(report_pipeline_run, fmt.Errorf("archive snapshot: %w", err), step.Page)
	}
}

func (p Pipeline) finishRun(ctx context.Context, result Result, err error) {
	if p.recorder == nil || result.RunId == 0 {
		return
	}

	outcome := db.OUTCOME_PUBLISHED
	message := ""
	switch {
	case err != nil:
		outcome = db.OUTCOME_FAILED
		message = err.Error()
	case result.SummaryOnly:
		outcome = db.OUTCOME_SUMMARY_ONLY
	}

	// recorded even when ctx is already cancelled
	finishErr := p.recorder.FinishRun(context.WithoutCancel(ctx), result.RunId, archive.RunResult{
		Outcome: outcome,
		Pages:   result.Assembly.Pages,
		Records: len(result.Assembly.Records),
		Message: message,
	})
	if finishErr != nil {
		p.tel.ReportWarning(report_pipeline_run, fmt.Errorf("finish archived run: %w", finishErr))
	}
}
