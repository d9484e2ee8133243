package cmd

import (
	"context"
	"errors"
	"fmt"
	"foodinspect/internal/components/chrono"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/db"
	"foodinspect/internal/pipeline"
	"foodinspect/internal/report"
	"foodinspect/pkg/restyutil"
	"foodinspect/pkg/serviceutil"
	"log/slog"
	"os"
	"time"
)

var errArchiveDisabled = errors.New("the archive is disabled")

// App holds everything a command needs, built once from the config.
type App struct {
	Config  Config
	Time    chrono.API
	Tel     telemetry.API
	Output  restyutil.InstrumentOutput
	Archive *Archive

	otel *telemetry.Telemetry
}

func InitApp(ctx context.Context, cfg Config) (*App, error) {
	app := &App{Config: cfg, Tel: telemetry.SlogAPI{}}

	otel, err := telemetry.SetupFromEnv(ctx, "foodinspect")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("telemetry.json5 not found, traces and metrics are disabled")
	} else if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	} else {
		app.otel = &otel
	}

	clock, err := chrono.NewStandardImpl()
	if err != nil {
		return nil, fmt.Errorf("init time: %w", err)
	}
	app.Time = clock

	if cfg.HttpDumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(cfg.HttpDumpDir)
		if err != nil {
			return nil, fmt.Errorf("init http dump dir: %w", err)
		}
		app.Output = output
	}

	if !cfg.Archive.Disabled {
		archive, err := InitArchive(cfg.Archive, app.Time, app.Tel)
		if err != nil {
			return nil, fmt.Errorf("init archive: %w", err)
		}
		app.Archive = &archive
	}

	return app, nil
}

// MustInitApp loads the config and builds the app, exiting on failure.
func MustInitApp(ctx context.Context) *App {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		serviceutil.Fatal("load config", err)
	}
	app, err := InitApp(ctx, cfg)
	if err != nil {
		serviceutil.Fatal("init", err)
	}
	return app
}

func (a *App) makeTx() db.MakeTx {
	if a.Archive == nil {
		return nil
	}
	return a.Archive.MakeTx
}

// Pipeline builds a pipeline reading from open. Runs are archived only when
// record is set and the archive is enabled.
func (a *App) Pipeline(open pipeline.SessionOpener, record bool) (pipeline.Pipeline, error) {
	publisher, err := InitPublisher(a.Config.Sinks, a.makeTx(), a.Time, a.Tel, a.Output)
	if err != nil {
		return pipeline.Pipeline{}, err
	}

	var recorder pipeline.Recorder
	if record && a.Archive != nil {
		recorder = a.Archive.Archive
	}

	return pipeline.NewPipeline(
		open,
		InitEnricher(a.Config.Geocode, a.Tel, a.Output),
		publisher,
		recorder,
		pipeline.Options{
			Markup:   a.Config.Report.Markup,
			Columns:  a.Config.Report.Columns,
			Paginate: a.Config.Report.PaginateOptions(),
			Classify: a.Config.Classify,
		},
		a.Time,
		a.Tel,
	)
}

// LivePipeline builds a pipeline over the live report that archives its runs.
func (a *App) LivePipeline() (pipeline.Pipeline, error) {
	return a.Pipeline(InitLiveOpener(a.Config.Report, a.Tel, a.Output), true)
}

// ReplayOpener opens sessions over the archived snapshots of runId.
func (a *App) ReplayOpener(runId int64) (pipeline.SessionOpener, error) {
	if a.Archive == nil {
		return nil, errArchiveDisabled
	}
	archive := a.Archive.Archive
	markup := a.Config.Report.Markup
	return func(ctx context.Context, targetDate string) (report.Session, error) {
		return archive.OpenSession(ctx, runId, markup)
	}, nil
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if a.otel != nil {
		err := a.otel.Shutdown(ctx)
		if err != nil {
			slog.Warn("shutdown telemetry", "err", err)
		}
	}
	if a.Archive != nil {
		err := a.Archive.DB.Close()
		if err != nil {
			slog.Warn("close database", "err", err)
		}
	}
}
