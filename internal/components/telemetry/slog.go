package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SlogAPI implements API with log/slog. Counts are also recorded on an otel
// gauge, which goes nowhere until Setup installs a meter provider.
type SlogAPI struct{}

var (
	countOnce  sync.Once
	countGauge metric.Int64Gauge
)

func reportCountGauge() metric.Int64Gauge {
	countOnce.Do(func() {
		countGauge, _ = otel.Meter("foodinspect").Int64Gauge("report_count")
	})
	return countGauge
}

// attrs turns params into slog key value pairs, the first error is logged
// under "err" and everything else by position.
func (SlogAPI) attrs(head []any, params []any) []any {
	out := head
	sawErr := false
	for i, p := range params {
		if err, ok := p.(error); ok && !sawErr {
			out = append(out, "err", err)
			sawErr = true
			continue
		}
		out = append(out, fmt.Sprintf("params.%d", i), p)
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	slog.Error("broken component", s.attrs([]any{"id", id}, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	slog.Warn("warning", s.attrs([]any{"id", id}, params)...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	slog.Debug(message, s.attrs(nil, params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	slog.Info("count", "id", id, "n", count)
	gauge := reportCountGauge()
	if gauge != nil {
		gauge.Record(context.Background(), count, metric.WithAttributes(attribute.String("id", id)))
	}
}

// InitSlog sets the default slog logger to a colored handler on stderr.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}
