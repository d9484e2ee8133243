package telemetry

import (
	"context"
	"errors"
	"foodinspect/pkg/configutil"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns a named tracer from the global provider, spans go nowhere
// until Setup has installed a provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Endpoint is an OTLP collector reachable over grpc or http, grpc wins when
// both are set. An endpoint with neither is disabled.
type Endpoint struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (e Endpoint) enabled() bool {
	return e.GrpcEndpoint != "" || e.HttpEndpoint != ""
}

type Config struct {
	Otlp struct {
		Traces  Endpoint `json:"traces"`
		Metrics Endpoint `json:"metrics"`
	} `json:"otlp"`
	// MetricIntervalSec is how often metrics are pushed, defaults to 30.
	MetricIntervalSec int `json:"metric_interval_sec"`
}

// Telemetry holds the providers installed by Setup, either may be nil.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
}

// Shutdown flushes and stops both providers.
func (t Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.TracerProvider != nil {
		errs = append(errs, t.TracerProvider.Shutdown(ctx))
	}
	if t.MeterProvider != nil {
		errs = append(errs, t.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// SetupFromEnv reads telemetry.json5 from the working directory or one of its
// parents and calls Setup with it. It returns os.ErrNotExist when there is no
// such file.
func SetupFromEnv(ctx context.Context, serviceName string) (Telemetry, error) {
	config, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, config)
}

// Setup installs global trace and meter providers exporting to the configured
// endpoints.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return Telemetry{}, err
	}

	var out Telemetry

	if config.Otlp.Traces.enabled() {
		exporter, err := traceExporter(ctx, config.Otlp.Traces)
		if err != nil {
			return Telemetry{}, err
		}
		out.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(r),
		)
		otel.SetTracerProvider(out.TracerProvider)
	}

	if config.Otlp.Metrics.enabled() {
		exporter, err := metricExporter(ctx, config.Otlp.Metrics)
		if err != nil {
			out.Shutdown(context.Background())
			return Telemetry{}, err
		}
		interval := time.Second * 30
		if config.MetricIntervalSec > 0 {
			interval = time.Duration(config.MetricIntervalSec) * time.Second
		}
		out.MeterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
			sdkmetric.WithResource(r),
		)
		otel.SetMeterProvider(out.MeterProvider)
	}

	return out, nil
}

func traceExporter(ctx context.Context, e Endpoint) (sdktrace.SpanExporter, error) {
	if e.GrpcEndpoint != "" {
		slog.Info("exporting traces", "type", "grpc", "endpoint", e.GrpcEndpoint)
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(e.GrpcEndpoint),
			otlptracegrpc.WithHeaders(e.Headers),
		)
	}
	slog.Info("exporting traces", "type", "http", "endpoint", e.HttpEndpoint)
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(e.HttpEndpoint),
		otlptracehttp.WithHeaders(e.Headers),
	)
}

func metricExporter(ctx context.Context, e Endpoint) (sdkmetric.Exporter, error) {
	if e.GrpcEndpoint != "" {
		slog.Info("exporting metrics", "type", "grpc", "endpoint", e.GrpcEndpoint)
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(e.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(e.Headers),
		)
	}
	slog.Info("exporting metrics", "type", "http", "endpoint", e.HttpEndpoint)
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(e.HttpEndpoint),
		otlpmetrichttp.WithHeaders(e.Headers),
	)
}

const report_perf_stats = "perf-stats.sample"

// InstrumentPerfStats samples the cpu and memory use of this process every 30
// seconds until ctx is done, it is only worth running in the daemon.
func InstrumentPerfStats(ctx context.Context, tel API) {
	meter := otel.Meter("foodinspect/perf")
	cpuGauge, _ := meter.Float64Gauge("process_cpu_percent")
	rssGauge, _ := meter.Int64Gauge("process_rss_mb")
	goroutineGauge, _ := meter.Int64Gauge("goroutine_count")

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		tel.ReportWarning(report_perf_stats, err)
		return
	}

	go func() {
		ticker := time.NewTicker(time.Second * 30)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			cpu, err := proc.PercentWithContext(ctx, 0)
			if err != nil {
				tel.ReportWarning(report_perf_stats, err)
			} else {
				cpuGauge.Record(ctx, cpu)
			}
			mem, err := proc.MemoryInfoWithContext(ctx)
			if err != nil {
				tel.ReportWarning(report_perf_stats, err)
			} else {
				rssGauge.Record(ctx, int64(mem.RSS/1_000_000))
			}
			goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
		}
	}()
}
