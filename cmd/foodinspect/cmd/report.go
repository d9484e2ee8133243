package cmd

import (
	"context"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/inspection"
	"foodinspect/internal/pipeline"
	"foodinspect/internal/report"
	"foodinspect/internal/scrapers/maricopa"
	"foodinspect/pkg/restyutil"
	"time"
)

type ReportConfig struct {
	Markup  report.Markup      `json:"markup"`
	Columns inspection.Columns `json:"columns"`
	Session maricopa.Options   `json:"session"`

	ClickAttempts  int `json:"click_attempts"`
	ClickDelayMs   int `json:"click_delay_ms"`
	TableTimeoutMs int `json:"table_timeout_ms"`
}

func DefaultReportConfig() ReportConfig {
	paginate := report.DefaultPaginateOptions()
	return ReportConfig{
		Markup:         report.DefaultMarkup(),
		Columns:        inspection.DefaultColumns(),
		Session:        maricopa.DefaultOptions(),
		ClickAttempts:  paginate.ClickAttempts,
		ClickDelayMs:   int(paginate.ClickDelay.Milliseconds()),
		TableTimeoutMs: int(paginate.TableTimeout.Milliseconds()),
	}
}

func (c ReportConfig) PaginateOptions() report.PaginateOptions {
	return report.PaginateOptions{
		ClickAttempts: c.ClickAttempts,
		ClickDelay:    time.Duration(c.ClickDelayMs) * time.Millisecond,
		TableTimeout:  time.Duration(c.TableTimeoutMs) * time.Millisecond,
	}
}

// InitLiveOpener returns an opener that submits the live report form.
func InitLiveOpener(cfg ReportConfig, tel telemetry.API, output restyutil.InstrumentOutput) pipeline.SessionOpener {
	if cfg.Session.CaptchaToken == "" {
		tel.ReportWarning("init.report", "no captcha token configured, the report form will likely be rejected")
	}
	return func(ctx context.Context, targetDate string) (report.Session, error) {
		return maricopa.Open(ctx, targetDate, cfg.Markup, cfg.Session, tel, output)
	}
}
