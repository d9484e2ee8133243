package cmd

import (
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/geocode"
	"foodinspect/pkg/restyutil"
	"time"
)

type GeocodeConfig struct {
	Google    geocode.GoogleOptions `json:"google"`
	DelayMs   int                   `json:"delay_ms"`
	TimeoutMs int                   `json:"timeout_ms"`
}

func DefaultGeocodeConfig() GeocodeConfig {
	enrich := geocode.DefaultEnrichOptions()
	return GeocodeConfig{
		Google:    geocode.DefaultGoogleOptions(),
		DelayMs:   int(enrich.Delay.Milliseconds()),
		TimeoutMs: int(enrich.Timeout.Milliseconds()),
	}
}

func InitEnricher(cfg GeocodeConfig, tel telemetry.API, output restyutil.InstrumentOutput) geocode.Enricher {
	if cfg.Google.ApiKey == "" {
		tel.ReportWarning("init.geocode", "no geocoding api key configured, coordinates will be left empty")
	}
	geocoder := geocode.NewGoogleGeocoder(cfg.Google, tel, output)
	return geocode.NewEnricher(geocoder, geocode.EnrichOptions{
		Delay:   time.Duration(cfg.DelayMs) * time.Millisecond,
		Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}, tel)
}
