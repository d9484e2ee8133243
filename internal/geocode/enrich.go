// Package geocode resolves the mailing addresses of qualifying records to
// coordinates.
package geocode

import (
	"context"
	"fmt"
	"foodinspect/internal/components/assert"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/inspection"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

const (
	report_enricher_enrich = "enricher.enrich"
)

var tracer = telemetry.Tracer("foodinspect/internal/geocode")

type EnrichOptions struct {
	// Delay is the minimum time between the start of two lookups.
	Delay time.Duration
	// Timeout bounds a single lookup.
	Timeout time.Duration
}

func DefaultEnrichOptions() EnrichOptions {
	return EnrichOptions{
		Delay:   time.Millisecond * 100,
		Timeout: time.Second * 10,
	}
}

type Enricher struct {
	geocoder Geocoder
	limiter  *rate.Limiter
	timeout  time.Duration
	tel      telemetry.API
}

func NewEnricher(geocoder Geocoder, opts EnrichOptions, tel telemetry.API) Enricher {
	assert.NotNil(geocoder)
	assert.NotNil(tel)

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	return Enricher{
		geocoder: geocoder,
		limiter:  rate.NewLimiter(limit, 1),
		timeout:  opts.Timeout,
		tel:      telemetry.NewScopedAPI("geocode", tel),
	}
}

func addressOf(r inspection.Record) string {
	if r.MailingAddress != "" {
		return r.MailingAddress
	}
	return r.Address
}

// Enrich looks up the coordinates of every record, one address at a time. It
// always returns one record per input record, those that could not be
// resolved keep nil coordinates and have a matching GeocodeMiss.
func (e Enricher) Enrich(ctx context.Context, records []inspection.Record) ([]inspection.Record, []*inspection.GeocodeMiss) {
	ctx, span := tracer.Start(ctx, "Enrich")
	defer span.End()

	out := make([]inspection.Record, len(records))
	var misses []*inspection.GeocodeMiss

	for i, r := range records {
		r = r.Clone()
		r.Latitude = nil
		r.Longitude = nil
		out[i] = r

		address := addressOf(r)
		coords, err := e.lookup(ctx, address)
		if err != nil {
			miss := &inspection.GeocodeMiss{Address: address, Err: err}
			e.tel.ReportWarning(report_enricher_enrich, miss)
			misses = append(misses, miss)
			continue
		}

		lat := coords.Lat
		lng := coords.Lng
		out[i].Latitude = &lat
		out[i].Longitude = &lng
	}

	e.tel.ReportCount(report_enricher_enrich, int64(len(records)-len(misses)))
	span.SetAttributes(
		attribute.Int("records", len(records)),
		attribute.Int("misses", len(misses)),
	)
	return out, misses
}

func (e Enricher) lookup(ctx context.Context, address string) (Coordinates, error) {
	err := e.limiter.Wait(ctx)
	if err != nil {
		return Coordinates{}, fmt.Errorf("wait for rate limit: %w", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	e.tel.ReportDebug("geocode", address)
	return e.geocoder.Geocode(ctx, address)
}
