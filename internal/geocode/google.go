package geocode

import (
	"context"
	"errors"
	"fmt"
	"foodinspect/internal/components/assert"
	"foodinspect/internal/components/telemetry"
	"foodinspect/pkg/restyutil"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	report_google_geocode = "google.geocode"
)

// ErrNoResults is returned when the lookup succeeded but matched nothing.
var ErrNoResults = errors.New("no results")

// StatusError is a response whose status is not OK.
type StatusError struct {
	// HttpStatus is 0 when the http exchange succeeded and Status carries the
	// api level failure.
	HttpStatus int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.HttpStatus != 0 {
		return fmt.Sprintf("geocoding api responded with http %d", e.HttpStatus)
	}
	if e.Message != "" {
		return fmt.Sprintf("geocoding api status %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("geocoding api status %s", e.Status)
}

type Coordinates struct {
	Lat float64
	Lng float64
}

// Geocoder resolves one free text address.
//
// note: fault injection point
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

type GoogleOptions struct {
	Endpoint string `json:"endpoint"`
	ApiKey   string `json:"api_key"`
}

func DefaultGoogleOptions() GoogleOptions {
	return GoogleOptions{
		Endpoint: "https://maps.googleapis.com/maps/api/geocode/json",
	}
}

type GoogleGeocoder struct {
	http     *resty.Client
	endpoint string
	apiKey   string
	tel      telemetry.API
}

// NewGoogleGeocoder creates a client for the Google Geocoding api. output may
// be nil.
func NewGoogleGeocoder(opts GoogleOptions, tel telemetry.API, output restyutil.InstrumentOutput) GoogleGeocoder {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.Endpoint)

	tel = telemetry.NewScopedAPI("geocode", tel)

	httpClient := resty.New()
	httpClient.SetTimeout(time.Second * 30)
	httpClient.SetHeader("accept", "application/json")
	telemetry.InstrumentResty(httpClient, tel, output)

	return GoogleGeocoder{
		http:     httpClient,
		endpoint: opts.Endpoint,
		apiKey:   opts.ApiKey,
		tel:      tel,
	}
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location *googleLocation `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g GoogleGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	var body googleResponse
	res, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"address": address,
			"key":     g.apiKey,
		}).
		SetResult(&body).
		Get(g.endpoint)
	if err != nil {
		return Coordinates{}, fmt.Errorf("fetch: %w", err)
	}
	if res.IsError() {
		return Coordinates{}, &StatusError{HttpStatus: res.StatusCode()}
	}
	if body.Status != "OK" {
		if body.Status == "ZERO_RESULTS" {
			return Coordinates{}, ErrNoResults
		}
		err := &StatusError{Status: body.Status, Message: body.ErrorMessage}
		if body.Status == "REQUEST_DENIED" || body.Status == "OVER_QUERY_LIMIT" {
			g.tel.ReportBroken(report_google_geocode, err)
		}
		return Coordinates{}, err
	}
	if len(body.Results) == 0 || body.Results[0].Geometry.Location == nil {
		return Coordinates{}, ErrNoResults
	}

	location := body.Results[0].Geometry.Location
	return Coordinates{Lat: location.Lat, Lng: location.Lng}, nil
}
