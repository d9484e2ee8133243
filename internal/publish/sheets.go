package publish

import (
	"context"
	"fmt"
	"foodinspect/internal/components/assert"
	"foodinspect/internal/components/telemetry"
	"foodinspect/pkg/restyutil"
	"time"

	"github.com/go-resty/resty/v2"
)

type SheetsOptions struct {
	Endpoint      string `json:"endpoint"`
	SpreadsheetId string `json:"spreadsheet_id"`
	// Token is an OAuth2 bearer token with the spreadsheets scope.
	Token string `json:"token"`
}

func DefaultSheetsOptions() SheetsOptions {
	return SheetsOptions{
		Endpoint: "https://sheets.googleapis.com/v4/spreadsheets",
	}
}

// SheetsSink writes each view to the worksheet of the same name in a Google
// spreadsheet. The worksheets must already exist.
type SheetsSink struct {
	http *resty.Client
}

func NewSheetsSink(opts SheetsOptions, tel telemetry.API, output restyutil.InstrumentOutput) SheetsSink {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.Endpoint)
	assert.NotEmptyStr(opts.SpreadsheetId)

	tel = telemetry.NewScopedAPI("sheets", tel)

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.Endpoint)
	httpClient.SetTimeout(time.Second * 30)
	httpClient.SetAuthToken(opts.Token)
	httpClient.SetPathParam("spreadsheet", opts.SpreadsheetId)
	telemetry.InstrumentResty(httpClient, tel, output)

	return SheetsSink{http: httpClient}
}

func (s SheetsSink) Name() string {
	return "sheets"
}

type sheetsError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func responseError(res *resty.Response) error {
	apiErr, ok := res.Error().(*sheetsError)
	if ok && apiErr.Error.Message != "" {
		return fmt.Errorf("sheets api %s: %s", apiErr.Error.Status, apiErr.Error.Message)
	}
	return fmt.Errorf("sheets api responded with http %d", res.StatusCode())
}

type valueRange struct {
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

// Write clears the worksheet then writes the grid from A1.
func (s SheetsSink) Write(ctx context.Context, view View) error {
	res, err := s.http.R().
		SetContext(ctx).
		SetPathParam("range", view.Name).
		SetError(&sheetsError{}).
		Post("/{spreadsheet}/values/{range}:clear")
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("clear: %w", responseError(res))
	}

	target := view.Name + "!A1"
	res, err = s.http.R().
		SetContext(ctx).
		SetPathParam("range", target).
		SetQueryParam("valueInputOption", "RAW").
		SetBody(valueRange{
			Range:          target,
			MajorDimension: "ROWS",
			Values:         view.Grid(),
		}).
		SetError(&sheetsError{}).
		Put("/{spreadsheet}/values/{range}")
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("update: %w", responseError(res))
	}
	return nil
}
