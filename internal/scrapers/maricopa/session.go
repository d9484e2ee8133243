// Package maricopa talks to the Maricopa County environmental services site
// over plain http.
package maricopa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"foodinspect/internal/components/assert"
	"foodinspect/internal/components/telemetry"
	"foodinspect/internal/inspection"
	"foodinspect/internal/report"
	"foodinspect/pkg/htmlutil"
	"foodinspect/pkg/restyutil"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_session_open           = "session.open"
	report_session_click_next     = "session.click-next"
	report_session_wait_for_table = "session.wait-for-table"
)

type Options struct {
	// ReportPath is the path of the weekly report form, relative to the markup base url.
	ReportPath string `json:"report_path"`
	// DateField is the name of the form field carrying the report end date.
	DateField string `json:"date_field"`
	// CaptchaField is the name of the form field carrying the captcha response.
	CaptchaField string `json:"captcha_field"`
	// CaptchaToken is a pre-solved captcha response token.
	CaptchaToken string `json:"captcha_token"`
	// PollIntervalMs is how long to wait before fetching a page again when it
	// came back without the report table.
	PollIntervalMs int `json:"poll_interval_ms"`
	// RequestsPerSecond limits the request rate against the site.
	RequestsPerSecond float64 `json:"requests_per_second"`
}

func DefaultOptions() Options {
	return Options{
		ReportPath:        "/Report/WeeklyReport",
		DateField:         "endDate",
		CaptchaField:      "g-recaptcha-response",
		PollIntervalMs:    2000,
		RequestsPerSecond: 2,
	}
}

// Session is a report.Session over the server rendered report. It holds the
// markup of the page it is currently on and the url it was fetched from.
type Session struct {
	http    *resty.Client
	base    *url.URL
	markup  report.Markup
	opts    Options
	tel     telemetry.API
	current string
	page    string
}

// Open loads the report form, submits it for targetDate and returns a session
// positioned on the first page of results.
func Open(
	ctx context.Context,
	targetDate string,
	markup report.Markup,
	opts Options,
	tel telemetry.API,
	output restyutil.InstrumentOutput,
) (*Session, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(targetDate)

	tel = telemetry.NewScopedAPI("maricopa", tel)

	base, err := url.Parse(markup.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(markup.BaseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(base.Hostname()))
	httpClient.SetTimeout(time.Second * 30)

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	rateLimiter := rate.NewLimiter(limit, 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel, output)

	s := &Session{
		http:   httpClient,
		base:   base,
		markup: markup,
		opts:   opts,
		tel:    tel,
	}
	err = s.submit(ctx, targetDate)
	if err != nil {
		tel.ReportBroken(report_session_open, err, targetDate)
		s.Close()
		return nil, err
	}
	return s, nil
}

func parseBody(res *resty.Response) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
}

// submit fills the report form the same way a visitor would: every hidden
// input is carried over (which includes the anti-forgery token when the site
// sets one), then the date and captcha fields are set.
func (s *Session) submit(ctx context.Context, targetDate string) error {
	res, err := s.http.R().
		SetContext(ctx).
		Get(s.opts.ReportPath)
	if err != nil {
		return fmt.Errorf("fetch report form: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("fetch report form: http %d", res.StatusCode())
	}
	doc, err := parseBody(res)
	if err != nil {
		return fmt.Errorf("parse report form: %w", err)
	}

	form := doc.Find(fmt.Sprintf(`form:has([name="%s"])`, s.opts.DateField)).First()
	action := s.opts.ReportPath
	fields := map[string]string{}
	if form.Length() > 0 {
		if formAction := form.AttrOr("action", ""); formAction != "" {
			action = formAction
		}
		form.Find(`input[type="hidden"][name]`).Each(func(_ int, input *goquery.Selection) {
			fields[input.AttrOr("name", "")] = input.AttrOr("value", "")
		})
	} else {
		s.tel.ReportWarning(report_session_open, fmt.Errorf("report form not found, posting to %s", action))
	}
	fields[s.opts.DateField] = targetDate
	if s.opts.CaptchaToken != "" {
		fields[s.opts.CaptchaField] = s.opts.CaptchaToken
	}

	target, err := htmlutil.ResolveHref(s.base, action)
	if err != nil {
		return fmt.Errorf("resolve form action: %w", err)
	}

	// The captcha token is single use, the form is posted once and later
	// reloads fetch the page the post landed on.
	s.page = target
	err = s.load(ctx, func(ctx context.Context) (*resty.Response, error) {
		return s.http.R().
			SetContext(ctx).
			SetFormData(fields).
			Post(target)
	})
	if err != nil {
		return err
	}
	doc, err = s.document()
	if err != nil {
		return fmt.Errorf("parse report: %w", err)
	}
	if !report.HasTable(doc, s.markup) {
		return &inspection.StructuralError{
			What: "report table missing after submitting the form, the captcha token may have been rejected",
		}
	}
	return nil
}

func (s *Session) get(target string) func(ctx context.Context) (*resty.Response, error) {
	return func(ctx context.Context) (*resty.Response, error) {
		return s.http.R().
			SetContext(ctx).
			Get(target)
	}
}

func (s *Session) load(ctx context.Context, send func(ctx context.Context) (*resty.Response, error)) error {
	res, err := send(ctx)
	if err != nil {
		return err
	}
	switch {
	case res.StatusCode() == http.StatusTooManyRequests,
		res.StatusCode() == http.StatusServiceUnavailable:
		return fmt.Errorf("%w: http %d", report.ErrClickIntercepted, res.StatusCode())
	case res.IsError():
		return fmt.Errorf("http %d", res.StatusCode())
	}
	s.current = res.String()
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		s.page = res.RawResponse.Request.URL.String()
	}
	return nil
}

func (s *Session) Snapshot(ctx context.Context) (string, error) {
	return s.current, nil
}

func (s *Session) document() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewBufferString(s.current))
}

// NextControl reads the next control of the current page. A control without a
// link target only works with scripts enabled and cannot be followed, so it is
// reported as missing.
func (s *Session) NextControl(ctx context.Context) (report.NextControl, error) {
	doc, err := s.document()
	if err != nil {
		return report.NextControl{}, err
	}
	control, err := report.ParseNextControl(doc, s.markup)
	if err != nil {
		return report.NextControl{}, err
	}
	if !control.Disabled && control.Href == "" {
		return report.NextControl{}, fmt.Errorf("%w: next control has no link target", report.ErrControlMissing)
	}
	return control, nil
}

func (s *Session) ClickNext(ctx context.Context) error {
	control, err := s.NextControl(ctx)
	if err != nil {
		return err
	}
	if control.Disabled {
		return errors.New("next control is disabled")
	}
	target, err := htmlutil.ResolveHref(s.base, control.Href)
	if err != nil {
		return fmt.Errorf("resolve next link: %w", err)
	}

	s.page = target
	err = s.load(ctx, s.get(target))
	if err != nil && !errors.Is(err, report.ErrClickIntercepted) {
		s.tel.ReportBroken(report_session_click_next, err, target)
	}
	return err
}

// WaitForTable returns once the current page has the report table, getting
// the page again every poll interval until ctx is done. The report form is
// never posted again.
func (s *Session) WaitForTable(ctx context.Context) error {
	interval := time.Duration(s.opts.PollIntervalMs) * time.Millisecond
	for {
		doc, err := s.document()
		if err != nil {
			return err
		}
		if report.HasTable(doc, s.markup) {
			return nil
		}

		s.tel.ReportDebug("report table not present yet, reloading")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}

		err = s.load(ctx, s.get(s.page))
		if err != nil && !errors.Is(err, report.ErrClickIntercepted) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.tel.ReportWarning(report_session_wait_for_table, err)
		}
	}
}

func (s *Session) Close() error {
	s.http.GetClient().CloseIdleConnections()
	return nil
}
