package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"
)

const redacted = "<redacted>"

// sensitiveHeaders and sensitiveParams are never written out in full, dumps
// are meant to be shared when the report or an api changes.
var (
	sensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie"}
	sensitiveParams  = []string{"key", "g-recaptcha-response"}
)

func writeHeaders(out *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		for _, v := range headers[k] {
			if slices.Contains(sensitiveHeaders, http.CanonicalHeaderKey(k)) {
				v = redacted
			}
			fmt.Fprintf(out, "%s: %s\n", k, v)
		}
	}
}

func redactQuery(values url.Values) url.Values {
	out := url.Values{}
	for k, vals := range values {
		for _, v := range vals {
			if slices.Contains(sensitiveParams, k) {
				v = redacted
			}
			out.Add(k, v)
		}
	}
	return out
}

// RedactURL returns rawURL with the values of sensitive query parameters
// replaced, it returns rawURL as is when it cannot be parsed.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery == "" {
		return rawURL
	}
	u.RawQuery = redactQuery(u.Query()).Encode()
	return u.String()
}

func requestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return "<no body>"
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("<get body: %s>", err)
	}
	if body == nil || body == http.NoBody {
		return "<no body>"
	}
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<read body: %s>", err)
	}
	if strings.HasPrefix(req.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		form, err := url.ParseQuery(string(raw))
		if err == nil {
			return redactQuery(form).Encode()
		}
	}
	return string(raw)
}

// FormatHttpMessage renders a request/response pair as plain text with
// credentials redacted.
func FormatHttpMessage(res *resty.Response) string {
	var out strings.Builder

	out.WriteString("---- REQUEST ----\n\n")
	fmt.Fprintf(&out, "%s %s\n\n", res.Request.Method, RedactURL(res.Request.URL))
	if res.Request.RawRequest != nil {
		writeHeaders(&out, res.Request.RawRequest.Header)
	}
	out.WriteString("\n")
	out.WriteString(requestBody(res.Request.RawRequest))

	responseUrl := res.Request.URL
	if res.RawResponse != nil {
		location, err := res.RawResponse.Location()
		if err == nil {
			responseUrl = location.String()
		}
	}

	out.WriteString("\n\n---- RESPONSE ----\n\n")
	fmt.Fprintf(&out, "%d %s\n\n", res.StatusCode(), RedactURL(responseUrl))
	writeHeaders(&out, res.Header())
	out.WriteString("\n")
	out.WriteString(res.String())

	return out.String()
}
