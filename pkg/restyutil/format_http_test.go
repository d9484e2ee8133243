package restyutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestFormatHttpMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Report", "weekly")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	res, err := resty.New().R().
		SetFormData(map[string]string{
			"endDate":              "10-02-2026",
			"g-recaptcha-response": "solved-token",
		}).
		Post(server.URL + "/Report/WeeklyReport")
	require.NoError(t, err)

	message := FormatHttpMessage(res)
	require.Contains(t, message, "POST "+server.URL+"/Report/WeeklyReport")
	require.Contains(t, message, "418")
	require.Contains(t, message, "X-Report: weekly")
	require.Contains(t, message, "endDate=10-02-2026")
	require.NotContains(t, message, "solved-token")
	require.True(t, strings.HasSuffix(message, "short and stout"))
}

func TestFormatHttpMessageRedactsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	res, err := resty.New().R().
		SetAuthToken("sheets-token").
		SetQueryParams(map[string]string{
			"address": "1 E Washington St, Phoenix, AZ",
			"key":     "maps-key",
		}).
		Get(server.URL + "/geocode/json")
	require.NoError(t, err)

	message := FormatHttpMessage(res)
	require.NotContains(t, message, "sheets-token")
	require.NotContains(t, message, "maps-key")
	require.Contains(t, message, "Authorization: "+redacted)
	require.Contains(t, message, "address=1+E+Washington")
	require.Contains(t, message, "<no body>")
}

func TestRequestBodyWithoutContent(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://envapp.maricopa.gov/Report", nil)
	require.NoError(t, err)
	req.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	require.Equal(t, "<no body>", requestBody(req))

	req.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
	require.Equal(t, "<no body>", requestBody(req))
}

func TestRedactURL(t *testing.T) {
	require.Equal(t,
		"https://maps.googleapis.com/maps/api/geocode/json?address=Mesa&key=%3Credacted%3E",
		RedactURL("https://maps.googleapis.com/maps/api/geocode/json?address=Mesa&key=secret"),
	)
	require.Equal(t, "https://envapp.maricopa.gov/Report", RedactURL("https://envapp.maricopa.gov/Report"))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	out.Write("1", "contents")

	written, err := os.ReadFile(filepath.Join(dir, "1"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(written))
}
