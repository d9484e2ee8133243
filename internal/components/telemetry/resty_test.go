package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.messages[id] = contents
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	tel := NewTestAPI(t)
	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentResty(client, tel, output)

	_, err := client.R().
		SetQueryParam("key", "maps-key").
		Get(server.URL + "/geocode/json")
	require.NoError(t, err)

	require.Len(t, tel.Reports("debug", report_resty_request), 1)
	require.Len(t, tel.Reports("debug", report_resty_response), 1)
	require.Contains(t, output.messages, "1")
	require.True(t, strings.Contains(output.messages["1"], "200"))
	require.NotContains(t, output.messages["1"], "maps-key")
}

func TestInstrumentRestyReportsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	tel := NewTestAPI(t)
	client := resty.New()
	InstrumentResty(client, tel, nil)

	_, err := client.R().Get(server.URL)
	require.Error(t, err)
	require.Len(t, tel.Reports("warning", report_resty_response), 1)
}
