package util

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withLogs(t *testing.T, level log.Level) *bytes.Buffer {
	var buf bytes.Buffer
	previous := log.GetLevel()
	log.SetOutput(&buf)
	log.SetLevel(level)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(previous)
	})
	return &buf
}

func newTracedClient(url string) *resty.Client {
	return resty.New().
		SetBaseURL(url).
		OnBeforeRequest(LogRequest).
		OnAfterResponse(LogResponse).
		OnError(LogError)
}

func TestLoggingAtTraceLevel(t *testing.T) {
	buf := withLogs(t, log.TraceLevel)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, err := newTracedClient(srv.URL).R().Delete("/org1/events/a")
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "Sending DELETE")
	assert.Contains(t, logs, "received 204 No Content")
	assert.Contains(t, logs, "X-Test=[yes]")
}

func TestLoggingTransportError(t *testing.T) {
	buf := withLogs(t, log.TraceLevel)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTracedClient(srv.URL).R().Get("/org1/events")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "received error")
}

func TestNoLoggingAboveTrace(t *testing.T) {
	buf := withLogs(t, log.InfoLevel)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := newTracedClient(srv.URL).R().Get("/org1/events")
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
