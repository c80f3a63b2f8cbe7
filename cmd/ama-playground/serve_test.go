package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ama "github.com/Tap30/ripple-ama"
	"github.com/Tap30/ripple-ama/adapters"
	"github.com/Tap30/ripple-ama/internal/hosttest"
)

func newTestSink(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(newSinkHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry()))
	t.Cleanup(server.Close)
	return server
}

func TestSinkHandler_AcceptsRecorderBatches(t *testing.T) {
	server := newTestSink(t)

	host := hosttest.New()
	p, err := ama.Register(host, ama.Config{AppID: "app", Endpoint: server.URL + "/events", Compress: true},
		ama.WithLogger(adapters.NewNoOpLoggerAdapter()))
	require.NoError(t, err)
	defer p.Close()

	req := &ama.Request{Type: ama.LaunchRequest, SessionID: "s1", NewSession: true, UserID: "u1", State: "entry"}
	for _, result := range host.Dispatch(context.Background(), req, hosttest.Reply("die", "Bye")).Wait() {
		require.NoError(t, result.Err)
		if result.Events > 0 {
			assert.Equal(t, http.StatusAccepted, result.Response.Status)
			assert.Equal(t, map[string]any{"success": true, "received": float64(result.Events)}, result.Response.Data)
		}
	}
}

func TestSinkHandler_TriggerError(t *testing.T) {
	server := newTestSink(t)

	host := hosttest.New()
	p, err := ama.Register(host, ama.Config{AppID: "app", Endpoint: server.URL + "/events"},
		ama.WithLogger(adapters.NewNoOpLoggerAdapter()))
	require.NoError(t, err)
	defer p.Close()

	req := &ama.Request{Type: ama.IntentRequest, SessionID: "s1", Intent: "HelpIntent", State: "help"}
	handler := func(_ context.Context, req *ama.Request) (*ama.Transition, error) {
		req.AMA.LogEvent("Playground", ama.Structured{"trigger_error": true})
		return &ama.Transition{To: "die"}, nil
	}
	results := host.Dispatch(context.Background(), req, handler).Wait()
	require.Len(t, results, 2)

	assert.NoError(t, results[0].Err)
	var terr *ama.TransportError
	require.ErrorAs(t, results[1].Err, &terr)
	assert.Equal(t, http.StatusInternalServerError, terr.Status)
}

func TestSinkHandler_RejectsInvalidBodies(t *testing.T) {
	server := newTestSink(t)

	resp, err := http.Post(server.URL+"/events", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(server.URL+"/events", "application/json", strings.NewReader(`{"clientContext":"nope","events":[]}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/events", bytes.NewReader([]byte("plain")))
	require.NoError(t, err)
	req.Header.Set("Content-Encoding", "gzip")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSinkHandler_GzipBody(t *testing.T) {
	server := newTestSink(t)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`{"clientContext":"{}","events":[{"eventType":"Custom","attributes":{}}]}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	req, err := http.NewRequest(http.MethodPut, server.URL+"/events", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Encoding", "gzip")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestSinkHandler_Metrics(t *testing.T) {
	server := newTestSink(t)

	resp, err := http.Post(server.URL+"/events", "application/json",
		strings.NewReader(`{"clientContext":"{}","events":[{"eventType":"IntentRequest","attributes":{"intent":"HelpIntent"}}]}`))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ama_playground_events_received_total{type="IntentRequest"} 1`)
}

func TestTriggersError(t *testing.T) {
	assert.True(t, triggersError(map[string]any{"trigger_error": true}))
	assert.True(t, triggersError(map[string]any{"trigger_error": "true"}))
	assert.False(t, triggersError(map[string]any{"trigger_error": false}))
	assert.False(t, triggersError(nil))
}
