package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/model-catalog/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(Config{Port: 0, ShutdownTimeout: time.Second, ResetSequenceOnEmpty: true}, logger, st)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func send(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

const model = `{"photos":["p1.jpg","p2.jpg"],"faceType":"oval","eyeColor":"green","skinColor":"olive",` +
	`"bodyType":"athletic","hairColor":"brown","hairLength":"short","hairType":"wavy"}`

func TestServer_ModelLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, body := send(t, ts, http.MethodPost, "/models", model)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":1}`, body)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	resp, body = send(t, ts, http.MethodGet, "/models?id=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"photos":["p1.jpg","p2.jpg"],"faceType":"oval","eyeColor":"green",
		"skinColor":"olive","bodyType":"athletic","hairColor":"brown","hairLength":"short","hairType":"wavy"}`, body)

	resp, body = send(t, ts, http.MethodGet, "/models/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"photosCount":2`)
	assert.NotContains(t, body, `"photos"`)

	resp, _ = send(t, ts, http.MethodDelete, "/models?id=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = send(t, ts, http.MethodGet, "/models?id=1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Model not found"}`, body)
}

func TestServer_IDsRestartAfterTableEmpties(t *testing.T) {
	ts := newTestServer(t)

	send(t, ts, http.MethodPost, "/models", model)
	send(t, ts, http.MethodPost, "/models", model)
	send(t, ts, http.MethodDelete, "/models?id=1", "")
	send(t, ts, http.MethodDelete, "/models?id=2", "")

	_, body := send(t, ts, http.MethodPost, "/models", model)
	assert.JSONEq(t, `{"id":1}`, body)
}

func TestServer_ListIsCappedAndNewestFirst(t *testing.T) {
	ts := newTestServer(t)

	for i := 0; i < 55; i++ {
		resp, _ := send(t, ts, http.MethodPost, "/models", model)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	_, body := send(t, ts, http.MethodGet, "/models", "")
	assert.Equal(t, 50, strings.Count(body, `"photosCount"`))
	assert.True(t, strings.HasPrefix(body, `[{"id":55,`), body)
}

func TestServer_Filters(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := send(t, ts, http.MethodPut, "/filters", `{"hairColors":["black","blonde"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := send(t, ts, http.MethodGet, "/filters", "")
	assert.Contains(t, body, `"hairColors":["black","blonde"]`)
	assert.Contains(t, body, `"faceTypes":[]`)

	resp, body = send(t, ts, http.MethodPatch, "/filters", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"error":"Method not allowed"}`, body)
}

func TestServer_UnknownPath(t *testing.T) {
	ts := newTestServer(t)

	resp, body := send(t, ts, http.MethodGet, "/photos", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"error":"Not found"}`, body)
}

func TestServer_Healthz(t *testing.T) {
	ts := newTestServer(t)

	resp, body := send(t, ts, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestServer_RequestIDHeaderIsEchoedInLogs(t *testing.T) {
	st, err := store.Open(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	defer st.Close()

	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	srv := New(Config{ShutdownTimeout: time.Second}, logger, st)

	req := httptest.NewRequest(http.MethodGet, "/filters", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	srv.Router().ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "request_id=abc-123")
}

func TestServer_StartStopsOnCancel(t *testing.T) {
	st, err := store.Open(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(Config{Port: 18087, ShutdownTimeout: time.Second}, logger, st)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
