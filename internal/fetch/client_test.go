package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient() *Client {
	return New(Config{
		UserAgent:   "insights-test/1.0",
		Timeout:     5 * time.Second,
		Concurrency: 4,
	}, zap.NewNop())
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "insights-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	resp, err := newTestClient().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(resp.Body), "ok")
	require.Equal(t, "text/html", resp.Headers.Get("Content-Type"))
}

func TestGetSurfacesHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := newTestClient().Get(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	require.False(t, resp.OK())
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient().Get(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestGetCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient().Get(ctx, "https://example.invalid")
	require.Error(t, err)
}

func TestGetDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><h1>Hello</h1></body></html>"))
	}))
	defer srv.Close()

	doc, resp, err := newTestClient().GetDocument(context.Background(), srv.URL)
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Equal(t, "Hello", doc.Find("h1").Text())
}

func TestGetDocumentRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	doc, resp, err := newTestClient().GetDocument(context.Background(), srv.URL)
	require.Error(t, err)
	require.Nil(t, doc)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"handle":"widget"}]}`))
	}))
	defer srv.Close()

	var payload struct {
		Products []struct {
			Handle string `json:"handle"`
		} `json:"products"`
	}
	require.NoError(t, newTestClient().GetJSON(context.Background(), srv.URL, &payload))
	require.Len(t, payload.Products, 1)
	require.Equal(t, "widget", payload.Products[0].Handle)
}

func TestGetJSONRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var v any
	require.Error(t, newTestClient().GetJSON(context.Background(), srv.URL, &v))
}
