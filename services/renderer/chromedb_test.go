package renderer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(addr string) *ChromeDBRenderer {
	return NewChromeDBRenderer(addr, nil, 10*time.Millisecond, 5, time.Minute)
}

func TestRenderDirectFetch(t *testing.T) {
	// When the page is plain HTML, the direct fetch short-circuits and
	// ChromeDB is never contacted
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>detail page</body></html>"))
	}))
	defer page.Close()

	r := newTestRenderer("http://chromedb.invalid")

	body, err := r.Render(context.Background(), page.URL)
	require.NoError(t, err)

	html, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "detail page")
}

func TestRenderScrolledUsesFunctionEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/function", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload, "code")

		renderCtx, ok := payload["context"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "https://example.com/listing", renderCtx["url"])
		assert.EqualValues(t, 5, renderCtx["maxScrolls"])

		w.Write([]byte("<html><body><li>course</li></body></html>"))
	}))
	defer server.Close()

	r := newTestRenderer(server.URL)

	body, err := r.RenderScrolled(context.Background(), "https://example.com/listing")
	require.NoError(t, err)

	html, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "course")
}

func TestRenderScrolledJSONEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"data": "<html><body>wrapped</body></html>",
		})
	}))
	defer server.Close()

	r := newTestRenderer(server.URL)

	body, err := r.RenderScrolled(context.Background(), "https://example.com")
	require.NoError(t, err)

	html, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "wrapped")
}

func TestRenderScrolledNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a page"))
	}))
	defer server.Close()

	r := newTestRenderer(server.URL)

	_, err := r.RenderScrolled(context.Background(), "https://example.com")
	assert.Error(t, err)
}

func TestRenderScrolledServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := newTestRenderer(server.URL)

	_, err := r.RenderScrolled(context.Background(), "https://example.com")
	assert.Error(t, err)
}
