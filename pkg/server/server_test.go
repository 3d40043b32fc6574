package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitpress/gitpress/pkg/article"
	"github.com/gitpress/gitpress/pkg/config"
	"github.com/gitpress/gitpress/pkg/log"
	"github.com/gitpress/gitpress/pkg/server"
	"github.com/gitpress/gitpress/pkg/store"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	cfg := &config.Config{
		Remote: config.Remote{
			Folder:    config.DefaultFolder,
			Pattern:   config.DefaultPattern,
			RateLimit: config.DefaultRateLimit,
			Timeout:   time.Second,
		},
		Cache: config.Cache{TTL: config.DefaultCacheTTL},
	}

	// No token/owner/repo: the store serves the bundled dataset.
	st := store.New(cfg)
	zlog := zerolog.New(io.Discard)
	return server.New(st, log.New(io.Discard, zerolog.Disabled), zlog)
}

func doRequest(t *testing.T, srv *server.Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestListArticles(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/articles")
	require.Equal(t, http.StatusOK, rec.Code, "list endpoint should always answer 200")
	assert.Contains(t, rec.Header().Get("Cache-Control"), "s-maxage=60", "list response should be cacheable")

	var body struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
		Count   int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "response should be valid JSON")

	assert.True(t, body.Success, "success should be true")
	assert.Equal(t, len(article.Fallback()), body.Count, "count should match the dataset size")
	require.Len(t, body.Data, body.Count, "data length should match count")

	for _, item := range body.Data {
		assert.NotContains(t, item, "content", "list items must not carry content")
		assert.Equal(t, item["id"], item["slug"], "id and slug should be equal")
	}
}

func TestGetArticle(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/articles/astro")
	require.Equal(t, http.StatusOK, rec.Code, "known id should answer 200")

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			ID          string `json:"id"`
			Slug        string `json:"slug"`
			Title       string `json:"title"`
			Content     string `json:"content"`
			HTML        string `json:"html"`
			ReadingTime int    `json:"readingTime"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "response should be valid JSON")

	assert.True(t, body.Success, "success should be true")
	assert.Equal(t, "astro", body.Data.ID, "id should match")
	assert.Equal(t, "astro", body.Data.Slug, "slug should match")
	assert.Equal(t, "Introduction to Astro Framework", body.Data.Title, "title should match")
	assert.NotEmpty(t, body.Data.Content, "raw markdown should be included")
	assert.Contains(t, body.Data.HTML, "<h1", "content should be rendered to html")
	assert.Greater(t, body.Data.ReadingTime, 0, "reading time should be estimated")
}

func TestGetArticleNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/articles/nonexistent-xyz")
	require.Equal(t, http.StatusNotFound, rec.Code, "unknown id should answer 404")

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "response should be valid JSON")

	assert.False(t, body.Success, "success should be false")
	assert.Contains(t, body.Error, "nonexistent-xyz", "error should name the id")
}

func TestGetArticleBlankID(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/articles/%20")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "blank id should answer 400")
}

func TestClearCache(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/cache/clear")
	require.Equal(t, http.StatusOK, rec.Code, "cache clear should answer 200")

	var body struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "response should be valid JSON")
	assert.True(t, body.Success, "success should be true")
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code, "health endpoint should answer 200")
}
