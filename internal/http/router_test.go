package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/book"
	"bookshelf/internal/category"
	apphttp "bookshelf/internal/http"
	"bookshelf/internal/httpx"
	"bookshelf/internal/testutil"
)

func newTestServer(t *testing.T, ready func(context.Context) error) *httptest.Server {
	t.Helper()
	handler := apphttp.NewRouter(apphttp.RouterConfig{
		Categories:     category.NewService(category.NewMemoryRepo()),
		Books:          book.NewService(book.NewMemoryRepo()),
		Ready:          ready,
		Registry:       prometheus.NewRegistry(),
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxBodyBytes:   1 << 20,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode(t *testing.T, raw []byte, v any) {
	t.Helper()
	testutil.RecordResponse{Raw: raw}.DecodeJSON(t, v)
}

func TestRouter_CatalogFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, raw := do(t, srv, http.MethodPost, "/api/categories", `{"title":"Fiction","description":"Fiction books"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var fiction category.Category
	decode(t, raw, &fiction)
	require.NotEmpty(t, fiction.ID)
	assert.NotEmpty(t, resp.Header.Get(httpx.RequestIDHeader))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, raw = do(t, srv, http.MethodPost, "/api/books",
		`{"categoryId":"`+fiction.ID+`","name":"Dune","publishedDate":"1965-08-01","pages":412,"author":"Frank Herbert"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var dune book.Book
	decode(t, raw, &dune)
	assert.Equal(t, fiction.ID, dune.CategoryID)

	resp, raw = do(t, srv, http.MethodGet, "/api/books?author=herb", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var books []book.Book
	decode(t, raw, &books)
	require.Len(t, books, 1)
	assert.Equal(t, dune.ID, books[0].ID)

	resp, raw = do(t, srv, http.MethodGet, "/api/books?author=xyz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))

	resp, raw = do(t, srv, http.MethodGet, "/api/books?page=2&limit=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))

	resp, raw = do(t, srv, http.MethodPut, "/api/books/"+dune.ID,
		`{"categoryId":"`+fiction.ID+`","name":"Dune","publishedDate":"1965-08-01","pages":500,"author":"Frank Herbert"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated book.Book
	decode(t, raw, &updated)
	assert.Equal(t, 500, updated.Pages)

	resp, raw = do(t, srv, http.MethodDelete, "/api/books/"+dune.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Book deleted successfully"}`, string(raw))

	resp, raw = do(t, srv, http.MethodGet, "/api/books/"+dune.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(raw), "Book not found")

	resp, _ = do(t, srv, http.MethodDelete, "/api/categories/"+fiction.ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodGet, "/api/categories/"+fiction.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Errors(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, _ := do(t, srv, http.MethodPatch, "/api/books", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/api/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw := do(t, srv, http.MethodPost, "/api/categories", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), httpx.CodeBadRequest)

	resp, raw = do(t, srv, http.MethodPost, "/api/categories", `{"title":"Fiction"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), httpx.CodeValidation)
	assert.Contains(t, string(raw), "description")

	resp, _ = do(t, srv, http.MethodGet, "/api/books?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, raw := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(raw))

	resp, raw = do(t, srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", string(raw))

	down := newTestServer(t, func(context.Context) error { return errors.New("connection refused") })
	resp, _ = do(t, down, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	srv := newTestServer(t, nil)

	do(t, srv, http.MethodGet, "/api/categories", "")

	resp, raw := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `http_requests_total{method="GET",route="GET /api/categories",status="200"} 1`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/books", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
