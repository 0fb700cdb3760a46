package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docseek/internal/adapter/cache"
	"docseek/internal/adapter/retriever"
	"docseek/internal/domain"
	"docseek/internal/metrics"
	"docseek/internal/usecase"
)

func testIndex() *domain.Index {
	idx := domain.NewIndex()
	idx.Docs["docs.gl/gl4/glClear.xhtml"] = &domain.Document{
		Path: "docs.gl/gl4/glClear.xhtml", Terms: domain.TermFreq{"GLCLEAR": 2, "VOID": 1}, TotalTokens: 3,
	}
	idx.Docs["docs.gl/gl4/glBegin.xhtml"] = &domain.Document{
		Path: "docs.gl/gl4/glBegin.xhtml", Terms: domain.TermFreq{"GLBEGIN": 1, "VOID": 1}, TotalTokens: 2,
	}
	idx.Docs["docs.gl/gl4/glEnd.xhtml"] = &domain.Document{
		Path: "docs.gl/gl4/glEnd.xhtml", Terms: domain.TermFreq{"GLEND": 1}, TotalTokens: 1,
	}
	return idx
}

func newTestServer(t *testing.T) (*Server, *metrics.Metrics) {
	t.Helper()
	searcher := usecase.NewSearcher(testIndex(), retriever.NewTFIDFRanker(false), cache.NewQueryCache(16, time.Minute))
	m := metrics.New()
	return New(Config{DefaultLimit: 20, MaxLimit: 2}, searcher, m), m
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestSearch_GET(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := do(t, srv.Handler(), httptest.NewRequest("GET", "/api/search?q=glClear&limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "glClear", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "docs.gl/gl4/glClear.xhtml", resp.Results[0].Path)
	assert.Greater(t, resp.Results[0].Score, 0.0)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSearch_POST(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := do(t, srv.Handler(), httptest.NewRequest("POST", "/api/search", strings.NewReader("  glBegin  ")))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "glBegin", resp.Query)
	require.Len(t, resp.Results, 2, "default limit is capped by max limit")
	assert.Equal(t, "docs.gl/gl4/glBegin.xhtml", resp.Results[0].Path)
}

func TestSearch_EmptyQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, target := range []string{"/api/search", "/api/search?q=", "/api/search?q=%20%20"} {
		rec, _ := do(t, srv.Handler(), httptest.NewRequest("GET", target, nil))
		require.Equal(t, http.StatusOK, rec.Code, target)

		var resp SearchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotNil(t, resp.Results)
		assert.Empty(t, resp.Results, target)
	}
}

func TestSearch_BadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, limit := range []string{"abc", "-1", "1.5"} {
		rec, body := do(t, srv.Handler(), httptest.NewRequest("GET", "/api/search?q=void&limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
		assert.Contains(t, body["error"], "limit")
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		name         string
		raw          string
		defaultLimit int
		maxLimit     int
		want         int
		wantErr      bool
	}{
		{"missing uses default", "", 5, 10, 5, false},
		{"missing default capped", "", 20, 2, 2, false},
		{"missing default zero capped", "", 0, 3, 3, false},
		{"explicit", "4", 20, 10, 4, false},
		{"explicit capped", "50", 20, 10, 10, false},
		{"zero capped", "0", 20, 10, 10, false},
		{"uncapped", "50", 20, 0, 50, false},
		{"negative", "-1", 20, 10, 0, true},
		{"not a number", "ten", 20, 10, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(nil, metrics.New(), tc.defaultLimit, tc.maxLimit)
			got, err := h.parseLimit(tc.raw)
			if tc.wantErr {
				assert.ErrorIs(t, err, errBadLimit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSearch_BodyTooLarge(t *testing.T) {
	srv, _ := newTestServer(t)

	body := strings.NewReader(strings.Repeat("a", maxQueryBytes+10))
	rec, _ := do(t, srv.Handler(), httptest.NewRequest("POST", "/api/search", body))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSearch_RequestIDPropagated(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec, _ := do(t, srv.Handler(), req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}

func TestHealthAndStats(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, body := do(t, srv.Handler(), httptest.NewRequest("GET", "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(3), body["documents"])

	rec, body = do(t, srv.Handler(), httptest.NewRequest("GET", "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["documents"])
	assert.Equal(t, float64(6), body["tokens"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	do(t, srv.Handler(), httptest.NewRequest("GET", "/api/search?q=glClear", nil))
	do(t, srv.Handler(), httptest.NewRequest("GET", "/api/search?q=glClear", nil))

	rec, _ := do(t, srv.Handler(), httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	text := rec.Body.String()
	assert.Contains(t, text, "docseek_index_documents 3")
	assert.Contains(t, text, `docseek_search_queries_total{result_type="hit"} 1`)
	assert.Contains(t, text, `docseek_search_queries_total{result_type="miss"} 1`)
	assert.Contains(t, text, `docseek_http_requests_total{method="GET",path="/api/search",status="200"} 2`)
}

func TestNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, _ := do(t, srv.Handler(), httptest.NewRequest("GET", "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_UnknownPathsShareOneLabel(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/nope", "/wp-admin", "/api/search/extra"} {
		do(t, srv.Handler(), httptest.NewRequest("GET", path, nil))
	}

	rec, _ := do(t, srv.Handler(), httptest.NewRequest("GET", "/metrics", nil))
	text := rec.Body.String()
	assert.Contains(t, text, `docseek_http_requests_total{method="GET",path="other",status="404"} 3`)
	assert.NotContains(t, text, `path="/wp-admin"`)
	assert.NotContains(t, text, `path="/nope"`)
}

type panickingSearcher struct{}

func (panickingSearcher) Search(string, int) ([]domain.ScoredDoc, bool) { panic("boom") }
func (panickingSearcher) Stats() domain.IndexStats                       { return domain.IndexStats{} }
func (panickingSearcher) Documents() int                                 { return 0 }

func TestRecover(t *testing.T) {
	srv := New(Config{}, panickingSearcher{}, nil)

	rec, body := do(t, srv.Handler(), httptest.NewRequest("GET", "/api/search?q=x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", body["error"])

	rec, _ = do(t, srv.Handler(), httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "server keeps serving after a panic")
}

func TestServe_GracefulShutdown(t *testing.T) {
	srv, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
