package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-ai-backend/internal/ai"
	"todo-ai-backend/internal/analysis"
	"todo-ai-backend/internal/auth"
	"todo-ai-backend/internal/auth/authtest"
	"todo-ai-backend/internal/clock"
	"todo-ai-backend/internal/parse"
	"todo-ai-backend/internal/todos"
)

var secret = []byte("test-secret")

type stubCompleter struct{ content string }

func (s stubCompleter) Complete(_ context.Context, _ ai.Request) (*ai.Completion, error) {
	return &ai.Completion{Content: s.content, Model: "gpt-4o-mini"}, nil
}

type emptyStore struct{ todos.Store }

func (emptyStore) List(context.Context, string) ([]todos.Todo, error) { return []todos.Todo{}, nil }

func newTestServer(t *testing.T, webDir string) http.Handler {
	t.Helper()
	clk := clock.Fixed(time.Date(2024, 3, 14, 10, 0, 0, 0, clock.Zone(9)))
	completer := stubCompleter{content: `{"title":"보고서 작성","description":"","due_date":"2024-03-15","due_time":"15:00","priority":"medium","category":["업무"]}`}
	store := emptyStore{}

	return New(Deps{
		Logger:      zerolog.New(io.Discard),
		Auth:        auth.New(secret),
		Session:     auth.NewHandler(nil, nil, false),
		Parse:       parse.NewHandler(parse.NewService(completer, clk), nil),
		Analyze:     analysis.NewHandler(analysis.NewService(completer, clk), store, nil),
		Todos:       todos.NewHandler(store, clk, nil),
		CORSOrigins: []string{"https://app.example.com"},
		WebDir:      webDir,
	})
}

func bearer(t *testing.T) string {
	t.Helper()
	return "Bearer " + authtest.Token(t, secret, "user-1", "a@example.com", time.Hour)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, "")

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h := newTestServer(t, "")

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/parse"},
		{http.MethodPost, "/analyze"},
		{http.MethodGet, "/analyze"},
		{http.MethodGet, "/todos"},
		{http.MethodDelete, "/todos/3f1c9f4e-8a8e-4a53-9d7c-2a1f0c1b5e11"},
		{http.MethodPost, "/events"},
		{http.MethodGet, "/auth/me"},
		{http.MethodDelete, "/auth/account"},
	} {
		rec := serve(h, httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestParseThroughRouter(t *testing.T) {
	h := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"input":"내일 오후 3시까지 보고서 작성"}`))
	req.Header.Set("Authorization", bearer(t))
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"due_date":"2024-03-15"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestAnalyzeForPeriodThroughRouter(t *testing.T) {
	h := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/analyze?period=week", nil)
	req.Header.Set("Authorization", bearer(t))
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"period":"week"`)
}

func TestMe(t *testing.T) {
	h := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", bearer(t))
	rec := serve(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"user-1","email":"a@example.com"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := serve(h, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWildcardOmitsCredentials(t *testing.T) {
	for _, origins := range [][]string{nil, {"*"}, {"https://app.example.com", "*"}} {
		h := withCORS(origins, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := serve(h, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"), "%v", origins)
	}
}

func TestStaticGuard(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("app"), 0o644))
	h := newTestServer(t, dir)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("Authorization", bearer(t))
	rec = serve(h, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t))
	rec = serve(h, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "app", rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, t.TempDir())

	rec := serve(h, httptest.NewRequest(http.MethodPut, "/todos", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRecoverer(t *testing.T) {
	h := recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "서버 내부 오류")
}
