// Package server assembles the HTTP API.
package server

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"todo-ai-backend/internal/analysis"
	"todo-ai-backend/internal/analytics"
	"todo-ai-backend/internal/auth"
	"todo-ai-backend/internal/parse"
	"todo-ai-backend/internal/todos"
)

type Deps struct {
	Logger  zerolog.Logger
	DB      *sql.DB
	Auth    auth.Middleware
	Session *auth.Handler
	Parse   *parse.Handler
	Analyze *analysis.Handler
	Todos   *todos.Handler
	Events  *analytics.Recorder

	CORSOrigins []string
	// WebDir is served behind the routing guard; empty disables it.
	WebDir string
}

// New returns the root handler with every route and middleware installed.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()
	protect := d.Auth.Wrap

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /parse", protect(d.Parse.Parse))
	mux.HandleFunc("POST /analyze", protect(d.Analyze.Analyze))
	mux.HandleFunc("GET /analyze", protect(d.Analyze.ForPeriod))

	mux.HandleFunc("GET /todos", protect(d.Todos.List))
	mux.HandleFunc("POST /todos", protect(d.Todos.Create))
	mux.HandleFunc("PUT /todos/{id}", protect(d.Todos.Update))
	mux.HandleFunc("DELETE /todos/{id}", protect(d.Todos.Delete))
	mux.HandleFunc("PATCH /todos/{id}/completion", protect(d.Todos.SetCompletion))

	mux.HandleFunc("POST /events", protect(analytics.EventsHandler(d.Events)))

	mux.HandleFunc("POST /auth/signup", d.Session.Signup)
	mux.HandleFunc("POST /auth/login", d.Session.Login)
	mux.HandleFunc("POST /auth/logout", d.Session.Logout)
	mux.HandleFunc("GET /auth/callback", d.Session.Callback)
	mux.HandleFunc("GET /auth/me", protect(d.Session.Me))
	mux.HandleFunc("DELETE /auth/account", protect(auth.DeleteAccountHandler(d.DB)))

	if d.WebDir != "" {
		mux.Handle("GET /", d.Auth.Guard(http.FileServer(http.Dir(d.WebDir))))
	}

	return withCORS(d.CORSOrigins, accessLog(d.Logger, mux))
}
