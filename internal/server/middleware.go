package server

import (
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"todo-ai-backend/internal/respond"
)

// recoverer turns a handler panic into a logged JSON 500.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				hlog.FromRequest(r).Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				respond.WriteJSON(w, http.StatusInternalServerError, respond.ErrorBody{
					Error: "서버 내부 오류가 발생했습니다.",
					Retry: "잠시 후 다시 시도해주세요.",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func accessLog(logger zerolog.Logger, next http.Handler) http.Handler {
	h := recoverer(next)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, took time.Duration) {
		if r.URL.Path == "/health" {
			return
		}
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("took", took).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("request_id", "X-Request-Id")(h)
	h = hlog.RemoteAddrHandler("remote")(h)
	return hlog.NewHandler(logger)(h)
}

// withCORS allows credentialed requests only from explicitly listed origins.
// A wildcard, or no list at all, admits any origin without cookies.
func withCORS(origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	credentials := !slices.Contains(origins, "*")
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type", "Authorization", "Idempotency-Key", "X-Source-Event-Key",
			"X-Platform", "X-App-Version", "X-Session-Id", "X-Device-Locale",
		},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: credentials,
	})
	return c.Handler(next)
}
