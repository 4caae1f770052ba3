package auth

import (
	"context"
	"net/http"
	"strings"

	"todo-ai-backend/internal/analytics"
	"todo-ai-backend/internal/apperr"
	"todo-ai-backend/internal/respond"
)

type ctxKey string

const identityKey ctxKey = "identity"

// SessionCookie carries the access token for browser clients.
const SessionCookie = "session"

type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type Middleware struct {
	secret []byte
}

func New(secret []byte) Middleware {
	return Middleware{secret: secret}
}

// Identify resolves the caller from the Bearer header, falling back to the
// session cookie.
func (m Middleware) Identify(r *http.Request) (Identity, bool) {
	token := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	} else if c, err := r.Cookie(SessionCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		return Identity{}, false
	}
	claims, err := ParseToken(m.secret, token)
	if err != nil {
		return Identity{}, false
	}
	return Identity{UserID: claims.Subject, Email: claims.Email}, true
}

func (m Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.Identify(r)
		if !ok {
			respond.Error(w, r, apperr.Unauthorized("로그인이 필요합니다."), "")
			return
		}

		ctx := WithIdentity(r.Context(), id)
		ctx = analytics.WithUserID(ctx, id.UserID)

		next(w, r.WithContext(ctx))
	}
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}
