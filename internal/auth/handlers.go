package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"

	"todo-ai-backend/internal/analytics"
	"todo-ai-backend/internal/apperr"
	"todo-ai-backend/internal/respond"
)

// VerifierCookie holds the PKCE code verifier set by the web client before
// it starts an email or OAuth flow.
const VerifierCookie = "auth-code-verifier"

var validate = validator.New()

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type Handler struct {
	provider      Provider
	events        *analytics.Recorder
	secureCookies bool
}

func NewHandler(provider Provider, events *analytics.Recorder, secureCookies bool) *Handler {
	return &Handler{provider: provider, events: events, secureCookies: secureCookies}
}

func decodeCredentials(r *http.Request) (credentials, error) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, apperr.Validation("잘못된 입력 형식입니다.")
	}
	body.Email = strings.TrimSpace(body.Email)
	if err := validate.Struct(body); err != nil {
		return body, apperr.Validation("이메일과 비밀번호(6자 이상)를 확인해주세요.")
	}
	return body, nil
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	body, err := decodeCredentials(r)
	if err != nil {
		respond.Error(w, r, err, "")
		return
	}

	s, err := h.provider.SignUp(r.Context(), body.Email, body.Password)
	if err != nil {
		respond.Error(w, r, err, "회원가입 실패")
		return
	}

	if s.AccessToken == "" {
		respond.WriteJSON(w, http.StatusOK, map[string]any{
			"user_id":               s.User.ID,
			"email":                 s.User.Email,
			"confirmation_required": true,
		})
		return
	}

	h.setSession(w, s)
	h.track(r, s.User.ID, "signed_up")
	respond.WriteJSON(w, http.StatusOK, sessionBody(s))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := decodeCredentials(r)
	if err != nil {
		respond.Error(w, r, err, "")
		return
	}

	s, err := h.provider.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		respond.Error(w, r, err, "로그인 실패")
		return
	}

	h.setSession(w, s)
	h.track(r, s.User.ID, "logged_in")
	respond.WriteJSON(w, http.StatusOK, sessionBody(s))
}

// Logout clears the session cookie. Revoking the token upstream is best
// effort; the cookie is cleared either way.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		if err := h.provider.SignOut(r.Context(), c.Value); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("auth provider logout failed")
		}
	}
	h.clearSession(w)
	respond.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized("로그인이 필요합니다."), "")
		return
	}
	respond.WriteJSON(w, http.StatusOK, id)
}

// Callback finishes an email-confirmation or OAuth flow by exchanging the
// authorization code for a session.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code != "" {
		verifier := ""
		if c, err := r.Cookie(VerifierCookie); err == nil {
			verifier = c.Value
		}

		s, err := h.provider.ExchangeCode(r.Context(), code, verifier)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("auth code exchange failed")
			http.Redirect(w, r, "/login?error="+url.QueryEscape("이메일 인증에 실패했습니다."), http.StatusSeeOther)
			return
		}
		h.setSession(w, s)
		http.SetCookie(w, &http.Cookie{Name: VerifierCookie, Path: "/", MaxAge: -1})
		h.track(r, s.User.ID, "email_confirmed")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func sessionBody(s *Session) map[string]any {
	return map[string]any{
		"user_id":    s.User.ID,
		"email":      s.User.Email,
		"token":      s.AccessToken,
		"expires_in": s.ExpiresIn,
	}
}

func (h *Handler) setSession(w http.ResponseWriter, s *Session) {
	maxAge := s.ExpiresIn
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.AccessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) track(r *http.Request, userID, event string) {
	env := analytics.FromRequest(r)
	env.UserID = userID
	h.events.Track(r.Context(), env, event, map[string]any{}, "")
}
