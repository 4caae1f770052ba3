package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"todo-ai-backend/internal/apperr"
)

// Session is what the auth provider hands back after sign-in. AccessToken
// is empty after a sign-up that still awaits email confirmation.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Provider is the hosted authentication service.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	ExchangeCode(ctx context.Context, code, verifier string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// GoTrueClient talks to a GoTrue-compatible auth server under /auth/v1.
type GoTrueClient struct {
	client *resty.Client
}

func NewGoTrueClient(baseURL, publicKey string, timeout time.Duration) *GoTrueClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/auth/v1").
		SetHeader("Content-Type", "application/json").
		SetHeader("apikey", publicKey).
		SetTimeout(timeout)
	return &GoTrueClient{client: c}
}

type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
}

func (e providerError) String() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Error, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

var errCredentials = errors.New("credentials rejected")

func (g *GoTrueClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	var raw struct {
		Session
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := g.post(ctx, "/signup", nil, map[string]string{"email": email, "password": password}, &raw); err != nil {
		return nil, err
	}
	s := raw.Session
	if s.User.ID == "" {
		s.User = User{ID: raw.ID, Email: raw.Email}
	}
	return &s, nil
}

func (g *GoTrueClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := g.post(ctx, "/token", map[string]string{"grant_type": "password"},
		map[string]string{"email": email, "password": password}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (g *GoTrueClient) ExchangeCode(ctx context.Context, code, verifier string) (*Session, error) {
	var s Session
	err := g.post(ctx, "/token", map[string]string{"grant_type": "pkce"},
		map[string]string{"auth_code": code, "code_verifier": verifier}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (g *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		Post("/logout")
	if err != nil {
		return providerUnavailable(err)
	}
	if resp.IsError() && resp.StatusCode() != http.StatusUnauthorized {
		return fmt.Errorf("auth provider logout: status %d", resp.StatusCode())
	}
	return nil
}

func (g *GoTrueClient) post(ctx context.Context, path string, query map[string]string, body, out any) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetBody(body).
		Post(path)
	if err != nil {
		return providerUnavailable(err)
	}

	if resp.IsError() {
		var pe providerError
		_ = json.Unmarshal(resp.Body(), &pe)
		cause := fmt.Errorf("auth provider %s: status %d: %s", path, resp.StatusCode(), pe)
		switch resp.StatusCode() {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return apperr.Wrap(apperr.KindUnauthorized, errors.Join(errCredentials, cause),
				"인증에 실패했습니다.", pe.String())
		case http.StatusUnprocessableEntity:
			return apperr.Wrap(apperr.KindValidation, cause, pe.String(), "입력 내용을 확인하고 다시 시도해주세요.")
		case http.StatusTooManyRequests:
			return apperr.Wrap(apperr.KindRateLimit, cause, "요청이 너무 많습니다.", "잠시 후 다시 시도해주세요.")
		default:
			return apperr.Wrap(apperr.KindUnknown, cause, "인증 서비스 오류", "예상치 못한 오류가 발생했습니다.")
		}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return apperr.Wrap(apperr.KindUnknown, fmt.Errorf("decode %s: %w", path, err), "인증 서비스 오류", "응답을 읽을 수 없습니다.")
	}
	return nil
}

func providerUnavailable(err error) error {
	return apperr.Wrap(apperr.KindNetwork, fmt.Errorf("auth provider request: %w", err),
		"인증 서비스 연결 오류", "인증 서비스에 연결할 수 없습니다.")
}
