// Package apperr is the single classified error type that crosses package
// boundaries. Handlers hand these to respond.Error, which picks the status
// code and the user-facing hints from Kind.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConfig
	KindUpstreamAuth
	KindRateLimit
	KindNetwork
	KindMalformed
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfig:
		return "config"
	case KindUpstreamAuth:
		return "upstream_auth"
	case KindRateLimit:
		return "rate_limit"
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string // short primary message shown to the user
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message, details string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

func Wrap(kind Kind, err error, message, details string) *Error {
	return &Error{Kind: kind, Message: message, Details: details, Err: err}
}

// As extracts the classified error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns KindUnknown for nil and unclassified errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Validation reports a rule violation in client input.
func Validation(message string) *Error {
	return New(KindValidation, message, "입력 내용을 확인하고 다시 시도해주세요.")
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, "")
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message, "")
}

// Upstream classifications for the completion provider.

func Config(err error) *Error {
	return Wrap(KindConfig, err, "AI 서비스 설정 오류", "서버 관리자에게 문의해주세요. (API 키 미설정)")
}

func UpstreamAuth(err error) *Error {
	return Wrap(KindUpstreamAuth, err, "AI 서비스 인증 실패", "API 키가 유효하지 않습니다. 관리자에게 문의해주세요.")
}

func RateLimit(err error) *Error {
	return Wrap(KindRateLimit, err, "AI 서비스 사용량 초과", "현재 요청이 많아 일시적으로 서비스를 이용할 수 없습니다.")
}

func Network(err error) *Error {
	return Wrap(KindNetwork, err, "네트워크 연결 오류", "AI 서비스에 연결할 수 없습니다.")
}

func Malformed(err error) *Error {
	return Wrap(KindMalformed, err, "AI 응답 처리 실패", "AI가 생성한 데이터를 읽을 수 없습니다.")
}

func Unknown(err error) *Error {
	return Wrap(KindUnknown, err, "", "예상치 못한 오류가 발생했습니다.")
}
