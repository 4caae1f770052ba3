package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"todo-ai-backend/internal/apperr"
)

const (
	hintRetry      = "잠시 후 다시 시도해주세요."
	hintRetryAfter = "1분 후에 다시 시도해주세요."
	hintSupport    = "문제가 계속되면 관리자에게 문의하세요."
)

// Envelope is the body of every successful API response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Meta    any  `json:"meta,omitempty"`
}

type ErrorBody struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Message    string `json:"message,omitempty"`
	RetryAfter string `json:"retry_after,omitempty"`
	Retry      string `json:"retry,omitempty"`
	Support    string `json:"support,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func Success(w http.ResponseWriter, data, meta any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Meta: meta})
}

// StatusCode maps an error's classification to its HTTP status.
func StatusCode(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUpstreamAuth, apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindRateLimit:
		return http.StatusTooManyRequests
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the error body for err. fallback is the primary message used
// when err is unclassified or carries none.
func Error(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := StatusCode(err)
	body := Body(err, fallback)

	ev := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		ev = hlog.FromRequest(r).Error()
	}
	ev.Err(err).
		Int("status", status).
		Str("kind", apperr.KindOf(err).String()).
		Msg(body.Error)

	WriteJSON(w, status, body)
}

// Body builds the user-facing error body without writing it.
func Body(err error, fallback string) ErrorBody {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Unknown(err)
	}

	body := ErrorBody{Error: e.Message, Details: e.Details}
	if body.Error == "" {
		body.Error = fallback
	}

	switch e.Kind {
	case apperr.KindUpstreamAuth:
		body.Support = hintSupport
	case apperr.KindRateLimit:
		body.RetryAfter = hintRetryAfter
		body.Support = hintSupport
	case apperr.KindNetwork:
		body.Retry = hintRetry
		body.Support = "인터넷 연결을 확인하거나 관리자에게 문의하세요."
	case apperr.KindMalformed:
		body.Retry = "다시 시도해주세요."
		body.Support = "문제가 반복되면 입력 내용을 수정해보세요."
	case apperr.KindUnknown:
		body.Retry = hintRetry
		body.Support = hintSupport
		body.Message = "알 수 없는 오류"
		if e.Err != nil {
			body.Message = e.Err.Error()
		}
	}
	return body
}
