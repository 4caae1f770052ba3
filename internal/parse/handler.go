package parse

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"todo-ai-backend/internal/analytics"
	"todo-ai-backend/internal/apperr"
	"todo-ai-backend/internal/respond"
)

const failureTitle = "AI 할 일 생성 실패"

type Handler struct {
	svc    *Service
	events *analytics.Recorder
}

func NewHandler(svc *Service, events *analytics.Recorder) *Handler {
	return &Handler{svc: svc, events: events}
}

type Meta struct {
	ProcessedAt       string `json:"processed_at"`
	OriginalInput     string `json:"original_input"`
	PreprocessedInput string `json:"preprocessed_input"`
}

func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input json.RawMessage `json:"input"`
	}
	var input string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		len(body.Input) == 0 || string(body.Input) == "null" || json.Unmarshal(body.Input, &input) != nil {
		respond.Error(w, r, apperr.New(apperr.KindValidation,
			"잘못된 입력 형식입니다.", "문자열 형식의 할 일 내용을 입력해주세요."), "")
		return
	}

	out, err := h.svc.Parse(r.Context(), input)
	if err != nil {
		h.events.Track(r.Context(), analytics.FromRequest(r), "ai_parse_failed",
			map[string]any{"kind": apperr.KindOf(err).String()}, "")
		respond.Error(w, r, err, failureTitle)
		return
	}

	hlog.FromRequest(r).Debug().
		Str("preprocessed_input", out.Cleaned).
		Str("due_date", out.Result.DueDate).
		Str("due_time", out.Result.DueTime).
		Msg("todo parsed")

	h.events.Track(r.Context(), analytics.FromRequest(r), "ai_parse_completed", map[string]any{
		"input_length":   len([]rune(out.Cleaned)),
		"has_due_date":   out.Result.DueDate != "",
		"priority":       out.Result.Priority,
		"category_count": len(out.Result.Category),
		"total_tokens":   out.Usage.TotalTokens,
	}, "")

	respond.Success(w, out.Result, Meta{
		ProcessedAt:       out.ProcessedAt.UTC().Format(time.RFC3339Nano),
		OriginalInput:     out.Original,
		PreprocessedInput: out.Cleaned,
	})
}
