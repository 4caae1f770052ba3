package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"todo-ai-backend/internal/analytics"
	"todo-ai-backend/internal/apperr"
	"todo-ai-backend/internal/auth"
	"todo-ai-backend/internal/respond"
	"todo-ai-backend/internal/todos"
)

const failureTitle = "AI 분석 실패"

// Lister is the slice of todos.Store the GET endpoint reads from.
type Lister interface {
	List(ctx context.Context, userID string) ([]todos.Todo, error)
}

type Handler struct {
	svc    *Service
	store  Lister
	events *analytics.Recorder
}

func NewHandler(svc *Service, store Lister, events *analytics.Recorder) *Handler {
	return &Handler{svc: svc, store: store, events: events}
}

type Meta struct {
	AnalyzedAt     string  `json:"analyzed_at"`
	Period         Period  `json:"period"`
	TotalTodos     int     `json:"total_todos"`
	CompletionRate float64 `json:"completion_rate"`
}

func invalidData() error {
	return apperr.New(apperr.KindValidation, "유효하지 않은 데이터", "할 일 목록이 필요합니다.")
}

// Analyze handles POST /analyze with a client-supplied list.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Todos  json.RawMessage `json:"todos"`
		Period json.RawMessage `json:"period"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Error(w, r, invalidData(), "")
		return
	}

	var list []todos.Todo
	if len(body.Todos) > 0 && string(body.Todos) != "null" {
		if err := json.Unmarshal(body.Todos, &list); err != nil {
			respond.Error(w, r, invalidData(), "")
			return
		}
		if list == nil {
			list = []todos.Todo{}
		}
	}
	var period string
	if len(body.Period) > 0 {
		if err := json.Unmarshal(body.Period, &period); err != nil {
			// A missing list outranks a malformed period.
			if list == nil {
				respond.Error(w, r, invalidData(), "")
			} else {
				respond.Error(w, r, errInvalidPeriod(), "")
			}
			return
		}
	}

	out, err := h.svc.Analyze(r.Context(), list, period)
	h.finish(w, r, out, err)
}

// ForPeriod handles GET /analyze?period= over the caller's stored todos.
func (h *Handler) ForPeriod(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized("로그인이 필요합니다."), "")
		return
	}
	period := r.URL.Query().Get("period")
	if _, err := ParsePeriod(period); err != nil {
		respond.Error(w, r, err, "")
		return
	}

	all, err := h.store.List(r.Context(), uid)
	if err != nil {
		respond.Error(w, r, err, "할 일 목록을 불러오지 못했습니다.")
		return
	}

	out, err := h.svc.ForPeriod(r.Context(), all, period)
	h.finish(w, r, out, err)
}

func (h *Handler) finish(w http.ResponseWriter, r *http.Request, out *Outcome, err error) {
	if err != nil {
		if !apperr.Is(err, apperr.KindValidation) {
			h.events.Track(r.Context(), analytics.FromRequest(r), "ai_analysis_failed",
				map[string]any{"kind": apperr.KindOf(err).String()}, "")
		}
		respond.Error(w, r, err, failureTitle)
		return
	}

	h.events.Track(r.Context(), analytics.FromRequest(r), "ai_analysis_completed", map[string]any{
		"period":       out.Period,
		"total_todos":  out.Stats.Total,
		"canned":       out.Canned,
		"total_tokens": out.Usage.TotalTokens,
	}, "")

	respond.Success(w, out.Result, Meta{
		AnalyzedAt:     out.AnalyzedAt.UTC().Format(time.RFC3339Nano),
		Period:         out.Period,
		TotalTodos:     out.Stats.Total,
		CompletionRate: out.Stats.CompletionRate,
	})
}
