package todos

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"todo-ai-backend/internal/analytics"
	"todo-ai-backend/internal/apperr"
	"todo-ai-backend/internal/auth"
	"todo-ai-backend/internal/clock"
	"todo-ai-backend/internal/respond"
)

const (
	msgNotFound    = "할 일을 찾을 수 없습니다."
	msgBadJSON     = "잘못된 입력 형식입니다."
	msgLoginNeeded = "로그인이 필요합니다."
)

type Handler struct {
	store  Store
	clock  clock.Clock
	events *analytics.Recorder
}

func NewHandler(store Store, clk clock.Clock, events *analytics.Recorder) *Handler {
	return &Handler{store: store, clock: clk, events: events}
}

type createRequest struct {
	Input
	// Source is "manual" or "ai" (an accepted parse result).
	Source string `json:"source"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized(msgLoginNeeded), "")
		return
	}

	all, err := h.store.List(r.Context(), uid)
	if err != nil {
		respond.Error(w, r, err, "할 일 목록을 불러오지 못했습니다.")
		return
	}

	q := ParseListQuery(r.URL.Query())
	filtered := q.Apply(all, h.clock.Now())

	respond.Success(w, filtered, map[string]any{
		"total":    len(all),
		"filtered": len(filtered),
		"sort":     q.Sort,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized(msgLoginNeeded), "")
		return
	}

	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Error(w, r, apperr.Validation(msgBadJSON), "")
		return
	}
	body.Normalize()
	if err := body.Validate(); err != nil {
		respond.Error(w, r, err, "")
		return
	}

	now := h.clock.Now()
	created, err := h.store.Create(r.Context(), Todo{
		UserID:      uid,
		Title:       body.Title,
		Description: body.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueDate:     body.DueDate,
		DueTime:     body.DueTime,
		Priority:    ParsePriority(body.Priority),
		Category:    body.Category,
	})
	if err != nil {
		respond.Error(w, r, err, "할 일 추가 실패")
		return
	}

	source := body.Source
	if source != "ai" {
		source = "manual"
	}
	h.track(r, uid, "todo_created", map[string]any{
		"todo_id":        created.ID,
		"priority":       created.Priority,
		"has_due_date":   created.DueDate != "",
		"category_count": len(created.Category),
		"source":         source,
	})

	w.Header().Set("Location", "/todos/"+created.ID)
	respond.WriteJSON(w, http.StatusCreated, respond.Envelope{Success: true, Data: created})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, r, apperr.Validation(msgBadJSON), "")
		return
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		respond.Error(w, r, err, "")
		return
	}

	updated, err := h.store.Update(r.Context(), Todo{
		ID:          id,
		UserID:      uid,
		Title:       in.Title,
		Description: in.Description,
		UpdatedAt:   h.clock.Now(),
		DueDate:     in.DueDate,
		DueTime:     in.DueTime,
		Priority:    ParsePriority(in.Priority),
		Category:    in.Category,
	})
	if err != nil {
		respond.Error(w, r, storeError(err), "할 일 수정 실패")
		return
	}

	h.track(r, uid, "todo_updated", map[string]any{"todo_id": id, "priority": updated.Priority})
	respond.Success(w, updated, nil)
}

func (h *Handler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var body struct {
		Completed *bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Error(w, r, apperr.Validation(msgBadJSON), "")
		return
	}
	if body.Completed == nil {
		respond.Error(w, r, apperr.Validation("completed 값이 필요합니다."), "")
		return
	}

	updated, err := h.store.SetCompleted(r.Context(), uid, id, *body.Completed, h.clock.Now())
	if err != nil {
		respond.Error(w, r, storeError(err), "상태 변경 실패")
		return
	}

	event := "todo_reopened"
	props := map[string]any{"todo_id": id, "priority": updated.Priority}
	if updated.Completed {
		event = "todo_completed"
		props["on_time"] = onTime(updated, h.clock.Now())
	}
	h.track(r, uid, event, props)
	respond.Success(w, updated, nil)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), uid, id); err != nil {
		respond.Error(w, r, storeError(err), "할 일 삭제 실패")
		return
	}

	h.track(r, uid, "todo_deleted", map[string]any{"todo_id": id})
	respond.Success(w, map[string]string{"id": id}, nil)
}

// target resolves the caller and the {id} path value. Malformed ids are
// reported as not found so they never reach the database.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (uid, id string, ok bool) {
	uid, ok = auth.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized(msgLoginNeeded), "")
		return "", "", false
	}
	id = r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		respond.Error(w, r, apperr.NotFound(msgNotFound), "")
		return "", "", false
	}
	return uid, id, true
}

func storeError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, err, msgNotFound, "삭제되었거나 권한이 없는 항목입니다.")
	}
	return err
}

// onTime reports whether a completed todo was finished by its due moment.
func onTime(t Todo, now time.Time) bool {
	due, ok := t.Deadline(now.Location())
	if !ok || t.CompletedAt == nil {
		return true
	}
	return !t.CompletedAt.After(due)
}

func (h *Handler) track(r *http.Request, uid, event string, props map[string]any) {
	env := analytics.FromRequest(r)
	env.UserID = uid
	h.events.Track(r.Context(), env, event, props, analytics.SourceEventKeyFromRequest(r))
}
