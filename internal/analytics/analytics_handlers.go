package analytics

import (
	"encoding/json"
	"net/http"

	"todo-ai-backend/internal/apperr"
	"todo-ai-backend/internal/respond"
)

// ClientEvents are the event names web and mobile clients may report.
var ClientEvents = map[string]bool{
	"app_opened":         true,
	"todo_form_opened":   true,
	"ai_parse_accepted":  true,
	"ai_parse_discarded": true,
	"analysis_viewed":    true,
	"filter_changed":     true,
}

const maxClientProps = 20

// EventsHandler records one client-reported event from the allow-list.
func EventsHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			respond.Error(w, r, apperr.Unauthorized("로그인이 필요합니다."), "")
			return
		}

		var body struct {
			Event      string         `json:"event"`
			Properties map[string]any `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respond.Error(w, r, apperr.Validation("잘못된 입력 형식입니다."), "")
			return
		}
		if !ClientEvents[body.Event] {
			respond.Error(w, r, apperr.Validation("지원하지 않는 이벤트입니다: "+body.Event), "")
			return
		}
		if len(body.Properties) > maxClientProps {
			respond.Error(w, r, apperr.Validation("properties가 너무 많습니다."), "")
			return
		}
		if body.Properties == nil {
			body.Properties = map[string]any{}
		}

		env := FromRequest(r)
		env.UserID = uid

		rec.Track(r.Context(), env, body.Event, body.Properties, SourceEventKeyFromRequest(r))

		respond.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
