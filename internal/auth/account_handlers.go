package auth

import (
	"database/sql"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"todo-ai-backend/internal/apperr"
	"todo-ai-backend/internal/respond"
)

// DeleteAccountHandler erases everything this service stores for the caller.
// The identity itself lives with the auth provider and is not touched.
func DeleteAccountHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			respond.Error(w, r, apperr.Unauthorized("로그인이 필요합니다."), "")
			return
		}

		tx, err := dbx.BeginTx(r.Context(), nil)
		if err != nil {
			respond.Error(w, r, err, "계정 삭제 실패")
			return
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(r.Context(), `DELETE FROM analytics_events WHERE user_id = $1`, uid); err != nil {
			respond.Error(w, r, err, "계정 삭제 실패")
			return
		}

		res, err := tx.ExecContext(r.Context(), `DELETE FROM todos WHERE user_id = $1`, uid)
		if err != nil {
			respond.Error(w, r, err, "계정 삭제 실패")
			return
		}

		if err := tx.Commit(); err != nil {
			respond.Error(w, r, err, "계정 삭제 실패")
			return
		}

		deleted, _ := res.RowsAffected()
		hlog.FromRequest(r).Info().Str("user_id", uid).Int64("todos_deleted", deleted).Msg("account data deleted")

		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Path: "/", MaxAge: -1, HttpOnly: true})
		respond.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
