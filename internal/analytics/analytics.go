package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

type CtxKey string

const (
	ctxUserIDKey CtxKey = "analytics_user_id"
)

var eventsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "todo_ai",
		Name:      "analytics_events_total",
		Help:      "Product analytics events by name and outcome.",
	},
	[]string{"event", "outcome"},
)

// Envelope is what we store with every event.
type Envelope struct {
	UserID       string
	SessionID    string
	Platform     string
	AppVersion   string
	DeviceLocale string
	IPCountry    string
}

// FromRequest extracts event envelope fields from request.
// Backend-trustable fields only.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "ios", "android", "web":
	default:
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	env := Envelope{
		SessionID:    strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:     platform,
		AppVersion:   strings.TrimSpace(r.Header.Get("X-App-Version")),
		DeviceLocale: locale,
	}
	if uid, ok := UserIDFromContext(r.Context()); ok {
		env.UserID = uid
	}
	return env
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(ctxUserIDKey).(string)
	return uid, ok && uid != ""
}

// SourceEventKeyFromRequest returns the client idempotency key, if any.
// Duplicate keys are ignored on insert.
func SourceEventKeyFromRequest(r *http.Request) string {
	k := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if k != "" {
		return k
	}
	return strings.TrimSpace(r.Header.Get("X-Source-Event-Key"))
}

var errNoUser = errors.New("analytics: event has no user")

// Recorder writes product analytics events. A nil Recorder drops events.
type Recorder struct {
	db  *sql.DB
	now func() time.Time
}

func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db, now: time.Now}
}

// Log inserts one analytics event.
// Never logs sensitive raw text; caller passes sanitized props.
func (rec *Recorder) Log(ctx context.Context, env Envelope, eventName string, props any, sourceEventKey string) error {
	if rec == nil || rec.db == nil || eventName == "" {
		return nil
	}

	userID := env.UserID
	if userID == "" {
		if uid, ok := UserIDFromContext(ctx); ok {
			userID = uid
		}
	}
	if userID == "" {
		return errNoUser
	}

	b, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal %s props: %w", eventName, err)
	}

	// NULL keys never conflict, so the same statement serves both cases.
	_, err = rec.db.ExecContext(ctx, `
		INSERT INTO analytics_events (
			event_name, event_time,
			user_id, session_id,
			platform, app_version, device_locale, ip_country,
			source_event_key,
			properties
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb)
		ON CONFLICT (source_event_key) DO NOTHING
	`, eventName, rec.now().UTC(),
		userID, nullIfEmpty(env.SessionID),
		env.Platform, env.AppVersion, nullIfEmpty(env.DeviceLocale), nullIfEmpty(env.IPCountry),
		nullIfEmpty(sourceEventKey),
		string(b),
	)
	if err != nil {
		return fmt.Errorf("insert %s event: %w", eventName, err)
	}
	return nil
}

// Track is Log for call sites that must not fail because analytics did.
func (rec *Recorder) Track(ctx context.Context, env Envelope, eventName string, props any, sourceEventKey string) {
	if rec == nil {
		return
	}
	if err := rec.Log(ctx, env, eventName, props, sourceEventKey); err != nil {
		eventsRecordedTotal.WithLabelValues(eventName, "error").Inc()
		zerolog.Ctx(ctx).Warn().Err(err).Str("event", eventName).Msg("analytics event dropped")
		return
	}
	eventsRecordedTotal.WithLabelValues(eventName, "ok").Inc()
}

func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
