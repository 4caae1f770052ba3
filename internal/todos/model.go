package todos

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"todo-ai-backend/internal/clock"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities in display order, most urgent first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities high < medium < low; unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// ParsePriority falls back to medium for anything outside the enum.
func ParsePriority(s string) Priority {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return PriorityMedium
	}
	return p
}

const (
	MaxTitleLen       = 50
	MaxDescriptionLen = 500
	MaxCategories     = 3
)

var dueTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ValidDueTime reports whether s is a 24-hour HH:MM between 00:00 and 23:59.
func ValidDueTime(s string) bool {
	return dueTimePattern.MatchString(s)
}

type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DueDate     string     `json:"due_date"`
	DueTime     string     `json:"due_time"`
	Priority    Priority   `json:"priority"`
	Category    []string   `json:"category"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// UnmarshalJSON also accepts created_date, the field name older web clients
// send, and tolerates null strings. Timestamps may be RFC 3339 or a bare
// date; empty or unreadable ones are treated as absent.
func (t *Todo) UnmarshalJSON(b []byte) error {
	type plain Todo
	var aux struct {
		plain
		CreatedAt   string `json:"created_at"`
		UpdatedAt   string `json:"updated_at"`
		CompletedAt string `json:"completed_at"`
		CreatedDate string `json:"created_date"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*t = Todo(aux.plain)

	t.CreatedAt, _ = parseMoment(aux.CreatedAt)
	if t.CreatedAt.IsZero() {
		t.CreatedAt, _ = parseMoment(aux.CreatedDate)
	}
	t.UpdatedAt, _ = parseMoment(aux.UpdatedAt)
	t.CompletedAt = nil
	if at, ok := parseMoment(aux.CompletedAt); ok {
		t.CompletedAt = &at
	}
	return nil
}

func parseMoment(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	at, err := clock.ParseDate(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// Due resolves the due date in loc. ok is false when there is no due date or
// it cannot be parsed.
func (t Todo) Due(loc *time.Location) (day time.Time, ok bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := clock.ParseDate(t.DueDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Deadline is the moment the todo falls due: the due time on the due date,
// or the last instant of the due date when no valid time is set.
func (t Todo) Deadline(loc *time.Location) (time.Time, bool) {
	d, ok := t.Due(loc)
	if !ok {
		return time.Time{}, false
	}
	day := clock.StartOfDay(d)
	if t.DueTime != "" && ValidDueTime(t.DueTime) {
		if h, m, err := clock.ParseClock(t.DueTime); err == nil {
			return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), true
		}
	}
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond), true
}

// Overdue reports an incomplete todo whose due moment has passed.
func (t Todo) Overdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Deadline(now.Location())
	return ok && due.Before(now)
}

// NormalizeCategories trims labels, drops empties and duplicates keeping the
// first occurrence, and caps the result at MaxCategories.
func NormalizeCategories(labels []string) []string {
	out := make([]string, 0, MaxCategories)
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
		if len(out) == MaxCategories {
			break
		}
	}
	return out
}

// Truncate shortens s to max runes, replacing the tail with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
