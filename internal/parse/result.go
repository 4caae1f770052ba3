package parse

import (
	"encoding/json"
	"strings"
	"time"

	"todo-ai-backend/internal/clock"
	"todo-ai-backend/internal/todos"
)

const DefaultTitle = "새 할 일"

// Result is the structured todo draft. Absent values are "" or [].
type Result struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     string         `json:"due_date"`
	DueTime     string         `json:"due_time"`
	Priority    todos.Priority `json:"priority"`
	Category    Labels         `json:"category"`
}

// Labels decodes a JSON array of strings, a lone string as a one-element
// list, and anything else as empty.
type Labels []string

func (l *Labels) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*l = Labels{v}
	case []any:
		out := make(Labels, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		*l = out
	default:
		*l = Labels{}
	}
	return nil
}

// NormalizeResult clamps a model-produced draft into a persistable todo.
// Past due dates are moved to today and malformed times are dropped rather
// than rejected.
func NormalizeResult(in Result, now time.Time) Result {
	out := in

	out.Title = strings.TrimSpace(in.Title)
	if out.Title == "" {
		out.Title = DefaultTitle
	}
	out.Title = todos.Truncate(out.Title, todos.MaxTitleLen)
	out.Description = todos.Truncate(in.Description, todos.MaxDescriptionLen)

	out.DueDate = normalizeDueDate(strings.TrimSpace(in.DueDate), now)

	out.DueTime = strings.TrimSpace(in.DueTime)
	if out.DueTime != "" && !todos.ValidDueTime(out.DueTime) {
		out.DueTime = ""
	}

	out.Priority = todos.ParsePriority(string(in.Priority))
	out.Category = todos.NormalizeCategories(in.Category)
	return out
}

func normalizeDueDate(s string, now time.Time) string {
	if s == "" {
		return ""
	}
	d, err := clock.ParseDate(s, now.Location())
	if err != nil {
		return ""
	}
	today := clock.StartOfDay(now)
	if clock.StartOfDay(d).Before(today) {
		return clock.DateString(today)
	}
	return clock.DateString(d)
}
