package ai

import (
	"strings"
	"text/template"
	"time"

	"todo-ai-backend/internal/clock"
)

// TimeContext is the "current moment" block every prompt embeds.
type TimeContext struct {
	Now     time.Time
	Date    string // YYYY-MM-DD
	Time    string // HH:MM
	Weekday string
	Year    int
	Month   int
	Day     int
}

func NewTimeContext(now time.Time) TimeContext {
	return TimeContext{
		Now:     now,
		Date:    clock.DateString(now),
		Time:    clock.TimeString(now),
		Weekday: clock.WeekdayName(now.Weekday()),
		Year:    now.Year(),
		Month:   int(now.Month()),
		Day:     now.Day(),
	}
}

// Shift returns the calendar date days away from now.
func (tc TimeContext) Shift(days int) string {
	return clock.DateString(tc.Now.AddDate(0, 0, days))
}

// NextWeekday returns the first date strictly after today that falls on d,
// skipping into the following week when skipWeek is set.
func (tc TimeContext) NextWeekday(d time.Weekday, skipWeek bool) string {
	start, _ := clock.WeekBounds(tc.Now)
	if skipWeek {
		return clock.DateString(start.AddDate(0, 0, 7+int(d)))
	}
	delta := (int(d) - int(tc.Now.Weekday()) + 7) % 7
	return tc.Shift(delta)
}

// HoursLeftToday is the whole number of hours until midnight.
func (tc TimeContext) HoursLeftToday() int {
	return 24 - tc.Now.Hour()
}

// Render executes a prompt template. Output is deterministic for equal data.
func Render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
