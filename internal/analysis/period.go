package analysis

import (
	"time"

	"todo-ai-backend/internal/apperr"
	"todo-ai-backend/internal/clock"
	"todo-ai-backend/internal/todos"
)

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodToday, PeriodWeek:
		return p, nil
	}
	return "", errInvalidPeriod()
}

func errInvalidPeriod() error {
	return apperr.New(apperr.KindValidation,
		"유효하지 않은 기간", `period는 "today" 또는 "week"이어야 합니다.`)
}

// Label is the localized name used in prompts.
func (p Period) Label() string {
	if p == PeriodWeek {
		return "이번 주"
	}
	return "오늘"
}

// Filter keeps the todos due within the period around now: the current
// calendar day, or the Sunday-start week. Todos without a due date are
// never in a period.
func (p Period) Filter(list []todos.Todo, now time.Time) []todos.Todo {
	loc := now.Location()
	start, end := clock.StartOfDay(now), clock.StartOfDay(now).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if p == PeriodWeek {
		start, end = clock.WeekBounds(now)
	}

	out := make([]todos.Todo, 0, len(list))
	for _, t := range list {
		due, ok := t.Due(loc)
		if !ok || due.Before(start) || due.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}
