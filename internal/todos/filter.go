package todos

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	StatusCompleted  = "completed"
	StatusIncomplete = "incomplete"
	StatusOverdue    = "overdue"

	SortPriority    = "priority"
	SortDueDate     = "dueDate"
	SortCreatedDate = "createdDate"
)

// ListQuery is the list endpoint's search, filter and sort selection.
type ListQuery struct {
	Search     string
	Statuses   []string
	Priorities []Priority
	Sort       string
}

// ParseListQuery reads q, status, priority and sort. status and priority
// accept repeated params or comma-separated values; unknown values are
// ignored.
func ParseListQuery(v url.Values) ListQuery {
	q := ListQuery{
		Search: strings.TrimSpace(v.Get("q")),
		Sort:   SortCreatedDate,
	}
	for _, s := range splitMulti(v["status"]) {
		switch s {
		case StatusCompleted, StatusIncomplete, StatusOverdue:
			q.Statuses = append(q.Statuses, s)
		}
	}
	for _, p := range splitMulti(v["priority"]) {
		if pr := Priority(p); pr.Valid() {
			q.Priorities = append(q.Priorities, pr)
		}
	}
	switch s := v.Get("sort"); s {
	case SortPriority, SortDueDate, SortCreatedDate:
		q.Sort = s
	}
	return q
}

func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Apply filters and sorts list without modifying it. An incomplete todo
// that is overdue matches "overdue" but not "incomplete".
func (q ListQuery) Apply(list []Todo, now time.Time) []Todo {
	out := make([]Todo, 0, len(list))
	needle := strings.ToLower(q.Search)

	for _, t := range list {
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		if len(q.Statuses) > 0 && !q.matchStatus(t, now) {
			continue
		}
		if len(q.Priorities) > 0 && !containsPriority(q.Priorities, t.Priority) {
			continue
		}
		out = append(out, t)
	}

	loc := now.Location()
	switch q.Sort {
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case SortDueDate:
		// Todos without a due date go last.
		sort.SliceStable(out, func(i, j int) bool {
			di, iok := out[i].Deadline(loc)
			dj, jok := out[j].Deadline(loc)
			if iok != jok {
				return iok
			}
			return iok && di.Before(dj)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

func (q ListQuery) matchStatus(t Todo, now time.Time) bool {
	overdue := t.Overdue(now)
	for _, s := range q.Statuses {
		switch {
		case s == StatusCompleted && t.Completed,
			s == StatusIncomplete && !t.Completed && !overdue,
			s == StatusOverdue && overdue:
			return true
		}
	}
	return false
}

func containsPriority(list []Priority, p Priority) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}
