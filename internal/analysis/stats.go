package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"todo-ai-backend/internal/clock"
	"todo-ai-backend/internal/todos"
)

// upcomingWindow is how far ahead an incomplete todo counts as upcoming.
const upcomingWindow = 72 * time.Hour

type PriorityCount struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Rate      float64 `json:"rate"`
}

type PriorityAnalysis struct {
	High   PriorityCount `json:"high"`
	Medium PriorityCount `json:"medium"`
	Low    PriorityCount `json:"low"`
}

func (pa *PriorityAnalysis) bucket(p todos.Priority) *PriorityCount {
	switch todos.ParsePriority(string(p)) {
	case todos.PriorityHigh:
		return &pa.High
	case todos.PriorityLow:
		return &pa.Low
	}
	return &pa.Medium
}

// TimeSlot is a due-time bucket.
type TimeSlot struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Incomplete int    `json:"incomplete"`
}

type DayCount struct {
	Day       string `json:"day"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

type CategoryCount struct {
	Label     string  `json:"label"`
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Rate      float64 `json:"rate"`
}

// Stats is everything the analysis prompt reports about a todo list.
type Stats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Incomplete     int     `json:"incomplete"`
	CompletionRate float64 `json:"completionRate"`

	PriorityAnalysis PriorityAnalysis `json:"priorityAnalysis"`

	Overdue    int     `json:"overdue"`
	Upcoming   int     `json:"upcoming"`
	DueToday   int     `json:"dueToday"`
	OnTimeRate float64 `json:"onTimeRate"`

	// Slots are ordered morning, afternoon, evening, night.
	Slots       []TimeSlot `json:"timeDistribution"`
	BusiestSlot TimeSlot   `json:"busiestTimeSlot"`

	// Days are ordered Sunday first.
	Days       []DayCount `json:"dayDistribution"`
	BusiestDay DayCount   `json:"busiestDay"`

	// Categories keep first-appearance order.
	Categories  []CategoryCount `json:"categoryAnalysis"`
	TopCategory *CategoryCount  `json:"topCategory"`

	AvgLeadDays float64 `json:"avgDaysToComplete"`
}

func newSlots() []TimeSlot {
	return []TimeSlot{
		{Key: "morning", Label: "오전(06-12시)"},
		{Key: "afternoon", Label: "오후(12-18시)"},
		{Key: "evening", Label: "저녁(18-24시)"},
		{Key: "night", Label: "심야(00-06시)"},
	}
}

func slotIndex(hour int) int {
	switch {
	case hour >= 6 && hour < 12:
		return 0
	case hour >= 12 && hour < 18:
		return 1
	case hour >= 18:
		return 2
	}
	return 3
}

// Compute aggregates list as of now. It is pure: the same list and now
// always give the same Stats.
func Compute(list []todos.Todo, now time.Time) Stats {
	loc := now.Location()
	s := Stats{
		Total: len(list),
		Slots: newSlots(),
		Days:  make([]DayCount, 7),
	}
	for d := range s.Days {
		s.Days[d].Day = clock.WeekdayName(time.Weekday(d))
	}

	var (
		dueCompleted, onTime int
		leadSum, leadCount   int
		catIndex             = map[string]int{}
	)

	for _, t := range list {
		if t.Completed {
			s.Completed++
		}

		pc := s.PriorityAnalysis.bucket(t.Priority)
		pc.Total++
		if t.Completed {
			pc.Completed++
		}

		if t.Overdue(now) {
			s.Overdue++
		}
		if deadline, ok := t.Deadline(loc); ok {
			if !t.Completed && !deadline.Before(now) && !deadline.After(now.Add(upcomingWindow)) {
				s.Upcoming++
			}
			if t.Completed && t.CompletedAt != nil {
				dueCompleted++
				if !t.CompletedAt.After(deadline) {
					onTime++
				}
			}
		}

		if due, ok := t.Due(loc); ok {
			if clock.SameDay(now, due) {
				s.DueToday++
			}
			day := &s.Days[due.Weekday()]
			day.Total++
			if t.Completed {
				day.Completed++
			}
			if !t.CreatedAt.IsZero() {
				leadSum += leadDays(t.CreatedAt, due)
				leadCount++
			}
		}

		if todos.ValidDueTime(t.DueTime) {
			if h, _, err := clock.ParseClock(t.DueTime); err == nil {
				slot := &s.Slots[slotIndex(h)]
				slot.Total++
				if t.Completed {
					slot.Completed++
				} else {
					slot.Incomplete++
				}
			}
		}

		for _, label := range t.Category {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			i, ok := catIndex[label]
			if !ok {
				i = len(s.Categories)
				catIndex[label] = i
				s.Categories = append(s.Categories, CategoryCount{Label: label})
			}
			s.Categories[i].Total++
			if t.Completed {
				s.Categories[i].Completed++
			}
		}
	}

	s.Incomplete = s.Total - s.Completed
	s.CompletionRate = round1(percent(s.Completed, s.Total))
	s.OnTimeRate = round1(percent(onTime, dueCompleted))

	for _, pc := range []*PriorityCount{&s.PriorityAnalysis.High, &s.PriorityAnalysis.Medium, &s.PriorityAnalysis.Low} {
		pc.Rate = percent(pc.Completed, pc.Total)
	}
	for i := range s.Categories {
		c := &s.Categories[i]
		c.Rate = percent(c.Completed, c.Total)
	}

	s.BusiestSlot = s.Slots[busiest(len(s.Slots), func(i int) int { return s.Slots[i].Total })]
	s.BusiestDay = s.Days[busiest(len(s.Days), func(i int) int { return s.Days[i].Total })]
	if len(s.Categories) > 0 {
		top := s.Categories[busiest(len(s.Categories), func(i int) int { return s.Categories[i].Total })]
		s.TopCategory = &top
	}

	if leadCount > 0 {
		s.AvgLeadDays = float64(leadSum) / float64(leadCount)
	}
	return s
}

// TopCategories returns up to n categories by descending total, ties kept in
// first-appearance order.
func (s Stats) TopCategories(n int) []CategoryCount {
	out := append([]CategoryCount(nil), s.Categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// busiest returns the index of the first maximum.
func busiest(n int, total func(int) int) int {
	best := 0
	for i := 1; i < n; i++ {
		if total(i) > total(best) {
			best = i
		}
	}
	return best
}

// leadDays is the whole days, rounded up, from creation to the start of the
// due day.
func leadDays(created, due time.Time) int {
	d := clock.StartOfDay(due).Sub(created)
	return int(math.Ceil(d.Hours() / 24))
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
