// Package clock provides the "current moment" in the service's configured
// time zone plus the date helpers shared by the parse and analysis pipelines.
package clock

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Clock returns the current moment in the configured zone.
type Clock interface {
	Now() time.Time
}

type zoned struct {
	loc *time.Location
	now func() time.Time
}

// New returns a wall clock pinned to a fixed UTC offset.
func New(offsetHours int) Clock {
	return zoned{loc: Zone(offsetHours), now: time.Now}
}

func (z zoned) Now() time.Time { return z.now().In(z.loc) }

// Zone returns a fixed-offset location such as UTC+9.
func Zone(offsetHours int) *time.Location {
	name := fmt.Sprintf("UTC%+d", offsetHours)
	return time.FixedZone(name, offsetHours*60*60)
}

type fixed struct{ t time.Time }

// Fixed always reports t. Used by tests.
func Fixed(t time.Time) Clock { return fixed{t: t} }

func (f fixed) Now() time.Time { return f.t }

var weekdayNames = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// WeekdayName returns the localized one-syllable weekday name, Sunday first.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

func DateString(t time.Time) string { return t.Format(DateLayout) }

func TimeString(t time.Time) string { return t.Format(TimeLayout) }

// StartOfDay zeroes the clock part of t, keeping its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's zone.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate accepts a bare YYYY-MM-DD (interpreted in loc) or an RFC 3339
// timestamp (converted to loc).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.In(loc), nil
}

// ParseClock parses an HH:MM value.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// WeekBounds returns the Sunday 00:00 and Saturday 23:59:59.999999999 that
// enclose t.
func WeekBounds(t time.Time) (start, end time.Time) {
	start = StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
	end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}
