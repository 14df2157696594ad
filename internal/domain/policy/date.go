package policy

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNoDate = errors.New("date is missing")

type Clock interface{ Now() time.Time }

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
}

// NormalizeDate reduces a stored date, timestamp or ISO-8601 string to a calendar day at UTC midnight.
func NormalizeDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, ErrNoDate
		}
		return Day(d), nil
	case *time.Time:
		if d == nil {
			return time.Time{}, ErrNoDate
		}
		return NormalizeDate(*d)
	case []byte:
		return NormalizeDate(string(d))
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, ErrNoDate
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return Day(t), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	case nil:
		return time.Time{}, ErrNoDate
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}

// Day keeps the calendar date as seen in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Today(c Clock) time.Time { return Day(c.Now()) }

// DaysBetween counts whole calendar days from a to b; both must be Day values.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func FormatDate(t time.Time) string { return t.Format("2006-01-02") }
