// Package period computes the current reset window of a recurring quota.
package period

import (
	"errors"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for persisted reset dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a reset date cannot be parsed.
var ErrInvalidDate = errors.New("invalid reset date")

// Kind selects which reset rule a Policy follows.
type Kind int

const (
	// KindDayOfMonth resets on a fixed day every month.
	KindDayOfMonth Kind = iota
	// KindExplicitDate resets at a single user-picked instant.
	KindExplicitDate
)

func (k Kind) String() string {
	if k == KindExplicitDate {
		return "explicit-date"
	}
	return "day-of-month"
}

// Policy is the active reset rule. Exactly one of Day or Date is meaningful.
type Policy struct {
	Kind Kind
	Day  int       // 1..31, KindDayOfMonth only
	Date time.Time // KindExplicitDate only
}

// DayOfMonth returns a policy resetting on day d of every month.
func DayOfMonth(d int) Policy {
	return Policy{Kind: KindDayOfMonth, Day: d}
}

// ExplicitDate returns a policy resetting at t.
func ExplicitDate(t time.Time) Policy {
	return Policy{Kind: KindExplicitDate, Date: t}
}

// Window is the current usage period.
type Window struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Compute returns the window that contains now under policy p.
func Compute(p Policy, now time.Time) Window {
	var end time.Time
	switch p.Kind {
	case KindExplicitDate:
		end = p.Date
	default:
		end = dayOfMonthEnd(p.Day, now)
	}
	return Window{Start: SubtractMonth(end), End: end}
}

// dayOfMonthEnd is 23:59:59 on day d of this month, or of next month when
// today is already past d. Days beyond the month length clamp to its last day.
func dayOfMonthEnd(d int, now time.Time) time.Time {
	if d < 1 {
		d = 1
	}
	y, m, today := now.Date()
	if today > clampDay(y, m, d) {
		first := time.Date(y, m+1, 1, 0, 0, 0, 0, now.Location())
		y, m = first.Year(), first.Month()
	}
	return time.Date(y, m, clampDay(y, m, d), 23, 59, 59, 0, now.Location())
}

// SubtractMonth moves t back one calendar month keeping the clock time.
// The day clamps to the shorter month, so Mar 31 becomes Feb 28 (or 29).
func SubtractMonth(t time.Time) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-1, 1, 0, 0, 0, 0, t.Location())
	py, pm := first.Year(), first.Month()
	hh, mm, ss := t.Clock()
	return time.Date(py, pm, clampDay(py, pm, d), hh, mm, ss, t.Nanosecond(), t.Location())
}

func clampDay(y int, m time.Month, d int) int {
	if n := daysIn(y, m); d > n {
		return n
	}
	return d
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Elapsed is the fraction of w that has passed at now, clamped to [0, 1].
// A degenerate window (end <= start) reports 0.
func Elapsed(w Window, now time.Time) float64 {
	span := w.End.Sub(w.Start)
	if span <= 0 {
		return 0
	}
	f := float64(now.Sub(w.Start)) / float64(span)
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// DaysLeft is the number of whole days between now and the window end.
// It is zero or negative once less than a day remains.
func DaysLeft(w Window, now time.Time) int {
	return int(math.Floor(float64(w.End.Sub(now)) / float64(24*time.Hour)))
}

// ParseResetDate parses a YYYY-MM-DD date (23:59:59 local on that day, the same
// clock time used by day-of-month resets) or an RFC 3339 timestamp.
func ParseResetDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if loc == nil {
		loc = time.Local
	}
	if d, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		y, m, day := d.Date()
		return time.Date(y, m, day, 23, 59, 59, 0, loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
