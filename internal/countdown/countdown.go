// Package countdown breaks the time to a reset into display units and drives
// a once-per-second refresh toward it.
package countdown

import (
	"fmt"
	"time"
)

// ApproachingThreshold is how close a reset must be to count as approaching.
const ApproachingThreshold = 24 * time.Hour

// Tick is one countdown reading.
type Tick struct {
	At          time.Time `json:"at"`
	End         time.Time `json:"end"`
	Days        int       `json:"days"`
	Hours       int       `json:"hours"`
	Minutes     int       `json:"minutes"`
	Seconds     int       `json:"seconds"`
	Passed      bool      `json:"passed"`
	Approaching bool      `json:"approaching"`
}

// Compute returns the reading for end as seen at now. Once end is behind now
// the tick is Passed and every unit is zero.
func Compute(end, now time.Time) Tick {
	t := Tick{At: now, End: end}
	left := end.Sub(now)
	if left < 0 {
		t.Passed = true
		return t
	}

	secs := int64(left / time.Second)
	t.Days = int(secs / 86400)
	secs %= 86400
	t.Hours = int(secs / 3600)
	secs %= 3600
	t.Minutes = int(secs / 60)
	t.Seconds = int(secs % 60)
	t.Approaching = left < ApproachingThreshold
	return t
}

// Remaining is the duration still left, zero once passed.
func (t Tick) Remaining() time.Duration {
	if t.Passed {
		return 0
	}
	return t.End.Sub(t.At)
}

// Text renders the countdown line.
func (t Tick) Text() string {
	if t.Passed {
		return "Reset has passed!"
	}
	return fmt.Sprintf("Reset in: %dd %dh %dm %ds", t.Days, t.Hours, t.Minutes, t.Seconds)
}
