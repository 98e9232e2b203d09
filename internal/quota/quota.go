// Package quota holds the tracked allowance and the arithmetic on it.
package quota

import (
	"fmt"
	"math"
)

// Built-in defaults used when nothing has been persisted yet.
const (
	DefaultTotalMinutes     = 100 * 60
	DefaultRemainingMinutes = 94*60 + 25
)

// State is the tracked quota, in whole minutes.
type State struct {
	TotalMinutes     int `json:"total_minutes" yaml:"total_minutes"`
	RemainingMinutes int `json:"remaining_minutes" yaml:"remaining_minutes"`
}

// Defaults returns the out-of-the-box quota (100h total, 94h25m remaining).
func Defaults() State {
	return State{
		TotalMinutes:     DefaultTotalMinutes,
		RemainingMinutes: DefaultRemainingMinutes,
	}
}

// Apply shifts the remaining minutes by delta and clamps at zero.
// There is no clamp at total: a quick adjust may push remaining above it.
// Sums past math.MaxInt saturate.
func (s State) Apply(delta int) State {
	if delta > 0 && s.RemainingMinutes > math.MaxInt-delta {
		s.RemainingMinutes = math.MaxInt
		return s
	}
	s.RemainingMinutes += delta
	if s.RemainingMinutes < 0 {
		s.RemainingMinutes = 0
	}
	return s
}

// WithRemaining returns a copy with remaining set to minutes, clamped at zero.
func (s State) WithRemaining(minutes int) State {
	if minutes < 0 {
		minutes = 0
	}
	s.RemainingMinutes = minutes
	return s
}

// Used returns total minus remaining. Negative when over-adjusted.
func (s State) Used() int {
	return s.TotalMinutes - s.RemainingMinutes
}

// HoursMinutes is a whole-hour / leftover-minute breakdown.
type HoursMinutes struct {
	Hours   int `json:"hours" yaml:"hours"`
	Minutes int `json:"minutes" yaml:"minutes"`
}

// Split breaks minutes into hours and minutes. Negative input yields zero.
func Split(minutes int) HoursMinutes {
	if minutes < 0 {
		minutes = 0
	}
	return HoursMinutes{Hours: minutes / 60, Minutes: minutes % 60}
}

// Total returns the breakdown as minutes again.
func (hm HoursMinutes) Total() int {
	return hm.Hours*60 + hm.Minutes
}

func (hm HoursMinutes) String() string {
	return fmt.Sprintf("%dh %dm", hm.Hours, hm.Minutes)
}
