// Package dashboard derives everything the screen shows from the quota state
// and the current window. It performs no I/O.
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/theirongolddev/quotaclock/internal/countdown"
	"github.com/theirongolddev/quotaclock/internal/period"
	"github.com/theirongolddev/quotaclock/internal/quota"
)

// Notification texts.
const (
	NoticeApproaching  = "Your quota reset is approaching soon!"
	NoticeDateChanged  = "Reset date has changed since your last update."
	HoursPerDayUnknown = "—"
)

// DisplayModel is the full set of derived values for one render.
type DisplayModel struct {
	State quota.State `json:"state" yaml:"state"`

	ResetDate string    `json:"reset_date" yaml:"reset_date"`
	ResetAt   time.Time `json:"reset_at" yaml:"reset_at"`
	StartAt   time.Time `json:"start_at" yaml:"start_at"`

	Used      quota.HoursMinutes `json:"used" yaml:"used"`
	Remaining quota.HoursMinutes `json:"remaining" yaml:"remaining"`

	UsedPercent      float64 `json:"used_percent" yaml:"used_percent"`
	RemainingPercent float64 `json:"remaining_percent" yaml:"remaining_percent"`
	UsedLabel        string  `json:"used_label" yaml:"used_label"`
	PeriodPercent    float64 `json:"period_percent" yaml:"period_percent"`

	DaysLeft         int    `json:"days_left" yaml:"days_left"`
	HoursPerDay      string `json:"hours_per_day" yaml:"hours_per_day"`
	HoursPerDayKnown bool   `json:"hours_per_day_known" yaml:"hours_per_day_known"`

	Countdown   countdown.Tick `json:"countdown" yaml:"countdown"`
	ResetPassed bool           `json:"reset_passed" yaml:"reset_passed"`
	Approaching bool           `json:"approaching" yaml:"approaching"`

	ResetDateChanged bool   `json:"reset_date_changed" yaml:"reset_date_changed"`
	Notification     string `json:"notification,omitempty" yaml:"notification,omitempty"`
}

// Render computes the display model. lastResetDate is the reset date the user
// last acknowledged (empty if never).
func Render(state quota.State, w period.Window, now time.Time, lastResetDate string) DisplayModel {
	m := DisplayModel{
		State:     state,
		ResetDate: period.FormatDate(w.End),
		ResetAt:   w.End,
		StartAt:   w.Start,
		Used:      quota.Split(state.Used()),
		Remaining: quota.Split(state.RemainingMinutes),
	}

	m.UsedPercent = usedPercent(state)
	m.RemainingPercent = 100 - m.UsedPercent
	m.UsedLabel = fmt.Sprintf("%.1f%%", m.UsedPercent)
	m.ResetDateChanged = lastResetDate != "" && lastResetDate != m.ResetDate
	return m.Refresh(countdown.Compute(w.End, now), w)
}

// Refresh recomputes the time-dependent fields of m for a new tick without
// touching the quota figures. w must be the window m was rendered for.
func (m DisplayModel) Refresh(tick countdown.Tick, w period.Window) DisplayModel {
	m.PeriodPercent = period.Elapsed(w, tick.At) * 100

	m.DaysLeft = period.DaysLeft(w, tick.At)
	if m.DaysLeft > 0 {
		perDay := int(math.Round(float64(m.State.RemainingMinutes) / float64(m.DaysLeft)))
		m.HoursPerDay = quota.Split(perDay).String()
		m.HoursPerDayKnown = true
	} else {
		m.HoursPerDay = HoursPerDayUnknown
		m.HoursPerDayKnown = false
	}

	m.Countdown = tick
	m.ResetPassed = tick.Passed
	m.Approaching = tick.Approaching

	switch {
	case m.Approaching:
		m.Notification = NoticeApproaching
	case m.ResetDateChanged:
		m.Notification = NoticeDateChanged
	default:
		m.Notification = ""
	}
	return m
}

func usedPercent(s quota.State) float64 {
	if s.TotalMinutes <= 0 {
		return 0
	}
	p := float64(s.Used()) / float64(s.TotalMinutes) * 100
	switch {
	case math.IsNaN(p) || math.IsInf(p, 0):
		return 0
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
