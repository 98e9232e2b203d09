// Package settings maps the persisted key/value pairs onto typed settings.
package settings

import (
	"strconv"
	"time"

	"github.com/theirongolddev/quotaclock/internal/period"
	"github.com/theirongolddev/quotaclock/internal/quota"
)

// Persisted keys.
const (
	KeyTotalHours        = "totalHours"
	KeyTotalMinutes      = "totalMinutes"
	KeyRemainingHours    = "remainingHours"
	KeyRemainingMinutes  = "remainingMinutes"
	KeyManualReset       = "manualReset"
	KeyResetDay          = "resetDay"
	KeyResetDate         = "resetDate"
	KeyDarkMode          = "darkMode"
	KeyPreviousResetDate = "previousResetDate"
)

// DefaultResetDay is the day of month the quota resets on out of the box.
const DefaultResetDay = 25

// Settings is everything the app remembers between runs.
type Settings struct {
	State             quota.State `json:"state" yaml:"state"`
	ManualReset       bool        `json:"manual_reset" yaml:"manual_reset"`
	ResetDay          int         `json:"reset_day" yaml:"reset_day"`
	ResetDate         string      `json:"reset_date,omitempty" yaml:"reset_date,omitempty"`
	DarkMode          bool        `json:"dark_mode" yaml:"dark_mode"`
	PreviousResetDate string      `json:"previous_reset_date,omitempty" yaml:"previous_reset_date,omitempty"`
}

// Defaults returns the first-run settings.
func Defaults() Settings {
	return Settings{
		State:    quota.Defaults(),
		ResetDay: DefaultResetDay,
	}
}

// Decode builds Settings from stored values. Each missing or malformed key
// falls back to its default on its own.
func Decode(kv map[string]string) Settings {
	s := Defaults()
	def := quota.Split(s.State.TotalMinutes)
	rem := quota.Split(s.State.RemainingMinutes)

	total := quota.HoursMinutes{
		Hours:   intOr(kv, KeyTotalHours, def.Hours),
		Minutes: intOr(kv, KeyTotalMinutes, def.Minutes),
	}
	remaining := quota.HoursMinutes{
		Hours:   intOr(kv, KeyRemainingHours, rem.Hours),
		Minutes: intOr(kv, KeyRemainingMinutes, rem.Minutes),
	}
	s.State = quota.State{TotalMinutes: total.Total(), RemainingMinutes: remaining.Total()}
	if s.State.TotalMinutes < 0 {
		s.State.TotalMinutes = 0
	}
	if s.State.RemainingMinutes < 0 {
		s.State.RemainingMinutes = 0
	}

	s.ManualReset = boolOr(kv, KeyManualReset, false)
	if d := intOr(kv, KeyResetDay, DefaultResetDay); d >= 1 && d <= 31 {
		s.ResetDay = d
	}
	s.ResetDate = kv[KeyResetDate]
	s.DarkMode = boolOr(kv, KeyDarkMode, false)
	s.PreviousResetDate = kv[KeyPreviousResetDate]
	return s
}

// Encode flattens s into stored values.
func (s Settings) Encode() map[string]string {
	total := quota.Split(s.State.TotalMinutes)
	remaining := quota.Split(s.State.RemainingMinutes)
	return map[string]string{
		KeyTotalHours:        strconv.Itoa(total.Hours),
		KeyTotalMinutes:      strconv.Itoa(total.Minutes),
		KeyRemainingHours:    strconv.Itoa(remaining.Hours),
		KeyRemainingMinutes:  strconv.Itoa(remaining.Minutes),
		KeyManualReset:       strconv.FormatBool(s.ManualReset),
		KeyResetDay:          strconv.Itoa(s.ResetDay),
		KeyResetDate:         s.ResetDate,
		KeyDarkMode:          strconv.FormatBool(s.DarkMode),
		KeyPreviousResetDate: s.PreviousResetDate,
	}
}

// Policy returns the active reset rule. A manual date that no longer parses
// falls back to the day-of-month rule.
func (s Settings) Policy(loc *time.Location) period.Policy {
	if s.ManualReset {
		if t, err := period.ParseResetDate(s.ResetDate, loc); err == nil {
			return period.ExplicitDate(t)
		}
	}
	return period.DayOfMonth(s.ResetDay)
}

func intOr(kv map[string]string, key string, def int) int {
	v, ok := kv[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolOr(kv map[string]string, key string, def bool) bool {
	v, ok := kv[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
