// Package validate checks raw dashboard inputs before any state is touched.
package validate

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/quotaclock/internal/period"
	"github.com/theirongolddev/quotaclock/internal/quota"
)

// Kind identifies a class of validation failure.
type Kind int

const (
	KindNegativeValue Kind = iota + 1
	KindRemainingExceedsTotal
	KindInvalidDate
	KindPastDate
	KindInvalidNumber
	KindInvalidResetDay
)

var messages = map[Kind]string{
	KindNegativeValue:         "Cannot enter negative values.",
	KindRemainingExceedsTotal: "Remaining hours cannot exceed total hours.",
	KindInvalidDate:           "Invalid date format.",
	KindPastDate:              "Reset date cannot be in the past.",
	KindInvalidNumber:         "Hours and minutes must be whole numbers.",
	KindInvalidResetDay:       "Reset day must be between 1 and 31.",
}

// ValidationError is a user-correctable input problem. Its message is meant
// to be shown as-is.
type ValidationError struct {
	Kind  Kind
	Field string
}

func (e *ValidationError) Error() string {
	if msg, ok := messages[e.Kind]; ok {
		return msg
	}
	return "Invalid input."
}

// Is matches any ValidationError of the same kind, so errors.Is works against
// the sentinels below regardless of Field.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNegativeValue         = &ValidationError{Kind: KindNegativeValue}
	ErrRemainingExceedsTotal = &ValidationError{Kind: KindRemainingExceedsTotal}
	ErrInvalidDate           = &ValidationError{Kind: KindInvalidDate}
	ErrPastDate              = &ValidationError{Kind: KindPastDate}
	ErrInvalidNumber         = &ValidationError{Kind: KindInvalidNumber}
	ErrInvalidResetDay       = &ValidationError{Kind: KindInvalidResetDay}
)

// Raw holds the form fields exactly as typed.
type Raw struct {
	TotalHours       string
	TotalMinutes     string
	RemainingHours   string
	RemainingMinutes string
	ManualReset      bool
	ResetDay         string
	ResetDate        string
}

// Parsed is a fully validated input set, safe to commit.
type Parsed struct {
	State       quota.State
	Policy      period.Policy
	ManualReset bool
	ResetDay    int
	ResetDate   string
}

// Field limits keep hours*60 + minutes inside int.
const (
	maxMinutes = math.MaxInt / 2
	maxHours   = maxMinutes / 60
)

type numField struct {
	name string
	raw  string
	max  int
	val  int
}

// Validate parses and checks raw. It reports the first failure in the order:
// malformed number, negative value, remaining above total, reset day, then
// (manual reset only) date format and past date.
func Validate(raw Raw, now time.Time) (Parsed, error) {
	fields := []*numField{
		{name: "totalHours", raw: raw.TotalHours, max: maxHours},
		{name: "totalMinutes", raw: raw.TotalMinutes, max: maxMinutes},
		{name: "remainingHours", raw: raw.RemainingHours, max: maxHours},
		{name: "remainingMinutes", raw: raw.RemainingMinutes, max: maxMinutes},
	}
	for _, f := range fields {
		v, err := parseInt(f.raw)
		if err != nil || v > f.max {
			return Parsed{}, &ValidationError{Kind: KindInvalidNumber, Field: f.name}
		}
		f.val = v
	}
	for _, f := range fields {
		if f.val < 0 {
			return Parsed{}, &ValidationError{Kind: KindNegativeValue, Field: f.name}
		}
	}

	state := quota.State{
		TotalMinutes:     fields[0].val*60 + fields[1].val,
		RemainingMinutes: fields[2].val*60 + fields[3].val,
	}
	if state.RemainingMinutes > state.TotalMinutes {
		return Parsed{}, &ValidationError{Kind: KindRemainingExceedsTotal, Field: "remainingHours"}
	}

	day, err := parseInt(raw.ResetDay)
	if err != nil || day < 1 || day > 31 {
		return Parsed{}, &ValidationError{Kind: KindInvalidResetDay, Field: "resetDay"}
	}

	out := Parsed{
		State:       state,
		Policy:      period.DayOfMonth(day),
		ManualReset: raw.ManualReset,
		ResetDay:    day,
		ResetDate:   strings.TrimSpace(raw.ResetDate),
	}

	if raw.ManualReset {
		end, err := period.ParseResetDate(raw.ResetDate, now.Location())
		if err != nil {
			return Parsed{}, &ValidationError{Kind: KindInvalidDate, Field: "resetDate"}
		}
		if end.Before(now) {
			return Parsed{}, &ValidationError{Kind: KindPastDate, Field: "resetDate"}
		}
		out.Policy = period.ExplicitDate(end)
	}

	return out, nil
}

// parseInt treats an empty field as zero.
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
