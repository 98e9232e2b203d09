// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/quotaclock/internal/quota"
)

// ErrInvalidDelta is returned when an adjustment cannot be parsed.
var ErrInvalidDelta = errors.New("invalid adjustment")

// FormatMinutes formats minutes as hours and minutes.
// e.g., 5665 -> "94h 25m"
func FormatMinutes(m int) string {
	return quota.Split(m).String()
}

// FormatDelta formats a signed minute delta.
// e.g., 90 -> "+1h 30m", -30 -> "-30m"
func FormatDelta(delta int) string {
	sign := "+"
	if delta < 0 {
		sign = "-"
		delta = -delta
	}
	hm := quota.Split(delta)
	switch {
	case hm.Hours == 0:
		return fmt.Sprintf("%s%dm", sign, hm.Minutes)
	case hm.Minutes == 0:
		return fmt.Sprintf("%s%dh", sign, hm.Hours)
	default:
		return fmt.Sprintf("%s%dh %dm", sign, hm.Hours, hm.Minutes)
	}
}

// FormatPercent formats a 0-100 value with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// ParseDelta parses an adjustment. Bare numbers are minutes; otherwise any
// hour/minute duration is accepted.
// e.g., "+30" -> 30, "-60" -> -60, "+1h" -> 60, "-1h30m" -> -90
func ParseDelta(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidDelta
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if strings.ContainsAny(s, "sµun") {
		return 0, fmt.Errorf("%w %q: only hours and minutes are supported", ErrInvalidDelta, s)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidDelta, s, err)
	}
	if d%time.Minute != 0 {
		return 0, fmt.Errorf("%w %q: not a whole number of minutes", ErrInvalidDelta, s)
	}
	return int(d / time.Minute), nil
}
