package period

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestComputeDayOfMonth(t *testing.T) {
	tests := []struct {
		name      string
		day       int
		now       time.Time
		wantEnd   time.Time
		wantStart time.Time
	}{
		{
			name:      "before reset day",
			day:       25,
			now:       date(2025, time.November, 10, 12, 0, 0),
			wantEnd:   date(2025, time.November, 25, 23, 59, 59),
			wantStart: date(2025, time.October, 25, 23, 59, 59),
		},
		{
			name:      "on reset day",
			day:       25,
			now:       date(2025, time.November, 25, 8, 0, 0),
			wantEnd:   date(2025, time.November, 25, 23, 59, 59),
			wantStart: date(2025, time.October, 25, 23, 59, 59),
		},
		{
			name:      "after reset day rolls into next year",
			day:       5,
			now:       date(2025, time.December, 20, 9, 0, 0),
			wantEnd:   date(2026, time.January, 5, 23, 59, 59),
			wantStart: date(2025, time.December, 5, 23, 59, 59),
		},
		{
			name:      "day 31 in a 30 day month clamps",
			day:       31,
			now:       date(2025, time.November, 10, 0, 0, 0),
			wantEnd:   date(2025, time.November, 30, 23, 59, 59),
			wantStart: date(2025, time.October, 30, 23, 59, 59),
		},
		{
			name:      "day 31 start clamps into february",
			day:       31,
			now:       date(2025, time.March, 2, 0, 0, 0),
			wantEnd:   date(2025, time.March, 31, 23, 59, 59),
			wantStart: date(2025, time.February, 28, 23, 59, 59),
		},
		{
			name:      "leap year february",
			day:       30,
			now:       date(2024, time.February, 3, 0, 0, 0),
			wantEnd:   date(2024, time.February, 29, 23, 59, 59),
			wantStart: date(2024, time.January, 29, 23, 59, 59),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Compute(DayOfMonth(tt.day), tt.now)
			if !w.End.Equal(tt.wantEnd) {
				t.Fatalf("End = %s, want %s", w.End, tt.wantEnd)
			}
			if !w.Start.Equal(tt.wantStart) {
				t.Fatalf("Start = %s, want %s", w.Start, tt.wantStart)
			}
		})
	}
}

func TestSubtractMonthDoesNotRollForward(t *testing.T) {
	got := SubtractMonth(date(2025, time.March, 31, 23, 59, 59))
	if got.Month() != time.February || got.Day() != 28 {
		t.Fatalf("SubtractMonth(Mar 31) = %s, want Feb 28", got)
	}
	got = SubtractMonth(date(2025, time.January, 15, 1, 2, 3))
	if !got.Equal(date(2024, time.December, 15, 1, 2, 3)) {
		t.Fatalf("SubtractMonth(Jan 15) = %s, want 2024-12-15 01:02:03", got)
	}
}

func TestComputeExplicitDate(t *testing.T) {
	end := date(2025, time.December, 1, 23, 59, 59)
	w := Compute(ExplicitDate(end), date(2025, time.November, 10, 0, 0, 0))
	if !w.End.Equal(end) {
		t.Fatalf("End = %s, want %s", w.End, end)
	}
	if !w.Start.Equal(date(2025, time.November, 1, 23, 59, 59)) {
		t.Fatalf("Start = %s, want 2025-11-01 23:59:59", w.Start)
	}
}

func TestElapsed(t *testing.T) {
	w := Window{
		Start: date(2025, time.November, 1, 0, 0, 0),
		End:   date(2025, time.November, 11, 0, 0, 0),
	}

	if got := Elapsed(w, date(2025, time.November, 6, 0, 0, 0)); got != 0.5 {
		t.Fatalf("Elapsed(mid) = %v, want 0.5", got)
	}
	if got := Elapsed(w, date(2025, time.October, 1, 0, 0, 0)); got != 0 {
		t.Fatalf("Elapsed(before) = %v, want 0", got)
	}
	if got := Elapsed(w, date(2025, time.December, 1, 0, 0, 0)); got != 1 {
		t.Fatalf("Elapsed(after) = %v, want 1", got)
	}

	degenerate := Window{Start: w.End, End: w.Start}
	if got := Elapsed(degenerate, date(2025, time.November, 6, 0, 0, 0)); got != 0 {
		t.Fatalf("Elapsed(degenerate) = %v, want 0", got)
	}
}

func TestDaysLeft(t *testing.T) {
	w := Window{End: date(2025, time.November, 25, 23, 59, 59)}

	if got := DaysLeft(w, date(2025, time.November, 10, 12, 0, 0)); got != 15 {
		t.Fatalf("DaysLeft = %d, want 15", got)
	}
	if got := DaysLeft(w, date(2025, time.November, 25, 12, 0, 0)); got != 0 {
		t.Fatalf("DaysLeft(same day) = %d, want 0", got)
	}
	if got := DaysLeft(w, date(2025, time.November, 26, 12, 0, 0)); got >= 0 {
		t.Fatalf("DaysLeft(after end) = %d, want negative", got)
	}
}

func TestParseResetDate(t *testing.T) {
	got, err := ParseResetDate("2025-11-25", time.UTC)
	if err != nil {
		t.Fatalf("ParseResetDate() unexpected error: %v", err)
	}
	if !got.Equal(date(2025, time.November, 25, 23, 59, 59)) {
		t.Fatalf("ParseResetDate() = %s, want 2025-11-25 23:59:59", got)
	}

	got, err = ParseResetDate("2025-11-25T10:00:00Z", time.UTC)
	if err != nil {
		t.Fatalf("ParseResetDate(rfc3339) unexpected error: %v", err)
	}
	if !got.Equal(date(2025, time.November, 25, 10, 0, 0)) {
		t.Fatalf("ParseResetDate(rfc3339) = %s", got)
	}

	for _, bad := range []string{"", "tomorrow", "2025-13-01", "25/11/2025"} {
		if _, err := ParseResetDate(bad, time.UTC); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseResetDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}
