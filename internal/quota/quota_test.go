package quota

import (
	"math"
	"testing"
)

func TestApplyClampsAtZero(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		delta     int
		want      int
	}{
		{"plus 60 from empty", 0, 60, 60},
		{"minus 60 from 30", 30, -60, 0},
		{"minus 30 from 30", 30, -30, 0},
		{"plus 30 past total", 6000, 30, 6030},
		{"largest delta saturates", 5665, math.MaxInt, math.MaxInt},
		{"plus one at the ceiling", math.MaxInt, 1, math.MaxInt},
		{"smallest delta clamps", 5665, math.MinInt, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{TotalMinutes: 6000, RemainingMinutes: tt.remaining}
			got := s.Apply(tt.delta)
			if got.RemainingMinutes != tt.want {
				t.Fatalf("Apply(%d) remaining = %d, want %d", tt.delta, got.RemainingMinutes, tt.want)
			}
			if got.TotalMinutes != 6000 {
				t.Fatalf("Apply changed total to %d", got.TotalMinutes)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	if got := Split(5665); got != (HoursMinutes{Hours: 94, Minutes: 25}) {
		t.Fatalf("Split(5665) = %+v, want 94h 25m", got)
	}
	if got := Split(-10); got != (HoursMinutes{}) {
		t.Fatalf("Split(-10) = %+v, want zero", got)
	}
	if got := Split(335).String(); got != "5h 35m" {
		t.Fatalf("Split(335).String() = %q, want %q", got, "5h 35m")
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.TotalMinutes != 6000 || d.RemainingMinutes != 5665 {
		t.Fatalf("Defaults() = %+v, want 6000/5665", d)
	}
	if d.Used() != 335 {
		t.Fatalf("Defaults().Used() = %d, want 335", d.Used())
	}
}
