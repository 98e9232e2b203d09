package countdown

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCompute(t *testing.T) {
	now := time.Date(2025, time.November, 10, 12, 0, 0, 0, time.UTC)
	end := now.Add(26*time.Hour + 3*time.Minute + 4*time.Second)

	got := Compute(end, now)
	if got.Days != 1 || got.Hours != 2 || got.Minutes != 3 || got.Seconds != 4 {
		t.Fatalf("Compute = %dd %dh %dm %ds, want 1d 2h 3m 4s", got.Days, got.Hours, got.Minutes, got.Seconds)
	}
	if got.Passed || got.Approaching {
		t.Fatalf("Passed=%v Approaching=%v, want false/false", got.Passed, got.Approaching)
	}
	if got.Text() != "Reset in: 1d 2h 3m 4s" {
		t.Fatalf("Text() = %q", got.Text())
	}
}

func TestComputeApproachingAndPassed(t *testing.T) {
	now := time.Date(2025, time.November, 25, 12, 0, 0, 0, time.UTC)

	soon := Compute(now.Add(11*time.Hour), now)
	if !soon.Approaching || soon.Passed {
		t.Fatalf("11h out: Approaching=%v Passed=%v, want true/false", soon.Approaching, soon.Passed)
	}

	exact := Compute(now, now)
	if exact.Passed {
		t.Fatal("end == now should not count as passed")
	}

	past := Compute(now.Add(-time.Second), now)
	if !past.Passed || past.Approaching {
		t.Fatalf("past: Passed=%v Approaching=%v, want true/false", past.Passed, past.Approaching)
	}
	if past.Text() != "Reset has passed!" {
		t.Fatalf("Text() = %q, want Reset has passed!", past.Text())
	}
	if past.Remaining() != 0 {
		t.Fatalf("Remaining() = %v, want 0", past.Remaining())
	}
}

func TestDriverImmediateTick(t *testing.T) {
	d := NewDriver(zap.NewNop(), WithInterval(time.Hour))
	got := make(chan Tick, 1)
	end := time.Now().Add(time.Hour)

	d.Start(end, func(tk Tick) { got <- tk })
	defer d.Stop()

	select {
	case tk := <-got:
		if !tk.End.Equal(end) {
			t.Fatalf("tick End = %v, want %v", tk.End, end)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no immediate tick")
	}
	if !d.Running() {
		t.Fatal("Running() = false after Start")
	}
}

func TestDriverRestartStopsPrevious(t *testing.T) {
	d := NewDriver(zap.NewNop(), WithInterval(5*time.Millisecond))

	var mu sync.Mutex
	var first, second int
	endA := time.Now().Add(time.Hour)
	endB := endA.Add(time.Hour)

	d.Start(endA, func(tk Tick) {
		mu.Lock()
		first++
		mu.Unlock()
	})
	time.Sleep(20 * time.Millisecond)
	d.Start(endB, func(tk Tick) {
		mu.Lock()
		second++
		mu.Unlock()
	})

	mu.Lock()
	frozen := first
	mu.Unlock()

	time.Sleep(30 * time.Millisecond)
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	if first != frozen {
		t.Fatalf("old countdown kept ticking: %d -> %d", frozen, first)
	}
	if second == 0 {
		t.Fatal("new countdown never ticked")
	}
	if !d.End().Equal(endB) {
		t.Fatalf("End() = %v, want %v", d.End(), endB)
	}
	if d.Running() {
		t.Fatal("Running() = true after Stop")
	}
}

func TestDriverRecoversPanics(t *testing.T) {
	d := NewDriver(zap.NewNop(), WithInterval(2*time.Millisecond))
	var calls atomic.Int32

	d.Start(time.Now().Add(time.Hour), func(Tick) {
		calls.Add(1)
		panic("boom")
	})
	time.Sleep(20 * time.Millisecond)
	d.Stop()

	if calls.Load() < 2 {
		t.Fatalf("calls = %d, want the countdown to survive a panic", calls.Load())
	}
}

func TestDriverStopIdempotent(t *testing.T) {
	d := NewDriver(nil)
	d.Stop()
	d.Stop()
	if d.Running() {
		t.Fatal("Running() = true on a fresh driver")
	}
}

func TestDriverClock(t *testing.T) {
	fixed := time.Date(2025, time.November, 24, 0, 0, 0, 0, time.UTC)
	d := NewDriver(zap.NewNop(), WithInterval(time.Hour), WithClock(func() time.Time { return fixed }))
	got := make(chan Tick, 1)

	d.Start(fixed.Add(90*time.Minute), func(tk Tick) { got <- tk })
	defer d.Stop()

	tk := <-got
	if tk.Hours != 1 || tk.Minutes != 30 || !tk.Approaching {
		t.Fatalf("tick = %+v, want 1h30m approaching", tk)
	}
}
