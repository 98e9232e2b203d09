package settings

import (
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/quotaclock/internal/period"
	"github.com/theirongolddev/quotaclock/internal/quota"
)

func TestDecodeEmptyGivesDefaults(t *testing.T) {
	got := Decode(nil)
	if !reflect.DeepEqual(got, Defaults()) {
		t.Fatalf("Decode(nil) = %+v, want %+v", got, Defaults())
	}
}

func TestDecodePerKeyFallback(t *testing.T) {
	got := Decode(map[string]string{
		KeyTotalHours:       "50",
		KeyTotalMinutes:     "abc",
		KeyRemainingHours:   "10",
		KeyRemainingMinutes: "15",
		KeyResetDay:         "40",
		KeyManualReset:      "maybe",
		KeyDarkMode:         "true",
	})

	if got.State.TotalMinutes != 50*60 {
		t.Fatalf("TotalMinutes = %d, want %d", got.State.TotalMinutes, 50*60)
	}
	if got.State.RemainingMinutes != 10*60+15 {
		t.Fatalf("RemainingMinutes = %d, want %d", got.State.RemainingMinutes, 10*60+15)
	}
	if got.ResetDay != DefaultResetDay {
		t.Fatalf("ResetDay = %d, want %d", got.ResetDay, DefaultResetDay)
	}
	if got.ManualReset {
		t.Fatal("ManualReset = true, want default false")
	}
	if !got.DarkMode {
		t.Fatal("DarkMode = false, want true")
	}
}

func TestEncodeDecode(t *testing.T) {
	s := Settings{
		State:             quota.State{TotalMinutes: 125, RemainingMinutes: 61},
		ManualReset:       true,
		ResetDay:          3,
		ResetDate:         "2025-12-01",
		DarkMode:          true,
		PreviousResetDate: "2025-11-25",
	}
	kv := s.Encode()
	if kv[KeyTotalHours] != "2" || kv[KeyTotalMinutes] != "5" {
		t.Fatalf("total encoded as %s/%s, want 2/5", kv[KeyTotalHours], kv[KeyTotalMinutes])
	}
	if got := Decode(kv); !reflect.DeepEqual(got, s) {
		t.Fatalf("Decode(Encode()) = %+v, want %+v", got, s)
	}
}

func TestPolicy(t *testing.T) {
	s := Defaults()
	if p := s.Policy(time.UTC); p.Kind != period.KindDayOfMonth || p.Day != DefaultResetDay {
		t.Fatalf("Policy = %+v, want day-of-month %d", p, DefaultResetDay)
	}

	s.ManualReset = true
	s.ResetDate = "2025-12-01"
	p := s.Policy(time.UTC)
	if p.Kind != period.KindExplicitDate {
		t.Fatalf("Policy.Kind = %v, want explicit-date", p.Kind)
	}
	if want := time.Date(2025, time.December, 1, 23, 59, 59, 0, time.UTC); !p.Date.Equal(want) {
		t.Fatalf("Policy.Date = %v, want %v", p.Date, want)
	}

	s.ResetDate = "garbage"
	if p := s.Policy(time.UTC); p.Kind != period.KindDayOfMonth {
		t.Fatalf("Policy.Kind = %v, want fallback to day-of-month", p.Kind)
	}
}
