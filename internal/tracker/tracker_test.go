package tracker

import (
	"errors"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/quotaclock/internal/dashboard"
	"github.com/theirongolddev/quotaclock/internal/settings"
	"github.com/theirongolddev/quotaclock/internal/store"
	"github.com/theirongolddev/quotaclock/internal/validate"
)

var fixedNow = time.Date(2025, time.November, 10, 12, 0, 0, 0, time.UTC)

func newTracker(t *testing.T, s Store) *Tracker {
	t.Helper()
	tr := New(s, zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
	tr.Load()
	return tr
}

func formRaw() validate.Raw {
	return validate.Raw{
		TotalHours:       "100",
		TotalMinutes:     "0",
		RemainingHours:   "80",
		RemainingMinutes: "0",
		ResetDay:         "25",
	}
}

func TestLoadDefaults(t *testing.T) {
	tr := newTracker(t, store.NewMemory())
	if tr.State().RemainingMinutes != 5665 || tr.State().TotalMinutes != 6000 {
		t.Fatalf("State = %+v, want defaults", tr.State())
	}
	if len(tr.History()) != 0 {
		t.Fatalf("History = %v, want empty", tr.History())
	}
}

func TestAdjustAndUndo(t *testing.T) {
	tr := newTracker(t, store.NewMemory())

	tr.Adjust(MinusHour)
	if got := tr.State().RemainingMinutes; got != 5605 {
		t.Fatalf("after -1h remaining = %d, want 5605", got)
	}
	if !slices.Equal(tr.History(), []int{5665}) {
		t.Fatalf("History = %v, want [5665]", tr.History())
	}

	if !tr.Undo() {
		t.Fatal("Undo() = false, want true")
	}
	if got := tr.State().RemainingMinutes; got != 5665 {
		t.Fatalf("after undo remaining = %d, want 5665", got)
	}
}

func TestUndoSequence(t *testing.T) {
	tr := newTracker(t, store.NewMemory())
	tr.SetRemaining(100, false)
	tr.SetRemaining(200, true)
	tr.SetRemaining(300, true)
	tr.SetRemaining(400, true)
	// history: [100 200 300]

	want := []int{200, 100, 100}
	for i, w := range want {
		if !tr.Undo() {
			t.Fatalf("undo #%d returned false", i+1)
		}
		if got := tr.State().RemainingMinutes; got != w {
			t.Fatalf("undo #%d remaining = %d, want %d", i+1, got, w)
		}
	}
}

func TestUndoEmpty(t *testing.T) {
	tr := newTracker(t, store.NewMemory())
	if tr.Undo() {
		t.Fatal("Undo() on empty history = true")
	}
	if tr.State().RemainingMinutes != 5665 {
		t.Fatalf("remaining changed to %d", tr.State().RemainingMinutes)
	}
}

func TestAdjustClampsAtZero(t *testing.T) {
	tr := newTracker(t, store.NewMemory())
	tr.SetRemaining(20, false)
	tr.Adjust(MinusHalfHour)
	if got := tr.State().RemainingMinutes; got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
}

func TestUpdateValid(t *testing.T) {
	mem := store.NewMemory()
	tr := newTracker(t, mem)

	if err := tr.Update(formRaw()); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if got := tr.State().RemainingMinutes; got != 80*60 {
		t.Fatalf("remaining = %d, want %d", got, 80*60)
	}
	if !slices.Equal(tr.History(), []int{5665}) {
		t.Fatalf("History = %v, want [5665]", tr.History())
	}

	kv, _ := mem.LoadSettings()
	if kv[settings.KeyRemainingHours] != "80" {
		t.Fatalf("persisted remainingHours = %q, want 80", kv[settings.KeyRemainingHours])
	}
	if kv[settings.KeyPreviousResetDate] != "2025-11-25" {
		t.Fatalf("persisted previousResetDate = %q, want 2025-11-25", kv[settings.KeyPreviousResetDate])
	}
}

func TestUpdateInvalidLeavesStateAlone(t *testing.T) {
	mem := store.NewMemory()
	tr := newTracker(t, mem)
	before := tr.Settings()

	raw := formRaw()
	raw.RemainingHours = "200"
	err := tr.Update(raw)
	if !errors.Is(err, validate.ErrRemainingExceedsTotal) {
		t.Fatalf("Update() error = %v, want ErrRemainingExceedsTotal", err)
	}
	if tr.Settings() != before {
		t.Fatalf("settings changed on invalid input: %+v", tr.Settings())
	}
	if len(tr.History()) != 0 {
		t.Fatalf("History = %v, want empty", tr.History())
	}
	kv, _ := mem.LoadSettings()
	if len(kv) != 0 {
		t.Fatalf("store written on invalid input: %v", kv)
	}
}

func TestUpdateManualDate(t *testing.T) {
	tr := newTracker(t, store.NewMemory())
	raw := formRaw()
	raw.ManualReset = true
	raw.ResetDate = "2025-12-01"

	if err := tr.Update(raw); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	m := tr.Dashboard(fixedNow)
	if m.ResetDate != "2025-12-01" {
		t.Fatalf("ResetDate = %q, want 2025-12-01", m.ResetDate)
	}
	if m.ResetDateChanged {
		t.Fatal("ResetDateChanged = true right after the user saved it")
	}
}

func TestResetDateChangedNotice(t *testing.T) {
	mem := store.NewMemory()
	_ = mem.SaveSettings(map[string]string{settings.KeyPreviousResetDate: "2025-10-25"})
	tr := newTracker(t, mem)

	m := tr.Dashboard(fixedNow)
	if m.Notification != dashboard.NoticeDateChanged {
		t.Fatalf("Notification = %q, want date-changed notice", m.Notification)
	}

	tr.Adjust(PlusHalfHour)
	if m := tr.Dashboard(fixedNow); m.ResetDateChanged {
		t.Fatal("ResetDateChanged still set after an acknowledged update")
	}
}

func TestToggleThemeDoesNotAcknowledge(t *testing.T) {
	mem := store.NewMemory()
	_ = mem.SaveSettings(map[string]string{settings.KeyPreviousResetDate: "2025-10-25"})
	tr := newTracker(t, mem)

	if !tr.ToggleTheme() {
		t.Fatal("ToggleTheme() = false, want dark")
	}
	if !tr.Dashboard(fixedNow).ResetDateChanged {
		t.Fatal("theme toggle cleared the reset-date notice")
	}
	kv, _ := mem.LoadSettings()
	if kv[settings.KeyDarkMode] != "true" {
		t.Fatalf("darkMode persisted as %q", kv[settings.KeyDarkMode])
	}
}

func TestPersistsAcrossInstances(t *testing.T) {
	mem := store.NewMemory()
	tr := newTracker(t, mem)
	tr.Adjust(PlusHour)
	tr.Adjust(PlusHour)

	again := newTracker(t, mem)
	if got := again.State().RemainingMinutes; got != 5665+120 {
		t.Fatalf("remaining = %d, want %d", got, 5665+120)
	}
	if !slices.Equal(again.History(), []int{5665, 5725}) {
		t.Fatalf("History = %v, want [5665 5725]", again.History())
	}
}

func TestResetDefaults(t *testing.T) {
	mem := store.NewMemory()
	tr := newTracker(t, mem)
	tr.Adjust(MinusHour)
	tr.ToggleTheme()

	tr.ResetDefaults()
	if tr.Settings() != settings.Defaults() {
		t.Fatalf("Settings = %+v, want defaults", tr.Settings())
	}
	if len(tr.History()) != 0 {
		t.Fatalf("History = %v, want empty", tr.History())
	}
	kv, _ := mem.LoadSettings()
	if len(kv) != 0 {
		t.Fatalf("store not cleared: %v", kv)
	}
}

func TestStorageFailureKeepsWorking(t *testing.T) {
	mem := store.NewMemory()
	mem.FailWith = errors.New("quota exceeded")
	tr := newTracker(t, mem)

	if tr.StorageErr() == nil {
		t.Fatal("StorageErr() = nil after failed load")
	}
	tr.Adjust(PlusHalfHour)
	if got := tr.State().RemainingMinutes; got != 5695 {
		t.Fatalf("remaining = %d, want 5695", got)
	}

	mem.FailWith = nil
	tr.Adjust(PlusHalfHour)
	if tr.StorageErr() != nil {
		t.Fatalf("StorageErr() = %v after a successful write", tr.StorageErr())
	}
}
