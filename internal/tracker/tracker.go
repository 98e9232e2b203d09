// Package tracker owns the quota settings, the undo log and persistence, and
// is the one place state changes happen.
package tracker

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/quotaclock/internal/dashboard"
	"github.com/theirongolddev/quotaclock/internal/metrics"
	"github.com/theirongolddev/quotaclock/internal/period"
	"github.com/theirongolddev/quotaclock/internal/quota"
	"github.com/theirongolddev/quotaclock/internal/settings"
	"github.com/theirongolddev/quotaclock/internal/undo"
	"github.com/theirongolddev/quotaclock/internal/validate"
)

// Quick-adjust deltas in minutes.
const (
	MinusHour     = -60
	MinusHalfHour = -30
	PlusHalfHour  = 30
	PlusHour      = 60
)

// Store is the durable key/value backend.
type Store interface {
	LoadSettings() (map[string]string, error)
	SaveSettings(kv map[string]string) error
	LoadUndo() ([]int, error)
	SaveUndo(values []int) error
	Clear() error
}

// Tracker is not safe for concurrent use; callers serialize access.
type Tracker struct {
	store   Store
	logger  *zap.Logger
	now     func() time.Time
	history *undo.Log

	settings   settings.Settings
	storageErr error
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithUndoLimit overrides the undo capacity.
func WithUndoLimit(n int) Option {
	return func(t *Tracker) {
		t.history = undo.New(n)
	}
}

// New returns a tracker holding default settings. Call Load to read the
// persisted state.
func New(store Store, logger *zap.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		store:    store,
		logger:   logger,
		now:      time.Now,
		history:  undo.New(undo.DefaultLimit),
		settings: settings.Defaults(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load reads settings and undo history from the store. Missing keys and
// storage failures leave defaults in place.
func (t *Tracker) Load() {
	kv, err := t.store.LoadSettings()
	if err != nil {
		t.storageFailed("load_settings", err)
		kv = nil
	}
	t.settings = settings.Decode(kv)

	values, err := t.store.LoadUndo()
	if err != nil {
		t.storageFailed("load_undo", err)
		values = nil
	}
	t.history.Restore(values)

	t.logger.Debug("state loaded",
		zap.Int("total_minutes", t.settings.State.TotalMinutes),
		zap.Int("remaining_minutes", t.settings.State.RemainingMinutes),
		zap.Int("undo_entries", t.history.Len()),
	)
	t.observe()
}

// Update validates raw form input and commits it as a whole. On a
// validation error nothing changes and the error is returned.
func (t *Tracker) Update(raw validate.Raw) error {
	parsed, err := validate.Validate(raw, t.now())
	if err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			metrics.ValidationErrorsTotal.WithLabelValues(verr.Field).Inc()
		}
		return err
	}

	t.history.Push(t.settings.State.RemainingMinutes)

	t.settings.State = parsed.State
	t.settings.ManualReset = parsed.ManualReset
	t.settings.ResetDay = parsed.ResetDay
	t.settings.ResetDate = parsed.ResetDate

	metrics.AdjustmentsTotal.WithLabelValues("form").Inc()
	t.persist(true)
	return nil
}

// Adjust shifts remaining by delta minutes, clamped at zero.
func (t *Tracker) Adjust(delta int) {
	metrics.AdjustmentsTotal.WithLabelValues("quick").Inc()
	t.SetRemaining(t.settings.State.Apply(delta).RemainingMinutes, true)
}

// SetRemaining sets remaining minutes. With recordHistory the previous value
// is pushed onto the undo log first; undo itself passes false.
func (t *Tracker) SetRemaining(minutes int, recordHistory bool) {
	if recordHistory {
		t.history.Push(t.settings.State.RemainingMinutes)
	}
	t.settings.State = t.settings.State.WithRemaining(minutes)
	t.persist(true)
}

// Undo restores the previous remaining value. It reports false when there is
// no history.
func (t *Tracker) Undo() bool {
	v, ok := t.history.Undo()
	if !ok {
		return false
	}
	metrics.AdjustmentsTotal.WithLabelValues("undo").Inc()
	t.SetRemaining(v, false)
	return true
}

// ToggleTheme flips dark mode and persists it.
func (t *Tracker) ToggleTheme() bool {
	t.settings.DarkMode = !t.settings.DarkMode
	t.persist(false)
	return t.settings.DarkMode
}

// SetDarkMode sets dark mode explicitly.
func (t *Tracker) SetDarkMode(dark bool) {
	if t.settings.DarkMode == dark {
		return
	}
	t.settings.DarkMode = dark
	t.persist(false)
}

// ResetDefaults clears storage and history and returns to first-run settings.
func (t *Tracker) ResetDefaults() {
	if err := t.store.Clear(); err != nil {
		t.storageFailed("clear", err)
	}
	t.history.Clear()
	t.settings = settings.Defaults()
	metrics.AdjustmentsTotal.WithLabelValues("reset").Inc()
	t.observe()
}

// Window is the reset window containing now.
func (t *Tracker) Window(now time.Time) period.Window {
	return period.Compute(t.settings.Policy(now.Location()), now)
}

// Dashboard renders the current state at now.
func (t *Tracker) Dashboard(now time.Time) dashboard.DisplayModel {
	return dashboard.Render(t.settings.State, t.Window(now), now, t.settings.PreviousResetDate)
}

// Settings returns a copy of the current settings.
func (t *Tracker) Settings() settings.Settings {
	return t.settings
}

// State returns the current quota.
func (t *Tracker) State() quota.State {
	return t.settings.State
}

// History returns the undo log, oldest first.
func (t *Tracker) History() []int {
	return t.history.Values()
}

// StorageErr is the most recent storage failure, nil once a write succeeds.
func (t *Tracker) StorageErr() error {
	return t.storageErr
}

// persist writes settings and history. With ack the current reset date is
// recorded as seen, which clears the reset-date-changed notice.
func (t *Tracker) persist(ack bool) {
	if ack {
		t.settings.PreviousResetDate = period.FormatDate(t.Window(t.now()).End)
	}
	t.observe()

	if err := t.store.SaveSettings(t.settings.Encode()); err != nil {
		t.storageFailed("save_settings", err)
		return
	}
	if err := t.store.SaveUndo(t.history.Values()); err != nil {
		t.storageFailed("save_undo", err)
		return
	}
	t.storageErr = nil
}

func (t *Tracker) storageFailed(op string, err error) {
	t.storageErr = err
	metrics.StorageErrorsTotal.WithLabelValues(op).Inc()
	t.logger.Warn("storage unavailable, continuing in memory", zap.String("op", op), zap.Error(err))
}

func (t *Tracker) observe() {
	now := t.now()
	m := t.Dashboard(now)
	metrics.Observe(metrics.Observation{
		TotalMinutes:     m.State.TotalMinutes,
		RemainingMinutes: m.State.RemainingMinutes,
		UsedPercent:      m.UsedPercent,
		PeriodPercent:    m.PeriodPercent,
		SecondsToReset:   m.ResetAt.Sub(now).Seconds(),
	})
}
