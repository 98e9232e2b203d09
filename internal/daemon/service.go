// Package daemon serves the quota tracker over a local HTTP API with a live
// countdown stream.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/quotaclock/internal/countdown"
	"github.com/theirongolddev/quotaclock/internal/dashboard"
	"github.com/theirongolddev/quotaclock/internal/period"
	"github.com/theirongolddev/quotaclock/internal/tracker"
)

// Event types.
const (
	EventSnapshot = "snapshot"
	EventAdjust   = "adjust"
	EventUndo     = "undo"
	EventSettings = "settings"
	EventReset    = "reset"
	EventRollover = "rollover"
	EventTick     = "tick"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	// TickInterval is how often the countdown is re-evaluated.
	TickInterval time.Duration
	// Now overrides the wall clock.
	Now func() time.Time
}

// Snapshot is a compact quota state for event payloads.
type Snapshot struct {
	At               time.Time `json:"at"`
	TotalMinutes     int       `json:"total_minutes"`
	RemainingMinutes int       `json:"remaining_minutes"`
	UsedPercent      float64   `json:"used_percent"`
	PeriodPercent    float64   `json:"period_percent"`
	ResetDate        string    `json:"reset_date"`
	Countdown        string    `json:"countdown"`
	Notification     string    `json:"notification,omitempty"`
}

// Event is emitted whenever the quota or the reset window changes. Tick
// events are streamed but not kept in the ring buffer.
type Event struct {
	ID        int64     `json:"id,omitempty"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	// DeltaMinutes is the change in remaining minutes caused by the event.
	DeltaMinutes int `json:"delta_minutes"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time              `json:"started_at"`
	LastTickAt      time.Time              `json:"last_tick_at"`
	TickCount       int64                  `json:"tick_count"`
	Dashboard       dashboard.DisplayModel `json:"dashboard"`
	History         []int                  `json:"history"`
	StorageError    string                 `json:"storage_error,omitempty"`
	EventCount      int                    `json:"event_count"`
	SubscriberCount int                    `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API. All tracker access goes
// through mu.
type Service struct {
	cfg     Config
	tracker *tracker.Tracker
	driver  *countdown.Driver
	logger  *zap.Logger

	ticks chan countdown.Tick

	// restartMu keeps the window read and driver.Start in one step.
	restartMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	window      period.Window
	view        dashboard.DisplayModel // last full render, refreshed per tick
	lastTickAt  time.Time
	tickCount   int64
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service over tr, which must already be loaded.
func New(cfg Config, tr *tracker.Tracker, logger *zap.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	now := cfg.Now()
	return &Service{
		cfg:     cfg,
		tracker: tr,
		driver: countdown.NewDriver(logger,
			countdown.WithInterval(cfg.TickInterval),
			countdown.WithClock(cfg.Now),
		),
		logger:    logger,
		ticks:     make(chan countdown.Tick, 1),
		startedAt: now,
		window:    tr.Window(now),
		view:      tr.Dashboard(now),
		subs:      make(map[int]chan Event),
	}
}

// Run serves HTTP and drives the countdown until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("daemon listening", zap.String("addr", s.cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.record(EventSnapshot, 0)
	s.startDriver()
	defer s.driver.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.logger.Info("daemon shutting down")
			return server.Shutdown(shutdownCtx)
		case t := <-s.ticks:
			if s.handleTick(t) {
				s.startDriver()
			}
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// startDriver points the countdown at the current window end. The callback
// only hands the tick over; rollover is handled by the Run loop.
func (s *Service) startDriver() {
	s.restartMu.Lock()
	defer s.restartMu.Unlock()

	s.mu.RLock()
	end := s.window.End
	s.mu.RUnlock()

	ch := s.ticks
	s.driver.Start(end, func(t countdown.Tick) {
		select {
		case ch <- t:
		default:
		}
	})
}

// handleTick records a countdown reading and reports whether the reset window
// rolled over, in which case the driver must be restarted.
func (s *Service) handleTick(t countdown.Tick) bool {
	s.mu.Lock()
	if !t.End.Equal(s.window.End) {
		s.mu.Unlock()
		return false
	}
	s.lastTickAt = t.At
	s.tickCount++

	rolled := false
	if w := s.tracker.Window(t.At); !w.End.Equal(s.window.End) {
		s.window = w
		rolled = true
	}
	if rolled {
		s.view = s.tracker.Dashboard(t.At)
	} else {
		s.view = s.view.Refresh(t, s.window)
	}
	m := s.view
	s.mu.Unlock()

	if rolled {
		s.logger.Info("reset window rolled over", zap.Time("end", m.ResetAt))
		s.record(EventRollover, 0)
		return true
	}

	s.broadcast(Event{Type: EventTick, Timestamp: t.At, Snapshot: compact(m, t.At)})
	return false
}

// mutate applies fn to the tracker under the lock and records an event of
// type kind carrying the change in remaining minutes.
func (s *Service) mutate(kind string, fn func(*tracker.Tracker) error) (Event, error) {
	s.mu.Lock()
	before := s.tracker.State().RemainingMinutes
	if err := fn(s.tracker); err != nil {
		s.mu.Unlock()
		return Event{}, err
	}
	delta := s.tracker.State().RemainingMinutes - before

	now := s.cfg.Now()
	moved := false
	if w := s.tracker.Window(now); !w.End.Equal(s.window.End) {
		s.window = w
		moved = true
	}
	s.view = s.tracker.Dashboard(now)
	s.mu.Unlock()

	if moved {
		s.startDriver()
	}
	return s.record(kind, delta), nil
}

// record appends a state event to the ring buffer and fans it out.
func (s *Service) record(kind string, delta int) Event {
	now := s.cfg.Now()

	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:           s.nextEventID,
		Type:         kind,
		Timestamp:    now,
		Snapshot:     compact(s.tracker.Dashboard(now), now),
		DeltaMinutes: delta,
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
	s.mu.Unlock()

	s.broadcast(ev)
	return ev
}

func (s *Service) broadcast(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// compact reduces a display model to the event payload.
func compact(m dashboard.DisplayModel, at time.Time) Snapshot {
	return Snapshot{
		At:               at,
		TotalMinutes:     m.State.TotalMinutes,
		RemainingMinutes: m.State.RemainingMinutes,
		UsedPercent:      m.UsedPercent,
		PeriodPercent:    m.PeriodPercent,
		ResetDate:        m.ResetDate,
		Countdown:        m.Countdown.Text(),
		Notification:     m.Notification,
	}
}

// Status returns the full daemon status at the current time.
func (s *Service) Status() Status {
	now := s.cfg.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:       s.startedAt,
		LastTickAt:      s.lastTickAt,
		TickCount:       s.tickCount,
		Dashboard:       s.tracker.Dashboard(now),
		History:         s.tracker.History(),
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
	if err := s.tracker.StorageErr(); err != nil {
		st.StorageError = err.Error()
	}
	return st
}

// Events returns a copy of the retained events, oldest first.
func (s *Service) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
