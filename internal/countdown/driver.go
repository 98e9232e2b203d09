package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/quotaclock/internal/metrics"
)

// DefaultInterval is the refresh period of a Driver.
const DefaultInterval = time.Second

// Driver owns at most one running countdown timer. Starting a new countdown
// stops the previous one and waits for its goroutine to exit first.
//
// The callback runs on the driver goroutine and must not call Start or Stop.
type Driver struct {
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	end     time.Time
	running bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithInterval overrides the tick period.
func WithInterval(d time.Duration) Option {
	return func(dr *Driver) {
		if d > 0 {
			dr.interval = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(dr *Driver) {
		if now != nil {
			dr.now = now
		}
	}
}

// NewDriver returns a stopped driver.
func NewDriver(logger *zap.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{
		interval: DefaultInterval,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start cancels any running countdown and begins a new one toward end.
// fn receives an immediate tick and then one per interval until Stop.
func (d *Driver) Start(end time.Time, fn func(Tick)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done
	d.end = end
	d.running = true

	go d.run(ctx, done, end, fn)
}

// Stop cancels the running countdown, if any, and waits for it to exit.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Driver) stopLocked() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
	d.cancel = nil
	d.done = nil
	d.running = false
}

// Running reports whether a countdown is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// End returns the target of the active countdown.
func (d *Driver) End() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.end
}

func (d *Driver) run(ctx context.Context, done chan struct{}, end time.Time, fn func(Tick)) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.fire(end, fn)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			d.fire(end, fn)
		}
	}
}

// fire delivers one tick. A panicking callback is logged and counted; the
// countdown keeps going.
func (d *Driver) fire(end time.Time, fn func(Tick)) {
	defer func() {
		if r := recover(); r != nil {
			metrics.TimerFaultsTotal.Inc()
			d.logger.Error("countdown tick failed",
				zap.Time("end", end),
				zap.String("panic", fmt.Sprint(r)),
				zap.Stack("stack"),
			)
		}
	}()
	fn(Compute(end, d.now()))
}
