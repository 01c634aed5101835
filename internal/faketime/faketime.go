// Package faketime provides deterministic clock.Clock and clock.Frames
// doubles for tests, following spec §9's instruction to inject every
// time source rather than hard-wire a host API.
package faketime

import (
	"sync"
	"time"

	"github.com/coopsched/frameloop/internal/clock"
)

// Clock is a manually-advanced clock.Clock.
type Clock struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	tickers []*fakeTicker
}

// NewClock creates a fake clock starting at t0.
func NewClock(t0 time.Time) *Clock {
	return &Clock{now: t0}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d, firing any timers/tickers
// whose deadline has passed.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	timers := append([]*fakeTimer(nil), c.timers...)
	tickers := append([]*fakeTicker(nil), c.tickers...)
	c.mu.Unlock()

	for _, t := range timers {
		t.maybeFire(now)
	}
	for _, t := range tickers {
		t.maybeFire(now)
	}
}

func (c *Clock) NewTimer(d time.Duration) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{deadline: c.now.Add(d), ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	return t
}

func (c *Clock) NewTicker(d time.Duration) clock.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{interval: d, next: c.now.Add(d), ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

type fakeTimer struct {
	mu       sync.Mutex
	deadline time.Time
	fired    bool
	stopped  bool
	ch       chan time.Time
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasActive := !t.fired && !t.stopped
	t.stopped = true
	return wasActive
}

func (t *fakeTimer) maybeFire(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return
	}
	if !now.Before(t.deadline) {
		t.fired = true
		select {
		case t.ch <- now:
		default:
		}
	}
}

type fakeTicker struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	stopped  bool
	ch       chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) maybeFire(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	for !now.Before(t.next) {
		select {
		case t.ch <- now:
		default:
		}
		t.next = t.next.Add(t.interval)
	}
}

// Frames is a manually-driven clock.Frames double: RequestFrame queues
// a callback that Tick fires in FIFO order, letting tests dispatch a
// single scheduler frame at a time.
type Frames struct {
	mu      sync.Mutex
	pending []func(now time.Time)
}

func (f *Frames) RequestFrame(cb func(now time.Time)) {
	f.mu.Lock()
	f.pending = append(f.pending, cb)
	f.mu.Unlock()
}

// Tick fires the oldest pending callback, if any, with the given
// timestamp, and reports whether one fired.
func (f *Frames) Tick(now time.Time) bool {
	f.mu.Lock()
	if len(f.pending) == 0 {
		f.mu.Unlock()
		return false
	}
	cb := f.pending[0]
	f.pending = f.pending[1:]
	f.mu.Unlock()
	cb(now)
	return true
}

// Pending reports how many frame requests are queued.
func (f *Frames) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
