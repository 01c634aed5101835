// Package clock isolates the wall-clock and timer primitives the
// scheduler consumes, so tests can substitute deterministic doubles
// instead of sleeping real time (spec §9 "Timer substitution": "all
// time sources ... are injected so tests can mock them; do not
// hard-wire to a specific host API").
package clock

import "time"

// Clock provides the monotonic now() and one-shot/periodic timers the
// scheduler needs. The real implementation forwards to package time;
// tests use a fake that only advances when told to.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
	NewTicker(d time.Duration) Ticker
}

// Timer is the one-shot timer contract, mirroring time.Timer's parts
// the scheduler actually uses.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// Ticker is the periodic timer contract used by the retention sweeper.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Frames is the host's "call me back before next paint" primitive
// (spec §1, §6: "a next-frame callback accepting (timestamp) -> void").
// The scheduler never assumes a specific host loop; it only needs
// something that invokes cb once per request.
type Frames interface {
	// RequestFrame arranges for cb to be invoked, once, at the next
	// frame boundary. The scheduler re-requests a frame from within cb
	// itself to keep ticking, matching the browser requestAnimationFrame
	// contract this type is modeled on.
	RequestFrame(cb func(now time.Time))
}

// System is the real Clock, backed by package time.
type System struct{}

func (System) Now() time.Time { return time.Now() }

func (System) NewTimer(d time.Duration) Timer {
	t := time.NewTimer(d)
	return systemTimer{t}
}

func (System) NewTicker(d time.Duration) Ticker {
	t := time.NewTicker(d)
	return systemTicker{t}
}

type systemTimer struct{ t *time.Timer }

func (s systemTimer) C() <-chan time.Time { return s.t.C }
func (s systemTimer) Stop() bool          { return s.t.Stop() }

type systemTicker struct{ t *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// TickerFrames drives Frames off a one-shot time.Timer per request,
// approximating a host's before-next-paint callback at a fixed cadence. This is the
// substitute a headless Go host reaches for in place of a browser's
// requestAnimationFrame, which this package deliberately does not
// assume (spec §1 keeps "the host's frame scheduler primitive" out of
// scope; this is one concrete, swappable implementation of its
// contract).
type TickerFrames struct {
	Interval time.Duration
	stop     chan struct{}
}

// NewTickerFrames creates a Frames implementation that fires each
// requested callback one interval after the request. Call Stop to halt
// it.
func NewTickerFrames(interval time.Duration) *TickerFrames {
	return &TickerFrames{Interval: interval, stop: make(chan struct{})}
}

func (f *TickerFrames) RequestFrame(cb func(now time.Time)) {
	go func() {
		t := time.NewTimer(f.Interval)
		defer t.Stop()
		select {
		case now := <-t.C:
			cb(now)
		case <-f.stop:
		}
	}()
}

// Stop halts any pending RequestFrame callback from firing.
func (f *TickerFrames) Stop() {
	select {
	case <-f.stop:
	default:
		close(f.stop)
	}
}
