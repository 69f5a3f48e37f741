// Package retention measures how long a multiplexed display has held its current
// output, using a free-running 32-bit microsecond counter.
//
// The counter is allowed to wrap. Elapsed time is computed with unsigned subtraction,
// which stays correct across a wrap as long as the real elapsed time is below half the
// counter range (see MaxDuration).
package retention

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// MaxDuration is the longest duration that can be measured reliably.
const MaxDuration = time.Duration(1<<31-1) * time.Microsecond

// Counter is a monotonic microsecond counter that wraps at 2^32.
type Counter interface {
	Micros() uint32
}

// CounterFunc adapts a function to the Counter interface.
type CounterFunc func() uint32

// Micros implements Counter.
func (f CounterFunc) Micros() uint32 {
	return f()
}

type clockCounter struct {
	c     clockwork.Clock
	epoch time.Time
}

// FromClock returns a Counter that counts microseconds elapsed on c since the call to
// FromClock, truncated to 32 bits.
func FromClock(c clockwork.Clock) Counter {
	return &clockCounter{c: c, epoch: c.Now()}
}

func (cc *clockCounter) Micros() uint32 {
	return uint32(cc.c.Now().Sub(cc.epoch) / time.Microsecond)
}

// HasElapsed reports whether at least d has passed between ref and now.
// A zero d always elapses.
func HasElapsed(now, ref uint32, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	return now-ref >= uint32(d/time.Microsecond)
}

// Timer remembers when the current output was latched.
type Timer struct {
	src   Counter
	start uint32
}

// New returns a Timer reading src. The timer starts at counter value zero, like a
// freshly reset driver.
func New(src Counter) *Timer {
	return &Timer{src: src}
}

// Restart samples the counter and makes it the new reference point.
func (t *Timer) Restart() {
	t.start = t.src.Micros()
}

// Reset clears the reference point back to zero.
func (t *Timer) Reset() {
	t.start = 0
}

// Start returns the counter value of the last Restart.
func (t *Timer) Start() uint32 {
	return t.start
}

// Elapsed reports whether d has passed since the last Restart. It never blocks.
func (t *Timer) Elapsed(d time.Duration) bool {
	if d <= 0 {
		return true
	}
	return HasElapsed(t.src.Micros(), t.start, d)
}
