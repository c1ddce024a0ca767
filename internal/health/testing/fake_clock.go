// Package testing provides test doubles for the health package.
package testing

import (
	"sync"
	"time"

	"github.com/rileyhilliard/healthboard/internal/health"
)

// FakeClock is a manually advanced health.Clock. Tickers fire only from
// Advance, so refresh timing in tests is fully deterministic.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*FakeTicker
}

// NewFakeClock creates a clock set to start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Ticker creates a ticker that fires when Advance crosses its period.
func (c *FakeClock) Ticker(d time.Duration) health.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &FakeTicker{
		period: d,
		next:   c.now.Add(d),
		c:      make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// Advance moves the clock forward and fires every live ticker whose
// deadline has passed. A ticker that is not drained drops ticks, like
// time.Ticker does.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	live := make([]*FakeTicker, 0, len(c.tickers))
	for _, t := range c.tickers {
		if !t.Stopped() {
			live = append(live, t)
		}
	}
	c.mu.Unlock()

	for _, t := range live {
		t.fire(now)
	}
}

// ActiveTickers returns tickers that have not been stopped.
func (c *FakeClock) ActiveTickers() []*FakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*FakeTicker
	for _, t := range c.tickers {
		if !t.Stopped() {
			out = append(out, t)
		}
	}
	return out
}

// TickerCount returns how many tickers were ever created.
func (c *FakeClock) TickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// FakeTicker is the ticker handed out by FakeClock.
type FakeTicker struct {
	mu      sync.Mutex
	period  time.Duration
	next    time.Time
	stopped bool
	c       chan time.Time
}

// Chan returns the tick channel.
func (t *FakeTicker) Chan() <-chan time.Time {
	return t.c
}

// Stop prevents future ticks.
func (t *FakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop was called.
func (t *FakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Period returns the ticker interval.
func (t *FakeTicker) Period() time.Duration {
	return t.period
}

func (t *FakeTicker) fire(now time.Time) {
	t.mu.Lock()
	if t.stopped || now.Before(t.next) {
		t.mu.Unlock()
		return
	}
	for !now.Before(t.next) {
		t.next = t.next.Add(t.period)
	}
	t.mu.Unlock()

	select {
	case t.c <- now:
	default:
	}
}
