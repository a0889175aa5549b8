// Package clocktest provides a manually driven core.Clock for tests.
package clocktest

import (
	"sort"
	"sync"
	"time"

	"github.com/aretw0/mindpages/pkg/core"
)

// Clock is a core.Clock whose time only moves when Advance is called.
// Callbacks scheduled with AfterFunc run synchronously inside Advance, on the
// caller's goroutine, in deadline order.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*timer
	seq    int
}

type timer struct {
	clock    *Clock
	deadline time.Time
	seq      int
	fn       func()
	stopped  bool
	fired    bool
}

// New returns a Clock set to start.
func New(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now implements core.Clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements core.Clock.
func (c *Clock) AfterFunc(d time.Duration, f func()) core.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &timer{clock: c, deadline: c.now.Add(d), seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d and runs every timer that became due.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if next.deadline.After(c.now) {
			c.now = next.deadline
		}
		next.fired = true
		c.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of timers that are neither stopped nor fired.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (c *Clock) nextDue(target time.Time) *timer {
	var due []*timer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	return due[0]
}

// Stop implements core.Timer.
func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
