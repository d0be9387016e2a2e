package store

import (
	"sync"
	"time"
)

// clock hands out strictly increasing UTC timestamps with millisecond
// precision, so insertion order and timestamp order always agree.
type clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newClock(now func() time.Time) *clock {
	if now == nil {
		now = time.Now
	}
	return &clock{now: now}
}

// seed makes every later timestamp come after ts.
func (c *clock) seed(ts time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts.After(c.last) {
		c.last = ts.UTC()
	}
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now().UTC().Truncate(time.Millisecond)
	if !ts.After(c.last) {
		ts = c.last.Add(time.Millisecond)
	}
	c.last = ts
	return ts
}
