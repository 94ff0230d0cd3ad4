package domain

import (
	"fmt"
	"time"
)

// Clock supplies the current instant and calendar date. Every engine that
// needs "now" or "today" takes one, so a single request sees a single time.
type Clock interface {
	Now() time.Time
	Today() Date
}

// SystemClock reads the wall clock and reports dates in Location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock builds a clock for the given IANA zone name.
// An empty name or "Local" uses the process' local zone.
func NewSystemClock(timezone string) (*SystemClock, error) {
	if timezone == "" || timezone == "Local" {
		return &SystemClock{Location: time.Local}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &SystemClock{Location: loc}, nil
}

func (c *SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

func (c *SystemClock) Today() Date {
	return DateOf(c.Now())
}

// FixedClock always reports the same instant. Used to freeze time in tests.
type FixedClock struct {
	At time.Time
}

func (c *FixedClock) Now() time.Time { return c.At }

func (c *FixedClock) Today() Date { return DateOf(c.At) }

// Advance moves the frozen instant forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.At = c.At.Add(d)
}
