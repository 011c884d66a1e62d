// Package clock provides the time source and the learner-local day boundary
// used by all temporal engine logic.
package clock

import "time"

// Clock supplies the current instant. Engines never read the wall clock
// directly so that temporal behavior stays reproducible in tests.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by time.Now.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock that returns a preset instant. Advance moves it forward.
type Fixed struct {
	Instant time.Time
}

func NewFixed(instant time.Time) *Fixed {
	return &Fixed{Instant: instant}
}

func (c *Fixed) Now() time.Time {
	return c.Instant
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Fixed) Advance(d time.Duration) time.Time {
	c.Instant = c.Instant.Add(d)
	return c.Instant
}
