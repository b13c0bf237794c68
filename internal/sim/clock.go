package sim

import "time"

const DefaultMaxStep = 0.05

// Clock turns wall-clock time into clamped frame steps. The step decides
// when to render, not how far physics advances.
type Clock struct {
	now     func() time.Time
	last    time.Time
	maxStep float64
	elapsed float64
}

// NewClock returns a clock measuring from now. A nil now uses time.Now.
func NewClock(maxStep float64, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	if maxStep <= 0 {
		maxStep = DefaultMaxStep
	}
	return &Clock{now: now, last: now(), maxStep: maxStep}
}

// Tick returns the seconds since the previous call, at most maxStep.
func (c *Clock) Tick() float64 {
	current := c.now()
	delta := current.Sub(c.last).Seconds()
	c.last = current

	if delta < 0 {
		delta = 0
	}
	if delta > c.maxStep {
		delta = c.maxStep
	}
	c.elapsed += delta
	return delta
}

func (c *Clock) Elapsed() float64 { return c.elapsed }
func (c *Clock) MaxStep() float64 { return c.maxStep }
