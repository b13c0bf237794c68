package sim

import (
	"math"
	"testing"
	"time"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time          { return f.t }
func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClockTick(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClock(0.05, ft.now)

	ft.advance(16 * time.Millisecond)
	if got := c.Tick(); math.Abs(got-0.016) > 1e-9 {
		t.Errorf("expected 0.016, got %v", got)
	}

	ft.advance(5 * time.Second)
	if got := c.Tick(); got != 0.05 {
		t.Errorf("expected clamp to 0.05, got %v", got)
	}

	if got := c.Tick(); got != 0 {
		t.Errorf("expected 0 without elapsed time, got %v", got)
	}

	if math.Abs(c.Elapsed()-0.066) > 1e-9 {
		t.Errorf("expected elapsed 0.066, got %v", c.Elapsed())
	}
}

func TestClockBackwards(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClock(0.05, ft.now)

	ft.advance(-time.Second)
	if got := c.Tick(); got != 0 {
		t.Errorf("expected 0 for backwards time, got %v", got)
	}
}

func TestClockDefaults(t *testing.T) {
	c := NewClock(0, nil)
	if c.MaxStep() != DefaultMaxStep {
		t.Errorf("expected default max step, got %v", c.MaxStep())
	}
	if got := c.Tick(); got < 0 || got > DefaultMaxStep {
		t.Errorf("step out of range: %v", got)
	}
}
