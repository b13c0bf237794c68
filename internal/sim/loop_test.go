package sim

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/physics"
)

type countingSurface struct{ clears int }

func (s *countingSurface) Clear() { s.clears++ }

func (s *countingSurface) FillCircle(dynamo.Vec2, float64, dynamo.Color, dynamo.Color) {}
func (s *countingSurface) StrokeCircle(dynamo.Vec2, float64, dynamo.Color)             {}
func (s *countingSurface) DrawImage(image.Image, dynamo.Vec2)                          {}

func TestLoopRun_MaxTicks(t *testing.T) {
	w := New()
	w.Spawn(physics.Planet, dynamo.V(0, 0), physics.WithVelocity(dynamo.V(1, 0)))
	s := &countingSurface{}

	loop := NewLoop(w, NewClock(DefaultMaxStep, nil), s, 0, nil)
	frames := 0
	err := loop.Run(context.Background(), 10, func(f Frame) bool {
		frames++
		return true
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if frames != 10 || w.Tick() != 10 || s.clears != 10 {
		t.Errorf("frames=%d ticks=%d clears=%d, want 10", frames, w.Tick(), s.clears)
	}
	if w.Bodies()[0].Position != dynamo.V(10, 0) {
		t.Errorf("position = %v, want (10, 0)", w.Bodies()[0].Position)
	}
}

func TestLoopRun_CallbackStops(t *testing.T) {
	w := New()
	loop := NewLoop(w, NewClock(DefaultMaxStep, nil), nil, 0, nil)

	err := loop.Run(context.Background(), 0, func(f Frame) bool {
		return f.Tick < 3
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if w.Tick() != 3 {
		t.Errorf("expected 3 ticks, got %d", w.Tick())
	}
}

func TestLoopRun_Cancel(t *testing.T) {
	w := New()
	loop := NewLoop(w, NewClock(DefaultMaxStep, nil), nil, 1000, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := loop.Run(ctx, 0, nil)
	if err != context.DeadlineExceeded {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
