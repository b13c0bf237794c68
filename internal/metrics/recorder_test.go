package metrics

import (
	"testing"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/sim"
)

func TestRecorderSamples(t *testing.T) {
	w := twoBodies()
	r := NewRecorder(2, Standard()...)
	w.AddObserver(r)

	for i := 0; i < 6; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}

	if got := r.Ticks(); len(got) != 3 || got[0] != 2 || got[2] != 6 {
		t.Errorf("expected samples at ticks 2, 4, 6, got %v", got)
	}
	if n := len(r.Series("bodies")); n != 3 {
		t.Errorf("expected 3 body samples, got %d", n)
	}
	if r.Series("bodies")[0] != 2 {
		t.Errorf("expected 2 bodies, got %f", r.Series("bodies")[0])
	}
	if r.Final()["finite_mass"] != 7 {
		t.Errorf("expected finite mass 7, got %f", r.Final()["finite_mass"])
	}
	if len(r.Names()) != len(Standard()) {
		t.Errorf("expected %d names, got %v", len(Standard()), r.Names())
	}

	r.Reset()
	if len(r.Ticks()) != 0 || len(r.Series("bodies")) != 0 {
		t.Error("expected empty recorder after reset")
	}
}

func TestFiniteMassIgnoresBlackHoles(t *testing.T) {
	w := sim.New()
	w.SpawnBlackHole(dynamo.V(0, 0))
	w.Spawn(physics.Star, dynamo.V(500, 0))

	m := NewFiniteMass()
	m.Observe(w)
	if m.Value() != physics.Star.Mass {
		t.Errorf("expected %f, got %f", physics.Star.Mass, m.Value())
	}
}

func TestStability(t *testing.T) {
	w := sim.New()
	w.Spawn(physics.Comet, dynamo.V(0, 0), physics.WithVelocity(dynamo.V(60, 0)))

	s := NewStability(100)
	for i := 0; i < 4; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
		s.Observe(w)
	}
	// x = 60, 120, 180, 240
	if got := s.Value(); got != 0.25 {
		t.Errorf("expected stability 0.25, got %f", got)
	}

	s.Reset()
	if s.Value() != 1.0 {
		t.Error("expected full stability after reset")
	}
}

func TestMomentum(t *testing.T) {
	m := NewMomentum()
	m.Observe(twoBodies())
	if m.Value() != 10 {
		t.Errorf("expected momentum 10, got %f", m.Value())
	}
}
