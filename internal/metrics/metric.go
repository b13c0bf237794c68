package metrics

import "github.com/san-kum/gravbox/internal/sim"

// Metric accumulates one scalar over the ticks of a world.
type Metric interface {
	Name() string
	Observe(w *sim.World)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded by default for a run.
func Standard() []Metric {
	return []Metric{
		NewBodyCount(),
		NewFiniteMass(),
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentum(),
		NewStability(2000),
	}
}
