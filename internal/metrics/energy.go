package metrics

import (
	"math"

	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/sim"
)

// TotalEnergy is kinetic plus pairwise potential energy. Black holes have
// no finite kinetic energy and contribute their pull mass to the potential.
func TotalEnergy(bodies []*physics.Body, g physics.Gravity) float64 {
	ke, pe := 0.0, 0.0
	for i, a := range bodies {
		if !a.Alive() {
			continue
		}
		if !math.IsInf(a.Mass, 0) {
			ke += 0.5 * a.Mass * a.Velocity.Dot(a.Velocity)
		}
		for _, b := range bodies[i+1:] {
			if !b.Alive() {
				continue
			}
			d := a.Position.DistanceTo(b.Position)
			if d == 0 {
				continue
			}
			pe -= g.G * g.Mass(a) * g.Mass(b) / d
		}
	}
	return ke + pe
}

type Energy struct {
	name    string
	current float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *sim.World) {
	e.current = TotalEnergy(w.Bodies(), w.Gravity())
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.current
}

func (e *Energy) Reset() {
	e.current = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure from the energy seen
// on the first observation.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w *sim.World) {
	energy := TotalEnergy(w.Bodies(), w.Gravity())

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
