package metrics

import (
	"math"

	"github.com/san-kum/gravbox/internal/sim"
)

type BodyCount struct {
	count int
}

func NewBodyCount() *BodyCount { return &BodyCount{} }

func (c *BodyCount) Name() string         { return "bodies" }
func (c *BodyCount) Observe(w *sim.World) { c.count = len(w.Bodies()) }
func (c *BodyCount) Value() float64       { return float64(c.count) }
func (c *BodyCount) Reset()               { c.count = 0 }

// FiniteMass sums the mass of bodies other than black holes, so it stays
// plottable after a collapse.
type FiniteMass struct {
	mass float64
}

func NewFiniteMass() *FiniteMass { return &FiniteMass{} }

func (m *FiniteMass) Name() string { return "finite_mass" }

func (m *FiniteMass) Observe(w *sim.World) {
	m.mass = 0
	for _, b := range w.Bodies() {
		if b.Alive() && !math.IsInf(b.Mass, 0) {
			m.mass += b.Mass
		}
	}
}

func (m *FiniteMass) Value() float64 { return m.mass }
func (m *FiniteMass) Reset()         { m.mass = 0 }

// Momentum reports the magnitude of the world's total finite momentum.
type Momentum struct {
	magnitude float64
}

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string         { return "momentum" }
func (m *Momentum) Observe(w *sim.World) { m.magnitude = w.Momentum().Magnitude() }
func (m *Momentum) Value() float64       { return m.magnitude }
func (m *Momentum) Reset()               { m.magnitude = 0 }
