package physics

import (
	"math"

	"github.com/san-kum/gravbox/internal/dynamo"
)

const (
	DefaultG             = 1.0
	DefaultBlackHolePull = 100000.0
)

// Gravity holds the coefficients of the pairwise pull. Units are abstract
// simulation units: G defaults to 1 so trajectories match the sandbox's
// reference scenes.
type Gravity struct {
	G float64
	// BlackHolePull stands in for the mass of a body whose mass is the
	// infinite sentinel, so its pull stays finite.
	BlackHolePull float64
}

func DefaultGravity() Gravity {
	return Gravity{G: DefaultG, BlackHolePull: DefaultBlackHolePull}
}

// Mass is the mass other bodies feel from b.
func (g Gravity) Mass(b *Body) float64 {
	if math.IsInf(b.Mass, 0) || math.IsNaN(b.Mass) {
		return g.BlackHolePull
	}
	return b.Mass
}

// Pull is the velocity change applied to on by from in one tick:
// G*m/d² along the line between their positions. Coincident positions
// yield no pull.
func (g Gravity) Pull(on, from *Body) dynamo.Vec2 {
	delta := from.Position.Sub(on.Position)
	dir, err := delta.Unit()
	if err != nil {
		return dynamo.Vec2{}
	}
	d2 := delta.X*delta.X + delta.Y*delta.Y
	return dir.Scale(g.G * g.Mass(from) / d2)
}
