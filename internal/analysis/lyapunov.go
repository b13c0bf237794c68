package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/sim"
)

var ErrEmptyWorld = errors.New("world has no bodies")

type DivergenceResult struct {
	// Separation is the distance between the two worlds after each tick:
	// the root of the summed squared position offsets of bodies matched by
	// entity order.
	Separation []float64
	// Exponent estimates the largest Lyapunov exponent per tick:
	// mean of ln(d(t)/d0)/t over ticks with a positive separation.
	Exponent float64
	// Split is the first tick at which the worlds no longer hold the same
	// number of bodies, or 0 if they never split.
	Split int
}

// Divergence copies w through its record format, nudges the copy's first
// body by perturbation along x, and ticks both in lockstep. w itself is
// advanced too. Separation is sampled after every tick; merges that happen
// in one world and not the other are recorded in Split, and only bodies
// present in both at the same index are compared.
func Divergence(w *sim.World, perturbation float64, ticks int) (DivergenceResult, error) {
	var res DivergenceResult
	if len(w.Bodies()) == 0 {
		return res, ErrEmptyWorld
	}
	if perturbation <= 0 {
		return res, fmt.Errorf("perturbation must be positive, got %g", perturbation)
	}

	twin := sim.New(sim.WithGravity(w.Gravity()))
	if err := twin.Load(w.Save()); err != nil {
		return res, err
	}
	nudged := twin.Bodies()[0]
	nudged.Position = nudged.Position.Add(dynamo.V(perturbation, 0))
	nudged.RebuildCollider()

	d0 := perturbation
	sumLog := 0.0
	count := 0

	for t := 1; t <= ticks; t++ {
		if err := w.Update(); err != nil {
			return res, err
		}
		if err := twin.Update(); err != nil {
			return res, err
		}

		a, b := w.Bodies(), twin.Bodies()
		if len(a) != len(b) && res.Split == 0 {
			res.Split = t
		}

		sep := 0.0
		for i := 0; i < min(len(a), len(b)); i++ {
			diff := b[i].Position.Sub(a[i].Position)
			sep += diff.Dot(diff)
		}
		sep = math.Sqrt(sep)
		res.Separation = append(res.Separation, sep)

		if sep > 0 {
			sumLog += math.Log(sep/d0) / float64(t)
			count++
		}
	}

	if count > 0 {
		res.Exponent = sumLog / float64(count)
	}
	return res, nil
}
