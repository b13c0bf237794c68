package metrics

import "github.com/san-kum/gravbox/internal/sim"

// Stability is the fraction of observed ticks in which every body stayed
// within threshold of the origin on both axes.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(w *sim.World) {
	s.samples++
	for _, b := range w.Bodies() {
		p := b.Position
		if p.X < -s.threshold || p.X > s.threshold || p.Y < -s.threshold || p.Y > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
