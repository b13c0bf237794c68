package viz

import "math"

// Ring is a precomputed table of unit-circle points used to outline
// circles without calling sin and cos per frame.
type Ring struct {
	sin []float64
	cos []float64
	n   int
}

var DefaultRing = NewRing(256)

func NewRing(n int) *Ring {
	r := &Ring{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}

	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		r.sin[i] = math.Sin(angle)
		r.cos[i] = math.Cos(angle)
	}

	return r
}

// Segments picks how many table entries to use for a circle of the given
// radius in dots: roughly one per dot of circumference, at least 8.
func (r *Ring) Segments(radius float64) int {
	segs := int(2 * math.Pi * radius)
	if segs < 8 {
		segs = 8
	}
	if segs > r.n {
		segs = r.n
	}
	return segs
}

// Outline returns the polygon approximating a circle centred on (cx, cy).
func (r *Ring) Outline(cx, cy, radius float64) [][2]int {
	segs := r.Segments(radius)
	pts := make([][2]int, 0, segs)
	for k := 0; k < segs; k++ {
		i := k * r.n / segs
		x := int(math.Floor(cx + radius*r.cos[i]))
		y := int(math.Floor(cy + radius*r.sin[i]))
		if len(pts) > 0 && pts[len(pts)-1] == [2]int{x, y} {
			continue
		}
		pts = append(pts, [2]int{x, y})
	}
	return pts
}
