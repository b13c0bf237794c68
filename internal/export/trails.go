package export

import (
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/sim"
)

type trail struct {
	color  dynamo.Color
	points []dynamo.Vec2
}

// Tracer records every body's position after each tick. It implements
// sim.Observer. Trails of bodies that die are kept.
type Tracer struct {
	Limit  int
	trails map[uint64]*trail
	order  []uint64
}

// NewTracer keeps at most limit points per body; limit <= 0 keeps all.
func NewTracer(limit int) *Tracer {
	return &Tracer{Limit: limit, trails: make(map[uint64]*trail)}
}

func (t *Tracer) OnTick(w *sim.World) {
	for _, b := range w.Bodies() {
		tr, ok := t.trails[b.ID]
		if !ok {
			tr = &trail{color: b.Kind.Style.Stroke}
			t.trails[b.ID] = tr
			t.order = append(t.order, b.ID)
		}
		tr.points = append(tr.points, b.Position)
		if t.Limit > 0 && len(tr.points) > t.Limit {
			tr.points = tr.points[1:]
		}
	}
}

// Points returns the recorded trail of a body.
func (t *Tracer) Points(id uint64) []dynamo.Vec2 {
	if tr, ok := t.trails[id]; ok {
		return tr.points
	}
	return nil
}

// Draw adds every trail to s in the order bodies were first seen.
func (t *Tracer) Draw(s *SVG) {
	for _, id := range t.order {
		tr := t.trails[id]
		s.Path(tr.points, tr.color)
	}
}

// Snapshot renders w over its trails.
func Snapshot(w *sim.World, t *Tracer, width, height float64) string {
	s := NewSVG(width, height)
	w.Draw(s)
	if t != nil {
		t.Draw(s)
	}
	return s.String()
}
