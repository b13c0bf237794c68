package export

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/sim"
)

func TestSVGSurface(t *testing.T) {
	s := NewSVG(800, 700)
	s.FillCircle(dynamo.V(350, 350), 40, dynamo.White, dynamo.White)
	s.StrokeCircle(dynamo.V(350, 350), 40, dynamo.Green)

	out := s.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("expected a complete svg document")
	}
	if !strings.Contains(out, `<circle cx="350.00" cy="350.00" r="40.00" fill="#ffffff" stroke="#ffffff"/>`) {
		t.Errorf("missing filled circle in\n%s", out)
	}
	if !strings.Contains(out, `fill="none" stroke="#00ff00"`) {
		t.Error("missing outline")
	}

	s.Clear()
	if strings.Contains(s.String(), "<circle") {
		t.Error("expected clear to drop shapes")
	}
}

func TestSVGDrawImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 3))
	img.SetGray(1, 2, color.Gray{Y: 0xff})

	s := NewSVG(10, 10)
	s.DrawImage(img, dynamo.V(5, 5))

	if got := strings.Count(s.String(), "<rect x="); got != 1 {
		t.Errorf("expected 1 star, got %d", got)
	}
	if !strings.Contains(s.String(), `<rect x="6" y="7" width="1" height="1"/>`) {
		t.Error("star at wrong position")
	}
}

func TestTracer(t *testing.T) {
	w := sim.New()
	id := w.Spawn(physics.Comet, dynamo.V(0, 0), physics.WithVelocity(dynamo.V(1, 0)))

	tr := NewTracer(3)
	w.AddObserver(tr)
	for i := 0; i < 5; i++ {
		if err := w.Update(); err != nil {
			t.Fatal(err)
		}
	}

	pts := tr.Points(id)
	if len(pts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(pts))
	}
	if pts[0] != dynamo.V(3, 0) || pts[2] != dynamo.V(5, 0) {
		t.Errorf("unexpected trail %v", pts)
	}

	out := Snapshot(w, tr, 100, 100)
	if !strings.Contains(out, `d="M3.0,0.0 L4.0,0.0 L5.0,0.0"`) {
		t.Errorf("missing trail in\n%s", out)
	}
	if !strings.Contains(out, `<circle cx="5.00"`) {
		t.Error("missing body")
	}
}
