package viz

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/sim"
)

// 4x2 cells is 8x8 dots; world origin lands on dot (4, 4).
func testCanvas() *Canvas {
	return NewCanvas(4, 2, &Viewport{Zoom: 1})
}

func TestCanvasSetUnset(t *testing.T) {
	c := testCanvas()

	c.Set(0, 0, dynamo.White)
	c.Set(1, 3, dynamo.White)
	if got := c.Grid[0][0]; got != 0x2800|0x1|0x80 {
		t.Errorf("expected %U, got %U", rune(0x2881), got)
	}
	if c.Colors[0][0] != dynamo.White {
		t.Errorf("expected cell colour white, got %q", c.Colors[0][0])
	}

	c.Unset(0, 0)
	if got := c.Grid[0][0]; got != 0x2880 {
		t.Errorf("expected %U after unset, got %U", rune(0x2880), got)
	}

	c.Set(-1, 0, dynamo.White)
	c.Set(100, 100, dynamo.White)

	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatalf("expected blank canvas after clear, got %U", r)
			}
		}
	}
}

func TestCanvasFillCircleTiny(t *testing.T) {
	c := testCanvas()
	c.FillCircle(dynamo.V(0, 0), 0.2, dynamo.Orange, dynamo.Orange)

	if got := c.Grid[1][2]; got != 0x2801 {
		t.Errorf("expected single dot %U, got %U", rune(0x2801), got)
	}
	if c.Colors[1][2] != dynamo.Orange {
		t.Errorf("expected orange, got %q", c.Colors[1][2])
	}
}

func TestCanvasStrokeCircle(t *testing.T) {
	c := testCanvas()
	c.StrokeCircle(dynamo.V(0, 0), 3, dynamo.Green)

	if c.Grid[1][2]&0x1 != 0 {
		t.Error("outline must leave the centre dot empty")
	}
	if countDots(c) < 8 {
		t.Errorf("expected at least 8 dots on the outline, got %d", countDots(c))
	}
}

func TestCanvasDrawImage(t *testing.T) {
	c := testCanvas()
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetGray(x, y, color.Gray{Y: 0xff})
		}
	}

	c.DrawImage(img, dynamo.V(0, 0))

	if got := c.Grid[1][2]; got != 0x281B {
		t.Errorf("expected %U, got %U", rune(0x281B), got)
	}
	if countDots(c) != 4 {
		t.Errorf("expected 4 dots, got %d", countDots(c))
	}
}

func TestCanvasString(t *testing.T) {
	c := testCanvas()
	c.Set(0, 0, dynamo.White)

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.ContainsRune(c.Render(), 0x2801) {
		t.Error("rendered canvas lost the dot")
	}
}

func TestCanvasAsSurface(t *testing.T) {
	w := sim.New(sim.WithBackground(Starfield(800, 700, 3000, 1)))
	w.Spawn(physics.Star, dynamo.V(400, 350))

	c := NewCanvas(40, 12, FitViewport(800, 700, 80, 48))
	w.Draw(c)
	if countDots(c) == 0 {
		t.Fatal("expected the star to be drawn")
	}

	w.Reset()
	w.Draw(c)
	stars := countDots(c)
	if stars == 0 {
		t.Error("expected the starfield to survive a reset")
	}
}

func TestViewport(t *testing.T) {
	v := FitViewport(800, 700, 160, 96)
	if math.Abs(v.Zoom-96.0/700) > 1e-12 {
		t.Errorf("expected zoom %f, got %f", 96.0/700, v.Zoom)
	}

	x, y := v.Project(dynamo.V(400, 350), 160, 96)
	if x != 80 || y != 48 {
		t.Errorf("expected world centre at (80, 48), got (%f, %f)", x, y)
	}

	p := v.Unproject(10, 20, 160, 96)
	x, y = v.Project(p, 160, 96)
	if math.Abs(x-10) > 1e-9 || math.Abs(y-20) > 1e-9 {
		t.Errorf("project(unproject) = (%f, %f)", x, y)
	}

	for i := 0; i < 100; i++ {
		v.ZoomIn()
	}
	if v.Zoom != maxZoom {
		t.Errorf("expected zoom clamped to %v, got %v", maxZoom, v.Zoom)
	}

	v.Pan(10, 0)
	if v.Center.X != 401 {
		t.Errorf("expected pan of one world unit, got centre %v", v.Center)
	}
}

func TestRingOutline(t *testing.T) {
	r := NewRing(64)
	if got := r.Segments(0.1); got != 8 {
		t.Errorf("expected 8 segments minimum, got %d", got)
	}
	if got := r.Segments(1000); got != 64 {
		t.Errorf("expected segments capped at table size, got %d", got)
	}

	for _, p := range r.Outline(50, 50, 10) {
		d := math.Hypot(float64(p[0])-50, float64(p[1])-50)
		if d < 8.5 || d > 11.5 {
			t.Errorf("point %v is %f from the centre", p, d)
		}
	}
}

func TestStarfieldDeterministic(t *testing.T) {
	a := Starfield(32, 32, 40, 7)
	b := Starfield(32, 32, 40, 7)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same seed must give the same sky")
	}

	lit := 0
	for _, p := range a.Pix {
		if p != 0 {
			lit++
		}
	}
	if lit == 0 || lit > 40 {
		t.Errorf("expected between 1 and 40 stars, got %d", lit)
	}
}

func TestRecording(t *testing.T) {
	c := testCanvas()
	c.FillCircle(dynamo.V(0, 0), 2, dynamo.Orange, dynamo.White)

	r := NewRecording()
	r.Capture(c)
	r.Capture(c)

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(anim.Image) != 2 {
		t.Errorf("expected 2 frames, got %d", len(anim.Image))
	}
}

func countDots(c *Canvas) int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := int(r - blank); bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}
