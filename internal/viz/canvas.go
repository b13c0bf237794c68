package viz

import (
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravbox/internal/dynamo"
)

// pixelMap gives the dot bit for each cell position. A braille cell holds
// two columns of four dots numbered
// 1 4
// 2 5
// 3 6
// 7 8
// and the glyph is blank plus the OR of its dot bits.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille dot grid that implements dynamo.Surface. World
// coordinates are mapped to dots through View; each cell keeps the colour
// of the last dot painted into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]dynamo.Color
	View          *Viewport
	ring          *Ring
}

func NewCanvas(w, h int, view *Viewport) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]dynamo.Color, h),
		View:   view,
		ring:   DefaultRing,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]dynamo.Color, w)
	}
	c.Clear()
	return c
}

// Dots is the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set sets a dot at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int, col dynamo.Color) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][cx] = col
}

// Unset clears a dot.
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	cx := x / 2
	row := y / 4
	if cx >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][cx] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][cx] < blank {
		c.Grid[row][cx] = blank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col dynamo.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) project(p dynamo.Vec2) (float64, float64) {
	w, h := c.Dots()
	return c.View.Project(p, w, h)
}

func (c *Canvas) FillCircle(center dynamo.Vec2, radius float64, fill, stroke dynamo.Color) {
	cx, cy := c.project(center)
	r := radius * c.View.Zoom
	if r < 1 {
		c.Set(int(math.Floor(cx)), int(math.Floor(cy)), fill)
		return
	}

	w, h := c.Dots()
	y0 := max(int(math.Floor(cy-r)), 0)
	y1 := min(int(math.Ceil(cy+r)), h-1)
	x0 := max(int(math.Floor(cx-r)), 0)
	x1 := min(int(math.Ceil(cx+r)), w-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				c.Set(x, y, fill)
			}
		}
	}
	c.StrokeCircle(center, radius, stroke)
}

func (c *Canvas) StrokeCircle(center dynamo.Vec2, radius float64, stroke dynamo.Color) {
	cx, cy := c.project(center)
	pts := c.ring.Outline(cx, cy, radius*c.View.Zoom)
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		c.DrawLine(a[0], a[1], b[0], b[1], stroke)
	}
}

// DrawImage samples img with its top-left corner at world point at. Bright
// pixels become white dots.
func (c *Canvas) DrawImage(img image.Image, at dynamo.Vec2) {
	if img == nil {
		return
	}
	bounds := img.Bounds()
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := c.View.Unproject(float64(x)+0.5, float64(y)+0.5, w, h).Sub(at)
			px, py := bounds.Min.X+int(math.Floor(p.X)), bounds.Min.Y+int(math.Floor(p.Y))
			if !(image.Point{X: px, Y: py}).In(bounds) {
				continue
			}
			r, g, b, _ := img.At(px, py).RGBA()
			if (r+g+b)/3 > 0x8000 {
				c.Set(x, y, dynamo.White)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render is String with every run of same-coloured cells styled.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			run := string(row[start:j])
			if col := c.Colors[i][start]; col != "" {
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(col)).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
