package export

import (
	"fmt"
	"image"
	"strings"

	"github.com/san-kum/gravbox/internal/dynamo"
)

const spaceColor = "#0a0a0a"

// SVG is a dynamo.Surface that renders a frame as an SVG document in world
// coordinates.
type SVG struct {
	Width, Height float64
	body          strings.Builder
}

func NewSVG(width, height float64) *SVG {
	return &SVG{Width: width, Height: height}
}

func (s *SVG) Clear() { s.body.Reset() }

func (s *SVG) FillCircle(center dynamo.Vec2, radius float64, fill, stroke dynamo.Color) {
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s"/>
`, center.X, center.Y, radius, fill, stroke)
}

func (s *SVG) StrokeCircle(center dynamo.Vec2, radius float64, stroke dynamo.Color) {
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-dasharray="2,2"/>
`, center.X, center.Y, radius, stroke)
}

// DrawImage emits one unit square per bright pixel.
func (s *SVG) DrawImage(img image.Image, at dynamo.Vec2) {
	if img == nil {
		return
	}
	b := img.Bounds()
	s.body.WriteString(`<g fill="#ffffff">` + "\n")
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if (r+g+bl)/3 <= 0x8000 {
				continue
			}
			fmt.Fprintf(&s.body, `<rect x="%.0f" y="%.0f" width="1" height="1"/>
`, at.X+float64(x-b.Min.X), at.Y+float64(y-b.Min.Y))
		}
	}
	s.body.WriteString("</g>\n")
}

// Path draws a polyline through points.
func (s *SVG) Path(points []dynamo.Vec2, stroke dynamo.Color) {
	if len(points) < 2 {
		return
	}

	fmt.Fprintf(&s.body, `<path fill="none" stroke="%s" stroke-width="1" stroke-opacity="0.6" d="M`, stroke)
	for i, p := range points {
		if i == 0 {
			fmt.Fprintf(&s.body, "%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&s.body, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	s.body.WriteString(`"/>` + "\n")
}

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.Width, s.Height, s.Width, s.Height, spaceColor)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}
