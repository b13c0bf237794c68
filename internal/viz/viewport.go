package viz

import (
	"math"

	"github.com/san-kum/gravbox/internal/dynamo"
)

const (
	minZoom = 0.01
	maxZoom = 10
)

// Viewport maps world coordinates onto canvas dots. Center is the world
// point drawn in the middle of the canvas; Zoom is dots per world unit.
type Viewport struct {
	Center dynamo.Vec2
	Zoom   float64
}

// FitViewport centres a worldW x worldH region and scales it to fit a
// canvas of dotsW x dotsH.
func FitViewport(worldW, worldH float64, dotsW, dotsH int) *Viewport {
	zoom := math.Min(float64(dotsW)/worldW, float64(dotsH)/worldH)
	if math.IsInf(zoom, 0) || math.IsNaN(zoom) || zoom <= 0 {
		zoom = 1
	}
	return &Viewport{Center: dynamo.V(worldW/2, worldH/2), Zoom: zoom}
}

func (v *Viewport) ZoomIn()  { v.Zoom = math.Min(maxZoom, v.Zoom*1.2) }
func (v *Viewport) ZoomOut() { v.Zoom = math.Max(minZoom, v.Zoom/1.2) }

// Pan moves the view by the given number of dots.
func (v *Viewport) Pan(dx, dy float64) {
	v.Center = v.Center.Add(dynamo.V(dx, dy).Scale(1 / v.Zoom))
}

func (v *Viewport) Project(p dynamo.Vec2, dotsW, dotsH int) (float64, float64) {
	return (p.X-v.Center.X)*v.Zoom + float64(dotsW)/2,
		(p.Y-v.Center.Y)*v.Zoom + float64(dotsH)/2
}

func (v *Viewport) Unproject(x, y float64, dotsW, dotsH int) dynamo.Vec2 {
	return dynamo.V(
		(x-float64(dotsW)/2)/v.Zoom+v.Center.X,
		(y-float64(dotsH)/2)/v.Zoom+v.Center.Y,
	)
}
