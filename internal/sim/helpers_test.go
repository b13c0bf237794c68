package sim_test

import (
	"errors"
	"image"

	"github.com/san-kum/gravbox/internal/dynamo"
)

func errorsAs(err error, target any) bool { return errors.As(err, target) }

func blankImage() image.Image { return image.NewGray(image.Rect(0, 0, 4, 4)) }

type traceSurface struct {
	calls []string
}

func (s *traceSurface) Clear() { s.calls = append(s.calls, "clear") }

func (s *traceSurface) FillCircle(c dynamo.Vec2, r float64, fill, stroke dynamo.Color) {
	s.calls = append(s.calls, "fill")
}

func (s *traceSurface) StrokeCircle(c dynamo.Vec2, r float64, stroke dynamo.Color) {
	s.calls = append(s.calls, "stroke")
}

func (s *traceSurface) DrawImage(img image.Image, at dynamo.Vec2) {
	s.calls = append(s.calls, "image")
}
