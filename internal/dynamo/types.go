package dynamo

import (
	"fmt"
	"image"
	"math"
)

// Vec2 is an immutable 2D vector in simulation units.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns v scaled to unit length. The zero vector has no
// direction and normalizes to the zero vector, as do non-finite vectors.
func (v Vec2) Normalize() Vec2 {
	u, err := v.Unit()
	if err != nil {
		return Vec2{}
	}
	return u
}

// Unit is Normalize with the degenerate case reported as ErrDegenerateVector.
func (v Vec2) Unit() (Vec2, error) {
	m := v.Magnitude()
	if m == 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return Vec2{}, ErrDegenerateVector
	}
	return Vec2{X: v.X / m, Y: v.Y / m}, nil
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vec2) Scale(factor float64) Vec2 {
	return Vec2{X: v.X * factor, Y: v.Y * factor}
}

func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// DistanceTo is the Euclidean distance between two points.
func (v Vec2) DistanceTo(other Vec2) float64 {
	return other.Sub(v).Magnitude()
}

func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Color is a hex RGB string such as "#ffa500".
type Color string

const (
	White  Color = "#ffffff"
	Black  Color = "#000000"
	Orange Color = "#ffa500"
	Green  Color = "#00ff00"
)

// Surface is the drawing capability handed to entities during a draw pass.
type Surface interface {
	Clear()
	FillCircle(center Vec2, radius float64, fill, stroke Color)
	StrokeCircle(center Vec2, radius float64, stroke Color)
	DrawImage(img image.Image, at Vec2)
}

// SimError reports a world that became numerically invalid during a tick.
type SimError struct {
	Tick    int
	BodyID  uint64
	Message string
}

func (e *SimError) Error() string {
	return fmt.Sprintf("tick %d (body %d): %s", e.Tick, e.BodyID, e.Message)
}

func (e *SimError) Unwrap() error {
	return ErrInvalidState
}
