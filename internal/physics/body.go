package physics

import (
	"math"

	"github.com/san-kum/gravbox/internal/dynamo"
)

// Body is a massive, moving entity. Mass is positive, or +Inf for black
// holes. A body that is no longer alive is inert until its world compacts.
type Body struct {
	ID       uint64
	Kind     Kind
	Position dynamo.Vec2
	Velocity dynamo.Vec2
	Mass     float64
	Radius   float64
	Collider Collider
	alive    bool
}

type Option func(*Body)

func WithMass(mass float64) Option {
	return func(b *Body) { b.Mass = mass }
}

func WithRadius(radius float64) Option {
	return func(b *Body) { b.Radius = radius }
}

func WithVelocity(v dynamo.Vec2) Option {
	return func(b *Body) { b.Velocity = v }
}

// New creates a live body of the given kind at pos, using the kind's
// default mass and radius unless overridden.
func New(kind Kind, pos dynamo.Vec2, opts ...Option) *Body {
	b := &Body{
		Kind:     kind,
		Position: pos,
		Mass:     kind.Mass,
		Radius:   kind.Radius,
		alive:    true,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.RebuildCollider()
	return b
}

func (b *Body) Alive() bool { return b.alive }
func (b *Body) Tag() Tag    { return b.Kind.Tag }

// Kill marks the body for removal at the end of the current tick.
func (b *Body) Kill() { b.alive = false }

// Integrate advances the body by one tick of its own velocity and
// refreshes the collider.
func (b *Body) Integrate() {
	b.Position = b.Position.Add(b.Velocity)
	b.RebuildCollider()
}

func (b *Body) RebuildCollider() {
	b.Collider = NewCollider(b.Position, b.Radius, b.Kind.Tag)
}

func (b *Body) Overlaps(other *Body) Collision {
	return b.Collider.Overlaps(other.Collider)
}

// Attract accumulates the pull of other onto this body's velocity. Other is
// left untouched.
func (b *Body) Attract(other *Body, g Gravity) {
	b.Velocity = b.Velocity.Add(g.Pull(b, other))
}

// Impact resolves a collision between b and other. With finite total mass
// the heavier body absorbs the lighter one and keeps its velocity. With a
// black hole involved both die and a new black hole is returned, placed
// where the heavier participant was. Ties favour b.
//
// Impacting a body that is already dead returns ErrDoubleImpact and changes
// nothing, so mass is never transferred twice.
func (b *Body) Impact(other *Body) (*Body, error) {
	if b == other {
		return nil, nil
	}
	if !b.alive || !other.alive {
		return nil, dynamo.ErrDoubleImpact
	}

	heavier, lighter := b, other
	if other.Mass > b.Mass {
		heavier, lighter = other, b
	}

	total := b.Mass + other.Mass
	if !math.IsInf(total, 0) && !math.IsNaN(total) {
		heavier.Mass = total
		lighter.Kill()
		return nil, nil
	}

	hole := New(BlackHole, heavier.Position)
	b.Kill()
	other.Kill()
	return hole, nil
}

func (b *Body) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * b.Radius * b.Radius * b.Radius
}

func (b *Body) Density() float64 {
	return b.Mass / b.Volume()
}

// Draw paints the body with its kind style; debug adds the collider outline.
func (b *Body) Draw(s dynamo.Surface, debug bool) {
	s.FillCircle(b.Position, b.Radius, b.Kind.Style.Fill, b.Kind.Style.Stroke)
	if debug {
		s.StrokeCircle(b.Collider.Center, b.Collider.Radius, dynamo.Green)
	}
}
