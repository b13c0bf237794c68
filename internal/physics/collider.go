package physics

import "github.com/san-kum/gravbox/internal/dynamo"

// Collider is the circular proxy used for overlap tests. It is rebuilt from
// its body every tick and never mutated in place.
type Collider struct {
	Center dynamo.Vec2
	Radius float64
	Tag    Tag
}

// Collision is the outcome of an overlap test. Tag is the other collider's
// classification when Collided, TagEmpty otherwise.
type Collision struct {
	Collided bool
	Tag      Tag
}

func NewCollider(center dynamo.Vec2, radius float64, tag Tag) Collider {
	return Collider{Center: center, Radius: radius, Tag: tag}
}

// Overlaps reports whether the two circles touch or intersect.
func (c Collider) Overlaps(other Collider) Collision {
	distance := c.Center.DistanceTo(other.Center)
	if c.Radius+other.Radius >= distance {
		return Collision{Collided: true, Tag: other.Tag}
	}
	return Collision{Tag: TagEmpty}
}
