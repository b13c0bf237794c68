// Package dynamo provides core primitives shared by the gravity sandbox.
//
//   - [Vec2]: immutable 2D vector
//   - [Surface]: the drawing capability the world renders through
//   - domain errors ([ErrDegenerateVector], [ErrUnknownTag], ...) and the
//     typed wrappers [FormatError] and [SimError]
//
// # Degenerate vectors
//
// Normalizing the zero vector yields the zero vector rather than NaN:
//
//	dir := other.Sub(pos).Normalize() // zero when pos == other
//
// Use [Vec2.Unit] when the caller must distinguish that case.
package dynamo
