// Package physics implements the per-body rules of the gravity sandbox.
//
//   - [Collider]: circular overlap proxy, inclusive bound
//   - [Body]: position, velocity, mass and radius of one object
//   - [Kind]: the closed set of variants (Star, Planet, BlackHole, ...)
//   - [Gravity]: pairwise pull coefficients
//
// A world drives each live body once per tick: [Body.Integrate], then for
// every other live body either [Body.Impact] (colliders overlap) or
// [Body.Attract]. Gravity is applied one-sided per pair visit; the other
// body receives its share when its own turn comes, after it has already
// moved. This is a known approximation kept for trajectory compatibility.
package physics
