// Package sim owns the gravity sandbox's entity lifecycle.
//
//   - [World]: ordered entities, the per-tick update pass, draw pass and
//     the flat-record [World.Save] / [World.Load] codec
//   - [Clock]: clamped wall-clock frame steps
//   - [Loop]: clock → update → draw, once per frame
//   - [RunEnsemble]: several independent worlds in parallel
//
// # Tick
//
// Each live body moves by its velocity, then scans every other live body:
// overlapping colliders trigger an impact, others pull on its velocity.
// Removals are deferred until the whole pass has run, so indices stay
// stable while bodies die and black holes are appended.
//
// # Thread Safety
//
// A World is NOT thread-safe. One goroutine owns it for its lifetime.
package sim
