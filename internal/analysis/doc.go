// Package analysis characterizes how a world evolves.
//
//   - [Divergence]: twin-trajectory separation and its growth rate
//
// # Chaos Detection
//
// A positive exponent means a tiny nudge to one body grows over time:
//
//	res, err := analysis.Divergence(w, 1e-6, 500)
//	if res.Exponent > 0 {
//	    // scene is sensitive to initial conditions
//	}
package analysis
