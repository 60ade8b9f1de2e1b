// Package physics provides the collision scenarios of the lab.
//
// Each scenario implements [dynamo.Scenario] and [dynamo.Configurable]:
//
//   - [Pair]: two bodies, one collision with restitution e (elastic when e = 1)
//   - [WallBounce]: one body rebounding off a fixed wall
//   - [Impulse]: one body pushed by a constant force, then coasting
//
// The building blocks are exported for reuse and testing: the
// edge-triggered [Detector], [Resolve] for any restitution, [Driver] for a
// bounded force window, and [SafetyRebound] for the non-physical track
// bounds.
//
// # Conservation
//
// [Resolve] conserves momentum for every e in [0, 1]; kinetic energy is
// conserved only for e = 1:
//
//	v1, v2 := physics.Resolve(m1, u1, m2, u2, e)
//	// m1*v1 + m2*v2 == m1*u1 + m2*u2
package physics
