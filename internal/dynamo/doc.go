// Package dynamo provides the core types shared by the collision lab.
//
// The package defines the data model and the narrow interfaces that the
// physics, metrics and clock packages agree on:
//
//   - [Body]: one movable object with mass, velocity and position
//   - [Params]: tunables (scale, dt clamp, hit distance, bounds)
//   - [Scenario]: a one-dimensional experiment stepped once per frame
//   - [Snapshot]: immutable per-frame output handed to a front-end
//   - [Metric], [Observer]: hooks for headless runs
//
// # Example
//
//	sc := physics.NewPair(a, b, 1.0, dynamo.DefaultParams())
//	clk := sim.NewClock(sc, dynamo.DefaultParams())
//	clk.Start()
//	snap := clk.Tick(16 * time.Millisecond)
//
// # Thread Safety
//
// Scenario and Clock values are NOT thread-safe. A clock owns its scenario
// and must be driven from a single goroutine; [Snapshot] values are plain
// copies and may be shared freely.
package dynamo
