package physics

import (
	"math"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

// Approaching reports whether two bodies are closing in on each other.
// Zero relative velocity never approaches.
func Approaching(xa, va, xb, vb float64) bool {
	return (xb-xa)*(vb-va) < 0
}

// Overlapping reports whether the predicted gap is within the hit distance.
func Overlapping(nextA, nextB, hit float64) bool {
	return math.Abs(nextA-nextB) <= hit
}

// Detector is the edge-triggered two-body collision predicate. Once Check
// has fired it stays silent until Arm is called.
type Detector struct {
	HitDistance float64
	fired       bool
}

func NewDetector(hit float64) *Detector {
	return &Detector{HitDistance: hit}
}

func (d *Detector) Check(a, b dynamo.Body, nextA, nextB float64) bool {
	if d.fired {
		return false
	}
	if !Approaching(a.Position, a.Velocity, b.Position, b.Velocity) {
		return false
	}
	if !Overlapping(nextA, nextB, d.HitDistance) {
		return false
	}
	d.fired = true
	return true
}

func (d *Detector) Fired() bool { return d.fired }
func (d *Detector) Arm()        { d.fired = false }

// LeadingEdge is the extremity of a body in its direction of travel.
func LeadingEdge(pos, vel, extent float64) float64 {
	if vel < 0 {
		return pos - extent/2
	}
	return pos + extent/2
}

// WallContact reports whether a body moving from cur towards the wall has
// its leading edge at or past the wall at next. The side of the wall is
// judged from cur so a long step cannot flip it.
func WallContact(cur, next, vel, extent, wall float64) bool {
	switch {
	case vel > 0 && cur < wall:
		return LeadingEdge(next, vel, extent) >= wall
	case vel < 0 && cur > wall:
		return LeadingEdge(next, vel, extent) <= wall
	}
	return false
}

// SafetyRebound keeps a body inside [left, right]. It is not physics: a
// body at a bound and still moving outward has its velocity inverted and
// its position clamped.
func SafetyRebound(b *dynamo.Body, left, right float64) bool {
	if b.Position <= left && b.Velocity < 0 {
		b.Position = left
		b.Velocity = -b.Velocity
		return true
	}
	if b.Position >= right && b.Velocity > 0 {
		b.Position = right
		b.Velocity = -b.Velocity
		return true
	}
	return false
}
