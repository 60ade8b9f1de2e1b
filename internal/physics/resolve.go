package physics

import "github.com/san-kum/collisionlab/internal/dynamo"

// Resolve returns the post-collision velocities of a 1-D two-body
// collision with restitution e. e = 1 is elastic, e = 0 leaves both bodies
// at the common centre-of-mass velocity. Masses are floored at
// dynamo.MinMass.
func Resolve(m1, u1, m2, u2, e float64) (v1, v2 float64) {
	m1 = dynamo.ClampMass(m1)
	m2 = dynamo.ClampMass(m2)
	sum := m1 + m2
	v1 = ((m1-e*m2)*u1 + (1+e)*m2*u2) / sum
	v2 = ((1+e)*m1*u1 + (m2-e*m1)*u2) / sum
	return v1, v2
}

func Elastic(m1, u1, m2, u2 float64) (v1, v2 float64) {
	return Resolve(m1, u1, m2, u2, 1)
}

// ContactPositions places two bodies symmetrically about the midpoint of
// their predicted positions, exactly hit apart. aLeft is the ordering of
// the bodies before the step.
func ContactPositions(nextA, nextB, hit float64, aLeft bool) (xa, xb float64) {
	mid := (nextA + nextB) / 2
	if aLeft {
		return mid - hit/2, mid + hit/2
	}
	return mid + hit/2, mid - hit/2
}

func Rebound(v float64) float64 {
	return -v
}

// ContactPoint is the centre position at which a body travelling with vel
// touches the wall with its leading edge.
func ContactPoint(wall, vel, extent float64) float64 {
	if vel < 0 {
		return wall + extent/2
	}
	return wall - extent/2
}
