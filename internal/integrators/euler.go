package integrators

import (
	"math"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

// ClampDt bounds a frame delta to [0, maxDt]. Negative and NaN deltas
// collapse to zero so a misbehaving host clock cannot move bodies backwards.
func ClampDt(dt, maxDt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	if dt > maxDt {
		return maxDt
	}
	return dt
}

// SubSteps splits dt into n equal steps of at most maxDt.
func SubSteps(dt, maxDt float64) (int, float64) {
	if !(dt > 0) || !(maxDt > 0) {
		return 0, 0
	}
	n := int(math.Ceil(dt / maxDt))
	if n < 1 {
		n = 1
	}
	return n, dt / float64(n)
}

// Euler is the explicit position integrator used by every scenario.
type Euler struct {
	Scale float64
	MaxDt float64
}

func NewEuler(p dynamo.Params) *Euler {
	return &Euler{Scale: p.Scale, MaxDt: p.MaxDt}
}

func (e *Euler) Predict(pos, vel, dt float64) float64 {
	return pos + vel*e.Scale*ClampDt(dt, e.MaxDt)
}

func (e *Euler) Advance(b *dynamo.Body, dt float64) {
	b.Position = e.Predict(b.Position, b.Velocity, dt)
}
