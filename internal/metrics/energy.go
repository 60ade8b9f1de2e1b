package metrics

import (
	"math"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

// EnergyLoss tracks the kinetic energy lost in the collision, as seen in
// the latest triggered frame.
type EnergyLoss struct {
	name string
	lost float64
}

func NewEnergyLoss() *EnergyLoss {
	return &EnergyLoss{name: "energy_loss"}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(s dynamo.Snapshot) {
	if !s.HasTriggered {
		return
	}
	e.lost = s.EnergyLost()
}

func (e *EnergyLoss) Value() float64 {
	return e.lost
}

func (e *EnergyLoss) Reset() {
	e.lost = 0
}

// MomentumDrift is the largest relative change in total momentum seen
// across triggered frames. It stays near zero for pair collisions of any
// restitution; wall and impulse runs exchange momentum with the outside.
type MomentumDrift struct {
	name     string
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s dynamo.Snapshot) {
	if !s.HasTriggered {
		return
	}
	m.samples++

	delta := math.Abs(s.MomentumAfter - s.MomentumBefore)
	if s.MomentumBefore != 0 {
		delta /= math.Abs(s.MomentumBefore)
	}
	m.maxDrift = math.Max(m.maxDrift, delta)
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.maxDrift = 0
	m.samples = 0
}
