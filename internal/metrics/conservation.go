package metrics

import "github.com/san-kum/collisionlab/internal/dynamo"

func Momentum(bodies ...dynamo.BodyState) float64 {
	var p float64
	for _, b := range bodies {
		p += b.Mass * b.Velocity
	}
	return p
}

func Kinetic(bodies ...dynamo.BodyState) float64 {
	var k float64
	for _, b := range bodies {
		k += 0.5 * b.Mass * b.Velocity * b.Velocity
	}
	return k
}

// Report compares total momentum and kinetic energy before and after the
// event of a run.
type Report struct {
	MomentumBefore float64 `json:"momentum_before"`
	MomentumAfter  float64 `json:"momentum_after"`
	KineticBefore  float64 `json:"kinetic_before"`
	KineticAfter   float64 `json:"kinetic_after"`
}

func Conservation(before, after []dynamo.BodyState) Report {
	return Report{
		MomentumBefore: Momentum(before...),
		MomentumAfter:  Momentum(after...),
		KineticBefore:  Kinetic(before...),
		KineticAfter:   Kinetic(after...),
	}
}

// FromScenario reports on the current state of sc.
func FromScenario(sc dynamo.Scenario) Report {
	return Conservation(sc.Sample())
}

func (r Report) EnergyLost() float64 {
	return r.KineticBefore - r.KineticAfter
}

func (r Report) MomentumDelta() float64 {
	return r.MomentumAfter - r.MomentumBefore
}

// Apply copies the report into a snapshot.
func (r Report) Apply(s *dynamo.Snapshot) {
	s.MomentumBefore = r.MomentumBefore
	s.MomentumAfter = r.MomentumAfter
	s.KineticBefore = r.KineticBefore
	s.KineticAfter = r.KineticAfter
}
