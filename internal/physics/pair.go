package physics

import (
	"fmt"

	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/integrators"
)

// Pair is the two-body head-on scenario. One collision is resolved per run;
// restitution 1 gives the elastic variant.
type Pair struct {
	name        string
	bodies      [2]dynamo.Body
	restitution float64
	tunableE    bool
	params      dynamo.Params
	integ       *integrators.Euler
	detector    *Detector
	frozen      [2]float64
	triggered   bool
}

func NewElastic(a, b dynamo.Body, p dynamo.Params) *Pair {
	return newPair("elastic", a, b, 1, false, p)
}

func NewInelastic(a, b dynamo.Body, e float64, p dynamo.Params) *Pair {
	return newPair("inelastic", a, b, e, true, p)
}

func newPair(name string, a, b dynamo.Body, e float64, tunableE bool, p dynamo.Params) *Pair {
	pr := &Pair{
		name:        name,
		bodies:      [2]dynamo.Body{a, b},
		restitution: e,
		tunableE:    tunableE,
		params:      p,
		integ:       integrators.NewEuler(p),
		detector:    NewDetector(p.HitDistance),
	}
	pr.Reset()
	return pr
}

func (p *Pair) Name() string         { return p.name }
func (p *Pair) Restitution() float64 { return p.restitution }
func (p *Pair) Triggered() bool      { return p.triggered }
func (p *Pair) Finished() bool       { return false }

func (p *Pair) Body(slot dynamo.Slot) dynamo.Body {
	return p.bodies[slot]
}

func (p *Pair) Reset() {
	for i := range p.bodies {
		p.bodies[i].Reset()
	}
	p.detector.Arm()
	p.frozen = [2]float64{}
	p.triggered = false
}

func (p *Pair) Step(dt, t float64) *dynamo.CollisionEvent {
	a, b := &p.bodies[dynamo.SlotA], &p.bodies[dynamo.SlotB]

	nextA := p.integ.Predict(a.Position, a.Velocity, dt)
	nextB := p.integ.Predict(b.Position, b.Velocity, dt)

	if p.detector.Check(*a, *b, nextA, nextB) {
		u1, u2 := a.Velocity, b.Velocity
		v1, v2 := Resolve(a.Mass, u1, b.Mass, u2, p.restitution)
		xa, xb := ContactPositions(nextA, nextB, p.detector.HitDistance, a.Position <= b.Position)

		a.Position, b.Position = xa, xb
		a.Velocity, b.Velocity = v1, v2
		p.frozen = [2]float64{v1, v2}
		p.triggered = true

		return &dynamo.CollisionEvent{
			Kind:      dynamo.EventPair,
			Time:      t,
			Before:    [2]float64{u1, u2},
			After:     [2]float64{v1, v2},
			Positions: [2]float64{xa, xb},
		}
	}

	a.Position, b.Position = nextA, nextB
	SafetyRebound(a, p.params.LeftBound, p.params.RightBound)
	SafetyRebound(b, p.params.LeftBound, p.params.RightBound)
	return nil
}

// Sample reports configured velocities as "before" and, once the collision
// has fired, the velocities at the instant of impact as "after".
func (p *Pair) Sample() (before, after []dynamo.BodyState) {
	before = make([]dynamo.BodyState, 2)
	after = make([]dynamo.BodyState, 2)
	for i, b := range p.bodies {
		before[i] = b.Initial()
		after[i] = b.State()
		if p.triggered {
			after[i].Velocity = p.frozen[i]
		}
	}
	return before, after
}

func (p *Pair) Fill(s *dynamo.Snapshot) {
	s.Scenario = p.name
	s.Count = 2
	for i, b := range p.bodies {
		s.Bodies[i] = b.State()
	}
}

func (p *Pair) GetParams() map[string]float64 {
	params := map[string]float64{
		"mass1":     p.bodies[0].Mass,
		"velocity1": p.bodies[0].InitialVelocity,
		"mass2":     p.bodies[1].Mass,
		"velocity2": p.bodies[1].InitialVelocity,
	}
	if p.tunableE {
		params["restitution"] = p.restitution
	}
	return params
}

func (p *Pair) SetParam(name string, value float64) error {
	switch name {
	case "mass1":
		p.bodies[0].Mass = value
	case "velocity1":
		p.bodies[0].InitialVelocity = value
	case "mass2":
		p.bodies[1].Mass = value
	case "velocity2":
		p.bodies[1].InitialVelocity = value
	case "restitution":
		if !p.tunableE {
			return fmt.Errorf("%w: %s is fixed for %s", dynamo.ErrUnknownParam, name, p.name)
		}
		p.restitution = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	p.Reset()
	return nil
}
