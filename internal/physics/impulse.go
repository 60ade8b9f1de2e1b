package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/integrators"
)

// Driver applies a constant force to one body for a bounded time window.
type Driver struct {
	Force    float64
	Duration float64
	Applied  float64
}

func NewDriver(force, duration float64) *Driver {
	return &Driver{Force: force, Duration: duration}
}

func (d *Driver) Active() bool {
	return d.Applied < d.Duration
}

// Apply accelerates b for dt, clipped to the remaining window, and returns
// the time actually applied. The final step lands Applied exactly on
// Duration so the delivered impulse is Force*Duration.
func (d *Driver) Apply(b *dynamo.Body, dt float64) float64 {
	if !d.Active() || !(dt > 0) {
		return 0
	}
	h := dt
	remaining := d.Duration - d.Applied
	if h >= remaining {
		h = remaining
		d.Applied = d.Duration
	} else {
		d.Applied += h
	}
	b.Velocity += d.Force / b.SafeMass() * h
	return h
}

func (d *Driver) Impulse() float64 {
	return d.Force * math.Min(d.Applied, d.Duration)
}

func (d *Driver) Reset() {
	d.Applied = 0
}

// Theory is the closed-form outcome of an impulse starting from rest.
type Theory struct {
	Impulse       float64
	FinalVelocity float64
	KineticFinal  float64
}

func TheoreticalImpulse(force, duration, mass float64) Theory {
	j := force * duration
	v := j / dynamo.ClampMass(mass)
	return Theory{
		Impulse:       j,
		FinalVelocity: v,
		KineticFinal:  0.5 * mass * v * v,
	}
}

// Impulse pushes a single body with a Driver, then lets it coast until it
// reaches the far edge of the track.
type Impulse struct {
	body      dynamo.Body
	driver    *Driver
	params    dynamo.Params
	integ     *integrators.Euler
	triggered bool
	finished  bool
}

func NewImpulse(b dynamo.Body, force, duration float64, p dynamo.Params) *Impulse {
	im := &Impulse{
		body:   b,
		driver: NewDriver(force, duration),
		params: p,
		integ:  integrators.NewEuler(p),
	}
	im.Reset()
	return im
}

func (im *Impulse) Name() string      { return "impulse" }
func (im *Impulse) Triggered() bool   { return im.triggered }
func (im *Impulse) Finished() bool    { return im.finished }
func (im *Impulse) Body() dynamo.Body { return im.body }
func (im *Impulse) Driver() *Driver   { return im.driver }

func (im *Impulse) Theory() Theory {
	return TheoreticalImpulse(im.driver.Force, im.driver.Duration, im.body.Mass)
}

func (im *Impulse) Reset() {
	im.body.Reset()
	im.driver.Reset()
	im.triggered = false
	im.finished = false
}

// Step updates velocity first, then position, so the body covers ground in
// the same frame the force acts.
func (im *Impulse) Step(dt, t float64) *dynamo.CollisionEvent {
	if im.finished {
		return nil
	}
	b := &im.body
	var ev *dynamo.CollisionEvent

	if im.driver.Active() {
		u := b.Velocity
		im.driver.Apply(b, dt)
		if !im.driver.Active() {
			im.triggered = true
			ev = &dynamo.CollisionEvent{
				Kind:   dynamo.EventImpulseEnd,
				Time:   t,
				Before: [2]float64{u, 0},
				After:  [2]float64{b.Velocity, 0},
			}
		}
	}

	im.integ.Advance(b, dt)

	edge := math.NaN()
	switch {
	case b.Position > im.params.RightBound:
		edge = im.params.RightBound
	case b.Position < im.params.LeftBound:
		edge = im.params.LeftBound
	}
	if !math.IsNaN(edge) {
		b.Position = edge
		im.finished = true
		ev = &dynamo.CollisionEvent{
			Kind:      dynamo.EventBoundaryStop,
			Time:      t,
			Before:    [2]float64{b.Velocity, 0},
			After:     [2]float64{b.Velocity, 0},
			Positions: [2]float64{edge, 0},
		}
	}
	return ev
}

func (im *Impulse) Sample() (before, after []dynamo.BodyState) {
	return []dynamo.BodyState{im.body.Initial()}, []dynamo.BodyState{im.body.State()}
}

func (im *Impulse) Fill(s *dynamo.Snapshot) {
	s.Scenario = im.Name()
	s.Count = 1
	s.Bodies[0] = im.body.State()
	s.AppliedTime = im.driver.Applied
	s.Impulse = im.driver.Impulse()
}

func (im *Impulse) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":     im.body.Mass,
		"velocity": im.body.InitialVelocity,
		"force":    im.driver.Force,
		"duration": im.driver.Duration,
	}
}

func (im *Impulse) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		im.body.Mass = value
	case "velocity":
		im.body.InitialVelocity = value
	case "force":
		im.driver.Force = value
	case "duration":
		im.driver.Duration = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	im.Reset()
	return nil
}
