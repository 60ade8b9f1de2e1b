package physics

import (
	"fmt"

	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/integrators"
)

// WallBounce is a single body rebounding off a fixed wall.
type WallBounce struct {
	body      dynamo.Body
	wall      dynamo.Wall
	params    dynamo.Params
	integ     *integrators.Euler
	triggered bool
	contacts  int
	frozen    float64
}

func NewWallBounce(b dynamo.Body, wall dynamo.Wall, p dynamo.Params) *WallBounce {
	w := &WallBounce{
		body:   b,
		wall:   wall,
		params: p,
		integ:  integrators.NewEuler(p),
	}
	w.Reset()
	return w
}

func (w *WallBounce) Name() string      { return "wall" }
func (w *WallBounce) Triggered() bool   { return w.triggered }
func (w *WallBounce) Finished() bool    { return false }
func (w *WallBounce) Contacts() int     { return w.contacts }
func (w *WallBounce) Body() dynamo.Body { return w.body }
func (w *WallBounce) Wall() dynamo.Wall { return w.wall }

func (w *WallBounce) Reset() {
	w.body.Reset()
	w.triggered = false
	w.contacts = 0
	w.frozen = 0
}

// Step moves the body and resolves a wall contact. The wall rule takes
// precedence: when it fires the safety rebound is skipped for this step.
func (w *WallBounce) Step(dt, t float64) *dynamo.CollisionEvent {
	b := &w.body
	next := w.integ.Predict(b.Position, b.Velocity, dt)

	if WallContact(b.Position, next, b.Velocity, w.params.Extent, w.wall.Position) {
		u := b.Velocity
		b.Position = ContactPoint(w.wall.Position, u, w.params.Extent)
		b.Velocity = Rebound(u)
		if !w.triggered {
			w.frozen = b.Velocity
		}
		w.triggered = true
		w.contacts++

		return &dynamo.CollisionEvent{
			Kind:      dynamo.EventWall,
			Time:      t,
			Before:    [2]float64{u, 0},
			After:     [2]float64{b.Velocity, 0},
			Positions: [2]float64{b.Position, 0},
		}
	}

	b.Position = next
	SafetyRebound(b, w.params.LeftBound, w.params.RightBound)
	return nil
}

func (w *WallBounce) Sample() (before, after []dynamo.BodyState) {
	cur := w.body.State()
	if w.triggered {
		cur.Velocity = w.frozen
	}
	return []dynamo.BodyState{w.body.Initial()}, []dynamo.BodyState{cur}
}

func (w *WallBounce) Fill(s *dynamo.Snapshot) {
	s.Scenario = w.Name()
	s.Count = 1
	s.Bodies[0] = w.body.State()
	s.Wall = w.wall.Position
	s.HasWall = true
}

func (w *WallBounce) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":     w.body.Mass,
		"velocity": w.body.InitialVelocity,
	}
}

func (w *WallBounce) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		w.body.Mass = value
	case "velocity":
		w.body.InitialVelocity = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	w.Reset()
	return nil
}
