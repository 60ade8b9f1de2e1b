package dynamo

import (
	"fmt"
	"math"
)

// MinMass is the floor applied before any division by mass. Positive mass
// is a precondition of the core; the floor only keeps NaN/Inf out of
// snapshots when the precondition is violated.
const MinMass = 1e-9

type Slot int

const (
	SlotA Slot = iota
	SlotB
)

func (s Slot) String() string {
	switch s {
	case SlotA:
		return "A"
	case SlotB:
		return "B"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

type Body struct {
	Mass            float64
	InitialVelocity float64
	InitialPosition float64
	Velocity        float64
	Position        float64
}

func NewBody(mass, v0, x0 float64) Body {
	return Body{
		Mass:            mass,
		InitialVelocity: v0,
		InitialPosition: x0,
		Velocity:        v0,
		Position:        x0,
	}
}

func (b *Body) Reset() {
	b.Velocity = b.InitialVelocity
	b.Position = b.InitialPosition
}

// SafeMass returns the mass floored at MinMass.
func (b Body) SafeMass() float64 {
	return ClampMass(b.Mass)
}

func ClampMass(m float64) float64 {
	if math.IsNaN(m) || m < MinMass {
		return MinMass
	}
	return m
}

func (b Body) State() BodyState {
	return BodyState{Mass: b.Mass, Position: b.Position, Velocity: b.Velocity}
}

// Initial returns the body as configured, before any frame has run.
func (b Body) Initial() BodyState {
	return BodyState{Mass: b.Mass, Position: b.InitialPosition, Velocity: b.InitialVelocity}
}

type BodyState struct {
	Mass     float64 `json:"mass"`
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
}

type Wall struct {
	Position float64
}

type Phase int

const (
	Idle Phase = iota
	Running
	Paused
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type EventKind int

const (
	EventPair EventKind = iota
	EventWall
	EventImpulseEnd
	EventBoundaryStop
)

func (k EventKind) String() string {
	switch k {
	case EventPair:
		return "pair"
	case EventWall:
		return "wall"
	case EventImpulseEnd:
		return "impulse_end"
	case EventBoundaryStop:
		return "boundary_stop"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// SchedulesStop reports whether the event opens the post-event run-out
// window of the clock.
func (k EventKind) SchedulesStop() bool {
	return k == EventPair || k == EventWall
}

// CollisionEvent records one resolution. Single-body events only use the
// SlotA entries.
type CollisionEvent struct {
	Kind      EventKind  `json:"kind"`
	Time      float64    `json:"time"`
	Before    [2]float64 `json:"before"`
	After     [2]float64 `json:"after"`
	Positions [2]float64 `json:"positions"`
}

// Params holds the tunables of a run. Positions are in track units,
// velocities in m/s, Scale converts one to the other.
type Params struct {
	Scale          float64
	MaxDt          float64
	HitDistance    float64
	PostEventDelay float64
	LeftBound      float64
	RightBound     float64
	Extent         float64
}

const (
	DefaultScale          = 40.0
	DefaultMaxDt          = 0.05
	DefaultHitDistance    = 80.0
	DefaultPostEventDelay = 1.0
	DefaultTrackWidth     = 1000.0
	DefaultPadding        = 24.0
	DefaultExtent         = 200.0
)

func DefaultParams() Params {
	left, right := TrackBounds(DefaultTrackWidth, DefaultPadding, DefaultExtent)
	return Params{
		Scale:          DefaultScale,
		MaxDt:          DefaultMaxDt,
		HitDistance:    DefaultHitDistance,
		PostEventDelay: DefaultPostEventDelay,
		LeftBound:      left,
		RightBound:     right,
		Extent:         DefaultExtent,
	}
}

// TrackBounds returns the safety bounds for body centres on a track of the
// given width.
func TrackBounds(width, padding, extent float64) (left, right float64) {
	return padding + extent/2, width - padding - extent/2
}

// Unbounded returns p with both safety bounds removed.
func (p Params) Unbounded() Params {
	p.LeftBound = math.Inf(-1)
	p.RightBound = math.Inf(1)
	return p
}

type Snapshot struct {
	Scenario       string       `json:"scenario"`
	Phase          Phase        `json:"phase"`
	Bodies         [2]BodyState `json:"bodies"`
	Count          int          `json:"count"`
	Wall           float64      `json:"wall,omitempty"`
	HasWall        bool         `json:"has_wall"`
	MomentumBefore float64      `json:"momentum_before"`
	MomentumAfter  float64      `json:"momentum_after"`
	KineticBefore  float64      `json:"kinetic_before"`
	KineticAfter   float64      `json:"kinetic_after"`
	HasTriggered   bool         `json:"has_triggered"`
	IsPlaying      bool         `json:"is_playing"`
	IsPaused       bool         `json:"is_paused"`
	Elapsed        float64      `json:"elapsed"`
	AppliedTime    float64      `json:"applied_time,omitempty"`
	Impulse        float64      `json:"impulse,omitempty"`
}

func (s Snapshot) EnergyLost() float64 {
	return s.KineticBefore - s.KineticAfter
}

func (s Snapshot) Body(slot Slot) BodyState {
	return s.Bodies[slot]
}

// IsValid reports whether every numeric field is finite.
func (s Snapshot) IsValid() bool {
	vals := []float64{
		s.MomentumBefore, s.MomentumAfter,
		s.KineticBefore, s.KineticAfter,
		s.Elapsed, s.AppliedTime, s.Impulse,
	}
	for i := 0; i < s.Count && i < len(s.Bodies); i++ {
		vals = append(vals, s.Bodies[i].Position, s.Bodies[i].Velocity)
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Scenario is one experiment stepped by a clock. Step advances the
// scenario by an already clamped dt; t is the simulated run time after the
// step. It returns the event resolved during the step, if any.
type Scenario interface {
	Name() string
	Reset()
	Step(dt, t float64) *CollisionEvent
	Triggered() bool
	Finished() bool
	// Sample returns the body states the conservation report compares:
	// configured initial velocities and the post-event (or live) ones.
	Sample() (before, after []BodyState)
	Fill(s *Snapshot)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(s Snapshot)
	OnEvent(e CollisionEvent)
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
