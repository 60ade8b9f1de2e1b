package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/integrators"
	"github.com/san-kum/collisionlab/internal/metrics"
)

// Clock is the run state machine around one scenario:
//
//	Idle -start-> Running -pause-> Paused -pause-> Running
//	Running -deadline or finish-> Stopped -reset-> Idle
//
// The clock owns the scenario; callers only see the Snapshot built at the
// end of each tick. A Clock is not safe for concurrent use, Loop
// serializes access when ticks and commands come from different
// goroutines.
type Clock struct {
	scenario dynamo.Scenario
	params   dynamo.Params

	phase    dynamo.Phase
	anchored bool
	last     time.Duration

	runTime     float64
	simTime     float64
	steps       int
	deadline    float64
	hasDeadline bool

	events    []dynamo.CollisionEvent
	observers []dynamo.Observer
	snap      dynamo.Snapshot
}

func NewClock(sc dynamo.Scenario, p dynamo.Params) *Clock {
	c := &Clock{scenario: sc, params: p}
	c.Reset()
	return c
}

func (c *Clock) AddObserver(o dynamo.Observer) { c.observers = append(c.observers, o) }

func (c *Clock) Phase() dynamo.Phase             { return c.phase }
func (c *Clock) Snapshot() dynamo.Snapshot       { return c.snap }
func (c *Clock) Scenario() dynamo.Scenario       { return c.scenario }
func (c *Clock) Params() dynamo.Params           { return c.params }
func (c *Clock) Events() []dynamo.CollisionEvent { return c.events }
func (c *Clock) Steps() int                      { return c.steps }

// Start begins a run from Idle or resumes a paused one. It is a no-op
// while running and after the run has stopped; a stopped run needs Reset.
// The next Tick anchors the frame time.
func (c *Clock) Start() bool {
	switch c.phase {
	case dynamo.Idle, dynamo.Paused:
		c.phase = dynamo.Running
		c.anchored = false
		c.refresh()
		return true
	default:
		return false
	}
}

// Pause toggles between Running and Paused.
func (c *Clock) Pause() bool {
	switch c.phase {
	case dynamo.Running:
		c.phase = dynamo.Paused
	case dynamo.Paused:
		c.phase = dynamo.Running
		c.anchored = false
	default:
		return false
	}
	c.refresh()
	return true
}

// Reset restores the configured initial state from any phase.
func (c *Clock) Reset() {
	c.scenario.Reset()
	c.phase = dynamo.Idle
	c.anchored = false
	c.last = 0
	c.runTime = 0
	c.simTime = 0
	c.steps = 0
	c.deadline = 0
	c.hasDeadline = false
	c.events = nil
	c.refresh()
}

// SetParam changes an initial condition. Changes are only accepted while
// Idle or Stopped and always leave the clock reset to Idle.
func (c *Clock) SetParam(name string, value float64) error {
	if c.phase != dynamo.Idle && c.phase != dynamo.Stopped {
		return fmt.Errorf("%w: cannot set %s while %s", dynamo.ErrInvalidTransition, name, c.phase)
	}
	cfg, ok := c.scenario.(dynamo.Configurable)
	if !ok {
		return fmt.Errorf("%w: %s has no parameters", dynamo.ErrUnknownParam, c.scenario.Name())
	}
	if err := cfg.SetParam(name, value); err != nil {
		return err
	}
	c.Reset()
	return nil
}

func (c *Clock) GetParams() map[string]float64 {
	if cfg, ok := c.scenario.(dynamo.Configurable); ok {
		return cfg.GetParams()
	}
	return map[string]float64{}
}

// Tick advances the scenario by the time since the previous tick, clamped
// to MaxDt. Outside Running it returns the current snapshot unchanged.
func (c *Clock) Tick(now time.Duration) dynamo.Snapshot {
	if c.phase != dynamo.Running {
		return c.snap
	}

	raw := 0.0
	if c.anchored {
		raw = (now - c.last).Seconds()
		if raw < 0 {
			raw = 0
		}
	}
	c.last = now
	c.anchored = true

	dt := integrators.ClampDt(raw, c.params.MaxDt)
	c.runTime += raw
	c.simTime += dt
	c.steps++

	if ev := c.scenario.Step(dt, c.simTime); ev != nil {
		c.events = append(c.events, *ev)
		if ev.Kind.SchedulesStop() && !c.hasDeadline {
			c.deadline = c.runTime + c.params.PostEventDelay
			c.hasDeadline = true
		}
		for _, o := range c.observers {
			o.OnEvent(*ev)
		}
	}

	if c.scenario.Finished() || (c.hasDeadline && c.runTime >= c.deadline) {
		c.phase = dynamo.Stopped
	}

	c.refresh()
	for _, o := range c.observers {
		o.OnFrame(c.snap)
	}
	return c.snap
}

// Remaining is the time left in the post-event window, or -1 when no
// event has opened one.
func (c *Clock) Remaining() float64 {
	if !c.hasDeadline {
		return -1
	}
	if r := c.deadline - c.runTime; r > 0 {
		return r
	}
	return 0
}

func (c *Clock) refresh() {
	var s dynamo.Snapshot
	c.scenario.Fill(&s)
	metrics.FromScenario(c.scenario).Apply(&s)
	s.Phase = c.phase
	s.HasTriggered = c.scenario.Triggered()
	s.IsPlaying = c.phase == dynamo.Running
	s.IsPaused = c.phase == dynamo.Paused
	s.Elapsed = c.simTime
	c.snap = s
}
