package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/integrators"
)

// Simulator drives a Clock headless, feeding it evenly spaced frame
// timestamps in place of a display refresh.
type Simulator struct {
	clock     *Clock
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(sc dynamo.Scenario, p dynamo.Params) *Simulator {
	return &Simulator{
		clock:     NewClock(sc, p),
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Clock() *Clock                 { return s.clock }

// Run resets the clock, starts it and ticks until it stops, the host time
// budget runs out or ctx is cancelled. The initial idle snapshot is
// recorded at t=0.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := int(cfg.MaxTime/cfg.FrameDt) + 1
	if cfg.MaxFrames > 0 && frames > cfg.MaxFrames {
		frames = cfg.MaxFrames
	}

	result := &Result{
		Scenario:  s.clock.Scenario().Name(),
		Snapshots: make([]dynamo.Snapshot, 0, frames+1),
		Times:     make([]float64, 0, frames+1),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	c := s.clock
	c.Reset()
	result.Snapshots = append(result.Snapshots, c.Snapshot())
	result.Times = append(result.Times, 0)

	n, h := 1, cfg.FrameDt
	if cfg.SubStep {
		n, h = integrators.SubSteps(cfg.FrameDt, c.Params().MaxDt)
	}

	seen := 0
	c.Start()
	for i := 0; i < frames && c.Phase() == dynamo.Running; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(i) * cfg.FrameDt
		if i > 0 {
			for k := 1; k < n && c.Phase() == dynamo.Running; k++ {
				c.Tick(seconds(t - cfg.FrameDt + float64(k)*h))
			}
		}
		snap := c.Tick(seconds(t))

		for _, ev := range c.Events()[seen:] {
			result.Events = append(result.Events, ev)
			for _, obs := range s.observers {
				obs.OnEvent(ev)
			}
		}
		seen = len(c.Events())

		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, obs := range s.observers {
			obs.OnFrame(snap)
		}

		if cfg.ValidateState && !snap.IsValid() {
			err := dynamo.SimError{Time: snap.Elapsed, Step: i, Message: "invalid snapshot (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		result.Frames++
		result.Snapshots = append(result.Snapshots, snap)
		result.Times = append(result.Times, t)
	}

	result.FinalPhase = c.Phase()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.FrameDt <= 0 {
		return fmt.Errorf("%w: frame dt must be positive, got %f", dynamo.ErrInvalidParams, cfg.FrameDt)
	}
	if cfg.MaxTime <= 0 {
		return fmt.Errorf("%w: max time must be positive, got %f", dynamo.ErrInvalidParams, cfg.MaxTime)
	}
	if cfg.MaxFrames < 0 {
		return fmt.Errorf("%w: max frames must not be negative", dynamo.ErrInvalidParams)
	}
	return nil
}

// RunWithCallback ticks like Run but hands each snapshot to callback
// instead of recording it. Returning false from callback ends the run.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(dynamo.Snapshot, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	c := s.clock
	c.Reset()
	c.Start()

	for t := 0.0; t <= cfg.MaxTime && c.Phase() == dynamo.Running; t += cfg.FrameDt {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		snap := c.Tick(seconds(t))
		if !callback(snap, t) {
			return nil
		}

		if cfg.ValidateState && !snap.IsValid() {
			return fmt.Errorf("invalid snapshot at t=%.4f", t)
		}
	}

	return nil
}
