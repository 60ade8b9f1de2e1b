package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/collisionlab/internal/config"
	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	scenario  dynamo.Scenario
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the scenario and its simulator. Passing nil metrics
// attaches the registry defaults.
func (e *Experiment) Setup(r *Registry, metrics []dynamo.Metric) error {
	sc, err := r.GetScenario(e.cfg)
	if err != nil {
		return err
	}
	if metrics == nil {
		metrics = r.DefaultMetrics(e.cfg.Scenario)
	}

	e.scenario = sc
	e.simulator = sim.New(sc, e.cfg.Params())
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.DefaultConfig()
	simCfg.FrameDt = e.cfg.FrameDt
	simCfg.MaxTime = e.cfg.MaxTime
	simCfg.SubStep = e.cfg.SubStep

	return e.simulator.Run(ctx, simCfg)
}

func (e *Experiment) Config() *config.Config    { return e.cfg }
func (e *Experiment) Scenario() dynamo.Scenario { return e.scenario }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Build validates cfg and returns an idle clock for an interactive run.
func Build(r *Registry, cfg *config.Config) (*sim.Clock, error) {
	sc, err := r.GetScenario(cfg)
	if err != nil {
		return nil, err
	}
	return sim.NewClock(sc, cfg.Params()), nil
}
