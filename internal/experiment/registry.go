package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/collisionlab/internal/config"
	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/metrics"
	"github.com/san-kum/collisionlab/internal/physics"
)

// Factory builds a scenario from a validated configuration.
type Factory func(cfg *config.Config, p dynamo.Params) dynamo.Scenario

type Registry struct {
	scenarios map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios: make(map[string]Factory),
	}

	r.scenarios[config.Elastic] = func(cfg *config.Config, p dynamo.Params) dynamo.Scenario {
		a, b := pairBodies(cfg)
		return physics.NewElastic(a, b, p)
	}
	r.scenarios[config.Inelastic] = func(cfg *config.Config, p dynamo.Params) dynamo.Scenario {
		a, b := pairBodies(cfg)
		return physics.NewInelastic(a, b, cfg.Restitution, p)
	}
	r.scenarios[config.Wall] = func(cfg *config.Config, p dynamo.Params) dynamo.Scenario {
		x, _ := cfg.Positions()
		body := dynamo.NewBody(cfg.Bodies.Mass1, cfg.Bodies.Velocity1, x)
		return physics.NewWallBounce(body, dynamo.Wall{Position: cfg.WallPosition()}, p)
	}
	r.scenarios[config.Impulse] = func(cfg *config.Config, p dynamo.Params) dynamo.Scenario {
		x, _ := cfg.Positions()
		body := dynamo.NewBody(cfg.Bodies.Mass1, cfg.Bodies.Velocity1, x)
		return physics.NewImpulse(body, cfg.Force, cfg.Duration, p)
	}

	return r
}

func pairBodies(cfg *config.Config) (a, b dynamo.Body) {
	x1, x2 := cfg.Positions()
	a = dynamo.NewBody(cfg.Bodies.Mass1, cfg.Bodies.Velocity1, x1)
	b = dynamo.NewBody(cfg.Bodies.Mass2, cfg.Bodies.Velocity2, x2)
	return a, b
}

func (r *Registry) Register(name string, f Factory) {
	r.scenarios[name] = f
}

// GetScenario validates cfg and builds its scenario.
func (r *Registry) GetScenario(cfg *config.Config) (dynamo.Scenario, error) {
	fn, ok := r.scenarios[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownScenario, cfg.Scenario)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Scenario, err)
	}
	return fn(cfg, cfg.Params()), nil
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metric instances for a headless run.
func (r *Registry) DefaultMetrics(scenario string) []dynamo.Metric {
	return metrics.Default()
}
