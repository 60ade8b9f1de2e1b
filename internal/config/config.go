package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

const (
	Elastic   = "elastic"
	Inelastic = "inelastic"
	Wall      = "wall"
	Impulse   = "impulse"
)

// Scenarios lists the scenario names in display order.
var Scenarios = []string{Elastic, Inelastic, Wall, Impulse}

const (
	DefaultFrameDt     = 1.0 / 60
	DefaultMaxTime     = 30.0
	DefaultRestitution = 0.5
	DefaultForce       = 15.0
	DefaultDuration    = 2.0

	// Pair layouts place the bodies symmetrically about the track centre.
	ElasticGap   = 200.0
	InelasticGap = 250.0

	InelasticHitDistance = 20.0

	WallStartFraction    = 0.30
	WallFraction         = 0.85
	ImpulseStartFraction = 0.15
)

type Config struct {
	Scenario    string         `yaml:"scenario"`
	Bodies      BodiesConfig   `yaml:"bodies"`
	Restitution float64        `yaml:"restitution"`
	Force       float64        `yaml:"force"`
	Duration    float64        `yaml:"duration"`
	Layout      LayoutConfig   `yaml:"layout"`
	Tunables    TunablesConfig `yaml:"tunables"`
	FrameDt     float64        `yaml:"frame_dt"`
	MaxTime     float64        `yaml:"max_time"`
	SubStep     bool           `yaml:"sub_step"`
}

// BodiesConfig holds the initial conditions. Single-body scenarios only
// read Mass1 and Velocity1.
type BodiesConfig struct {
	Mass1     float64 `yaml:"mass1"`
	Velocity1 float64 `yaml:"velocity1"`
	Mass2     float64 `yaml:"mass2"`
	Velocity2 float64 `yaml:"velocity2"`
}

type LayoutConfig struct {
	TrackWidth    float64 `yaml:"track_width"`
	Padding       float64 `yaml:"padding"`
	Extent        float64 `yaml:"extent"`
	Gap           float64 `yaml:"gap"`
	StartFraction float64 `yaml:"start_fraction"`
	WallFraction  float64 `yaml:"wall_fraction"`
	Unbounded     bool    `yaml:"unbounded"`
}

type TunablesConfig struct {
	Scale          float64 `yaml:"scale"`
	MaxDt          float64 `yaml:"max_dt"`
	HitDistance    float64 `yaml:"hit_distance"`
	PostEventDelay float64 `yaml:"post_event_delay"`
}

func DefaultConfig() *Config {
	return ForScenario(Elastic)
}

// ForScenario returns the reference setup of a scenario. Unknown names get
// the elastic tunables with the name kept, so Validate reports them.
func ForScenario(name string) *Config {
	cfg := &Config{
		Scenario: name,
		Layout: LayoutConfig{
			TrackWidth: dynamo.DefaultTrackWidth,
			Padding:    dynamo.DefaultPadding,
			Extent:     dynamo.DefaultExtent,
			Gap:        ElasticGap,
		},
		Tunables: TunablesConfig{
			Scale:          dynamo.DefaultScale,
			MaxDt:          dynamo.DefaultMaxDt,
			HitDistance:    dynamo.DefaultHitDistance,
			PostEventDelay: dynamo.DefaultPostEventDelay,
		},
		FrameDt: DefaultFrameDt,
		MaxTime: DefaultMaxTime,
	}

	switch name {
	case Inelastic:
		cfg.Bodies = BodiesConfig{Mass1: 4, Velocity1: 10, Mass2: 4, Velocity2: 10}
		cfg.Restitution = DefaultRestitution
		cfg.Layout.Gap = InelasticGap
		cfg.Tunables.HitDistance = InelasticHitDistance
	case Wall:
		cfg.Bodies = BodiesConfig{Mass1: 2, Velocity1: 3}
		cfg.Layout.StartFraction = WallStartFraction
		cfg.Layout.WallFraction = WallFraction
	case Impulse:
		cfg.Bodies = BodiesConfig{Mass1: 2}
		cfg.Force = DefaultForce
		cfg.Duration = DefaultDuration
		cfg.Layout.StartFraction = ImpulseStartFraction
	default:
		cfg.Bodies = BodiesConfig{Mass1: 4, Velocity1: 5, Mass2: 4, Velocity2: -3}
		cfg.Restitution = 1
	}
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// the scenario decides which defaults the file is layered on
	var head struct {
		Scenario string `yaml:"scenario"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	if head.Scenario == "" {
		head.Scenario = Elastic
	}

	cfg := ForScenario(head.Scenario)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) IsPair() bool {
	return c.Scenario == Elastic || c.Scenario == Inelastic
}

func (c *Config) Params() dynamo.Params {
	left, right := dynamo.TrackBounds(c.Layout.TrackWidth, c.Layout.Padding, c.Layout.Extent)
	p := dynamo.Params{
		Scale:          c.Tunables.Scale,
		MaxDt:          c.Tunables.MaxDt,
		HitDistance:    c.Tunables.HitDistance,
		PostEventDelay: c.Tunables.PostEventDelay,
		LeftBound:      left,
		RightBound:     right,
		Extent:         c.Layout.Extent,
	}
	if c.Layout.Unbounded {
		p = p.Unbounded()
	}
	return p
}

// Positions returns the starting centres. Pairs sit Gap either side of the
// track centre; single bodies start at StartFraction of the width.
func (c *Config) Positions() (x1, x2 float64) {
	if c.IsPair() {
		mid := c.Layout.TrackWidth / 2
		return mid - c.Layout.Gap, mid + c.Layout.Gap
	}
	return c.Layout.TrackWidth * c.Layout.StartFraction, 0
}

// WallPosition places the wall WallFraction of the way between the safety
// bounds.
func (c *Config) WallPosition() float64 {
	left, right := dynamo.TrackBounds(c.Layout.TrackWidth, c.Layout.Padding, c.Layout.Extent)
	return left + (right-left)*c.Layout.WallFraction
}

// Validate checks the configuration boundary: positive masses, restitution
// in [0, 1], non-negative duration and sane tunables.
func (c *Config) Validate() error {
	known := false
	for _, s := range Scenarios {
		known = known || s == c.Scenario
	}
	if !known {
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownScenario, c.Scenario)
	}

	if err := dynamo.CheckMass("mass1", c.Bodies.Mass1); err != nil {
		return err
	}
	if err := checkFinite("velocity1", c.Bodies.Velocity1); err != nil {
		return err
	}
	if c.IsPair() {
		if err := dynamo.CheckMass("mass2", c.Bodies.Mass2); err != nil {
			return err
		}
		if err := checkFinite("velocity2", c.Bodies.Velocity2); err != nil {
			return err
		}
	}

	switch c.Scenario {
	case Inelastic:
		if err := dynamo.CheckRestitution(c.Restitution); err != nil {
			return err
		}
	case Impulse:
		if err := dynamo.CheckDuration(c.Duration); err != nil {
			return err
		}
		if err := checkFinite("force", c.Force); err != nil {
			return err
		}
	}

	if !(c.FrameDt > 0) {
		return &dynamo.ConfigError{Field: "frame_dt", Value: c.FrameDt, Wrapped: dynamo.ErrInvalidParams}
	}
	if !(c.MaxTime > 0) {
		return &dynamo.ConfigError{Field: "max_time", Value: c.MaxTime, Wrapped: dynamo.ErrInvalidParams}
	}
	if !(c.Layout.TrackWidth > 0) {
		return &dynamo.ConfigError{Field: "track_width", Value: c.Layout.TrackWidth, Wrapped: dynamo.ErrInvalidParams}
	}
	return c.Params().Validate()
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &dynamo.ConfigError{Field: field, Value: v, Wrapped: dynamo.ErrInvalidParams}
	}
	return nil
}

// Set applies a named parameter as used on the command line and by
// sweeps.
func (c *Config) Set(name string, value float64) error {
	switch name {
	case "mass1", "mass":
		c.Bodies.Mass1 = value
	case "velocity1", "velocity":
		c.Bodies.Velocity1 = value
	case "mass2":
		c.Bodies.Mass2 = value
	case "velocity2":
		c.Bodies.Velocity2 = value
	case "restitution":
		c.Restitution = value
	case "force":
		c.Force = value
	case "duration":
		c.Duration = value
	case "hit_distance":
		c.Tunables.HitDistance = value
	case "max_dt":
		c.Tunables.MaxDt = value
	case "post_event_delay":
		c.Tunables.PostEventDelay = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
