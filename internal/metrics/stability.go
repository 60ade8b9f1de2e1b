package metrics

import (
	"math"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

// Stability is the fraction of observed frames whose snapshot is free of
// NaN and Inf.
type Stability struct {
	name       string
	violations int
	samples    int
}

func NewStability() *Stability {
	return &Stability{
		name: "stability",
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap dynamo.Snapshot) {
	s.samples++
	if !snap.IsValid() {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string {
	return p.name
}

func (p *PeakSpeed) Observe(snap dynamo.Snapshot) {
	for i := 0; i < snap.Count && i < len(snap.Bodies); i++ {
		p.peak = math.Max(p.peak, math.Abs(snap.Bodies[i].Velocity))
	}
}

func (p *PeakSpeed) Value() float64 {
	return p.peak
}

func (p *PeakSpeed) Reset() {
	p.peak = 0
}

// Default returns the metrics recorded by headless runs.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewMomentumDrift(),
		NewEnergyLoss(),
		NewPeakSpeed(),
		NewStability(),
	}
}

// ByName builds a single metric, or returns nil for an unknown name.
func ByName(name string) dynamo.Metric {
	for _, m := range Default() {
		if m.Name() == name {
			return m
		}
	}
	return nil
}
