package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/collisionlab/internal/dynamo"
)

func TestConservationElastic(t *testing.T) {
	before := []dynamo.BodyState{{Mass: 4, Velocity: 5}, {Mass: 4, Velocity: -3}}
	after := []dynamo.BodyState{{Mass: 4, Velocity: -3}, {Mass: 4, Velocity: 5}}

	r := Conservation(before, after)
	if r.MomentumBefore != 8 || r.MomentumAfter != 8 {
		t.Errorf("momentum %v -> %v, want 8 -> 8", r.MomentumBefore, r.MomentumAfter)
	}
	if r.KineticBefore != 68 || r.KineticAfter != 68 {
		t.Errorf("kinetic %v -> %v, want 68 -> 68", r.KineticBefore, r.KineticAfter)
	}
	if r.EnergyLost() != 0 || r.MomentumDelta() != 0 {
		t.Errorf("elastic report lost energy or momentum: %+v", r)
	}
}

func TestConservationPerfectlyInelastic(t *testing.T) {
	before := []dynamo.BodyState{{Mass: 4, Velocity: 10}, {Mass: 4, Velocity: -10}}
	after := []dynamo.BodyState{{Mass: 4, Velocity: 0}, {Mass: 4, Velocity: 0}}

	r := Conservation(before, after)
	if r.EnergyLost() != 400 {
		t.Errorf("energy lost = %v, want 400", r.EnergyLost())
	}
	if r.MomentumDelta() != 0 {
		t.Errorf("momentum delta = %v", r.MomentumDelta())
	}
}

func TestMetrics(t *testing.T) {
	snaps := []dynamo.Snapshot{
		{Count: 2, Bodies: [2]dynamo.BodyState{{Velocity: 5}, {Velocity: -3}}},
		{
			Count: 2, HasTriggered: true,
			Bodies:         [2]dynamo.BodyState{{Velocity: -3}, {Velocity: 7}},
			MomentumBefore: 8, MomentumAfter: 8.08,
			KineticBefore: 68, KineticAfter: 50,
		},
		{Count: 2, Bodies: [2]dynamo.BodyState{{Velocity: math.NaN()}, {}}},
	}

	tests := []struct {
		metric dynamo.Metric
		want   float64
	}{
		{NewEnergyLoss(), 18},
		{NewMomentumDrift(), 0.01},
		{NewPeakSpeed(), 7},
		{NewStability(), 2.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.metric.Name(), func(t *testing.T) {
			for _, s := range snaps {
				tt.metric.Observe(s)
			}
			if got := tt.metric.Value(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetricReset(t *testing.T) {
	for _, m := range Default() {
		m.Observe(dynamo.Snapshot{
			Count: 1, HasTriggered: true,
			Bodies:         [2]dynamo.BodyState{{Velocity: 4}},
			MomentumBefore: 2, MomentumAfter: 1, KineticBefore: 3,
		})
		m.Reset()

		want := 0.0
		if m.Name() == "stability" {
			want = 1
		}
		if m.Value() != want {
			t.Errorf("%s after reset = %v, want %v", m.Name(), m.Value(), want)
		}
	}
}

func TestByName(t *testing.T) {
	if ByName("peak_speed") == nil {
		t.Error("peak_speed not found")
	}
	if ByName("nope") != nil {
		t.Error("unknown metric returned")
	}
}
