package physics

import (
	"math"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name           string
		m1, u1, m2, u2 float64
		e              float64
		want1, want2   float64
	}{
		{"equal masses exchange", 4, 5, 4, -3, 1, -3, 5},
		{"perfectly inelastic", 4, 10, 4, -10, 0, 0, 0},
		{"heavy hits light at rest", 3, 2, 1, 0, 1, 1, 3},
		{"half restitution", 4, 5, 2, -3, 0.5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v1, v2 := Resolve(tt.m1, tt.u1, tt.m2, tt.u2, tt.e)
			if math.Abs(v1-tt.want1) > 1e-12 || math.Abs(v2-tt.want2) > 1e-12 {
				t.Errorf("Resolve() = %v, %v; want %v, %v", v1, v2, tt.want1, tt.want2)
			}
		})
	}
}

func TestResolveConservesMomentum(t *testing.T) {
	m1, u1, m2, u2 := 2.5, 4.0, 7.0, -1.5
	p0 := m1*u1 + m2*u2
	for _, e := range []float64{0, 0.25, 0.5, 0.75, 1} {
		v1, v2 := Resolve(m1, u1, m2, u2, e)
		if p := m1*v1 + m2*v2; math.Abs(p-p0) > 1e-9 {
			t.Errorf("e=%v: momentum %v, want %v", e, p, p0)
		}
	}
}

func TestElasticConservesEnergy(t *testing.T) {
	m1, u1, m2, u2 := 2.5, 4.0, 7.0, -1.5
	k0 := 0.5*m1*u1*u1 + 0.5*m2*u2*u2
	v1, v2 := Elastic(m1, u1, m2, u2)
	if k := 0.5*m1*v1*v1 + 0.5*m2*v2*v2; math.Abs(k-k0) > 1e-9 {
		t.Errorf("kinetic energy %v, want %v", k, k0)
	}
}

func TestResolveZeroMass(t *testing.T) {
	v1, v2 := Resolve(0, 5, 0, -3, 1)
	if math.IsNaN(v1) || math.IsNaN(v2) || math.IsInf(v1, 0) || math.IsInf(v2, 0) {
		t.Errorf("zero masses produced %v, %v", v1, v2)
	}
}

func TestContactPositions(t *testing.T) {
	xa, xb := ContactPositions(470, 510, 80, true)
	if xa != 450 || xb != 530 {
		t.Errorf("a left: %v, %v", xa, xb)
	}
	xa, xb = ContactPositions(510, 470, 80, false)
	if xa != 530 || xb != 450 {
		t.Errorf("a right: %v, %v", xa, xb)
	}
}

func TestContactPoint(t *testing.T) {
	if got := ContactPoint(700, 3, 200); got != 600 {
		t.Errorf("moving right: %v", got)
	}
	if got := ContactPoint(300, -3, 200); got != 400 {
		t.Errorf("moving left: %v", got)
	}
}
