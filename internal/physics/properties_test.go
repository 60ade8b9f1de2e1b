package physics_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/physics"
)

func momentum(m1, v1, m2, v2 float64) float64 { return m1*v1 + m2*v2 }

func kinetic(m1, v1, m2, v2 float64) float64 { return 0.5*m1*v1*v1 + 0.5*m2*v2*v2 }

var _ = Describe("Resolve", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(7))
	})

	draw := func() (m1, u1, m2, u2 float64) {
		m1 = 0.5 + rng.Float64()*9.5
		m2 = 0.5 + rng.Float64()*9.5
		u1 = rng.Float64()*20 - 10
		u2 = rng.Float64()*20 - 10
		return
	}

	It("conserves momentum and energy when elastic", func() {
		for i := 0; i < 200; i++ {
			m1, u1, m2, u2 := draw()
			v1, v2 := physics.Elastic(m1, u1, m2, u2)

			Expect(momentum(m1, v1, m2, v2)).To(BeNumerically("~", momentum(m1, u1, m2, u2), 1e-9))
			Expect(kinetic(m1, v1, m2, v2)).To(BeNumerically("~", kinetic(m1, u1, m2, u2), 1e-9))
		}
	})

	It("conserves momentum and never gains energy for e in [0, 1]", func() {
		for i := 0; i < 200; i++ {
			m1, u1, m2, u2 := draw()
			e := rng.Float64()
			v1, v2 := physics.Resolve(m1, u1, m2, u2, e)

			Expect(momentum(m1, v1, m2, v2)).To(BeNumerically("~", momentum(m1, u1, m2, u2), 1e-9))
			Expect(kinetic(m1, v1, m2, v2)).To(BeNumerically("<=", kinetic(m1, u1, m2, u2)+1e-9))
		}
	})

	It("strictly loses kinetic energy for approaching bodies when e < 1", func() {
		for i := 0; i < 200; i++ {
			m1 := 0.5 + rng.Float64()*9.5
			m2 := 0.5 + rng.Float64()*9.5
			u1 := 1 + rng.Float64()*9
			u2 := -(1 + rng.Float64()*9)
			k0 := kinetic(m1, u1, m2, u2)

			v1, v2 := physics.Resolve(m1, u1, m2, u2, rng.Float64()*0.99)
			Expect(kinetic(m1, v1, m2, v2)).To(BeNumerically("<", k0-1e-6))

			v1, v2 = physics.Resolve(m1, u1, m2, u2, 1)
			Expect(kinetic(m1, v1, m2, v2)).To(BeNumerically("~", k0, 1e-9))
		}
	})

	It("leaves a common velocity when perfectly inelastic", func() {
		for i := 0; i < 100; i++ {
			m1, u1, m2, u2 := draw()
			v1, v2 := physics.Resolve(m1, u1, m2, u2, 0)
			Expect(v1).To(BeNumerically("~", v2, 1e-9))
			Expect(v1).To(BeNumerically("~", momentum(m1, u1, m2, u2)/(m1+m2), 1e-9))
		}
	})
})

var _ = Describe("Pair scenario", func() {
	run := func(pair *physics.Pair) {
		t := 0.0
		for i := 0; i < 2000 && !pair.Triggered(); i++ {
			t += 0.016
			pair.Step(0.016, t)
		}
	}

	It("reports conserved momentum for approaching bodies", func() {
		rng := rand.New(rand.NewSource(11))
		for i := 0; i < 25; i++ {
			m1 := 0.5 + rng.Float64()*9.5
			m2 := 0.5 + rng.Float64()*9.5
			u1 := 1 + rng.Float64()*9
			u2 := -(1 + rng.Float64()*9)
			e := rng.Float64()

			pair := physics.NewInelastic(dynamo.NewBody(m1, u1, 300), dynamo.NewBody(m2, u2, 700), e, dynamo.DefaultParams())
			run(pair)
			Expect(pair.Triggered()).To(BeTrue())

			before, after := pair.Sample()
			pb := momentum(before[0].Mass, before[0].Velocity, before[1].Mass, before[1].Velocity)
			pa := momentum(after[0].Mass, after[0].Velocity, after[1].Mass, after[1].Velocity)
			Expect(pa).To(BeNumerically("~", pb, 1e-9))
		}
	})

	It("reports a kinetic energy loss when inelastic", func() {
		for _, e := range []float64{0, 0.3, 0.5, 0.9} {
			pair := physics.NewInelastic(dynamo.NewBody(4, 5, 300), dynamo.NewBody(2, -3, 700), e, dynamo.DefaultParams())
			run(pair)
			Expect(pair.Triggered()).To(BeTrue())

			before, after := pair.Sample()
			kb := kinetic(before[0].Mass, before[0].Velocity, before[1].Mass, before[1].Velocity)
			ka := kinetic(after[0].Mass, after[0].Velocity, after[1].Mass, after[1].Velocity)
			Expect(ka).To(BeNumerically("<", kb), "e = %v", e)
		}
	})

	It("resets to the configured initial state", func() {
		a0, b0 := dynamo.NewBody(4, 5, 300), dynamo.NewBody(4, -3, 700)
		pair := physics.NewElastic(a0, b0, dynamo.DefaultParams())
		run(pair)
		pair.Reset()

		Expect(pair.Body(dynamo.SlotA)).To(Equal(a0))
		Expect(pair.Body(dynamo.SlotB)).To(Equal(b0))
		Expect(pair.Triggered()).To(BeFalse())
	})
})

var _ = Describe("WallBounce scenario", func() {
	It("reverses velocity with unchanged speed", func() {
		for _, v := range []float64{0.5, 3, 8} {
			w := physics.NewWallBounce(dynamo.NewBody(2, v, 300), dynamo.Wall{Position: 763.2}, dynamo.DefaultParams())
			t := 0.0
			for i := 0; i < 5000 && !w.Triggered(); i++ {
				t += 0.016
				w.Step(0.016, t)
			}
			Expect(w.Triggered()).To(BeTrue())
			Expect(w.Body().Velocity).To(Equal(-v))
		}
	})
})
