package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
)

var _ = Describe("Particle", func() {
	Describe("construction", func() {
		It("starts at rest", func() {
			p := mustParticle(3, vec(1, 2), 5, 1)
			Expect(p.PreviousPosition()).To(Equal(p.Position()))
			Expect(p.Velocity()).To(Equal(dynamo.Vec2{}))
			Expect(p.Acceleration()).To(Equal(dynamo.Vec2{}))
			Expect(p.ID()).To(Equal(uint64(3)))
		})

		DescribeTable("rejects invalid parameters",
			func(radius, mass float64, want error) {
				_, err := physics.NewParticle(0, vec(0, 0), radius, mass, "")
				Expect(err).To(MatchError(want))
			},
			Entry("zero mass", 5.0, 0.0, dynamo.ErrInvalidMass),
			Entry("negative mass", 5.0, -1.0, dynamo.ErrInvalidMass),
			Entry("zero radius", 0.0, 1.0, dynamo.ErrInvalidRadius),
			Entry("negative radius", -2.0, 1.0, dynamo.ErrInvalidRadius),
		)

		It("does not validate setters", func() {
			p := mustParticle(0, vec(0, 0), 5, 1)
			p.SetMass(-4)
			Expect(p.Mass()).To(Equal(-4.0))
		})
	})

	Describe("ApplyForce", func() {
		It("divides by mass and accumulates", func() {
			p := mustParticle(0, vec(0, 0), 1, 2)
			p.ApplyForce(vec(0, 2000))
			Expect(p.Acceleration()).To(beNear(vec(0, 1000)))
			p.ApplyForce(vec(4, 0))
			Expect(p.Acceleration()).To(beNear(vec(2, 1000)))
		})
	})

	Describe("Integrate", func() {
		It("moves by acc*dt² from rest and clears acceleration", func() {
			p := mustParticle(0, vec(0, 0), 1, 2)
			p.ApplyForce(vec(0, 2000))
			p.Integrate(0.01)
			Expect(p.Position()).To(beNear(vec(0, 0.1)))
			Expect(p.PreviousPosition()).To(Equal(vec(0, 0)))
			Expect(p.Acceleration()).To(Equal(dynamo.Vec2{}))
		})

		It("keeps constant velocity without forces", func() {
			p := mustParticle(0, vec(10, 10), 1, 1)
			p.SetPreviousPosition(vec(9, 10.5))

			twoAgo := p.PreviousPosition()
			before := p.Position()
			p.Integrate(0.016)
			Expect(p.Position().Sub(before)).To(beNear(before.Sub(twoAgo)))

			prev := p.Position()
			p.Integrate(0.016)
			Expect(p.Position().Sub(prev)).To(beNear(vec(1, -0.5)))
		})

		It("derives velocity from SetVelocity", func() {
			p := mustParticle(0, vec(0, 0), 1, 1)
			p.SetVelocity(vec(2, -1))
			p.Integrate(1)
			Expect(p.Position()).To(beNear(vec(2, -1)))
		})
	})

	Describe("IsColliding", func() {
		DescribeTable("uses strict overlap",
			func(bx float64, want bool) {
				a := mustParticle(0, vec(0, 0), 5, 1)
				b := mustParticle(1, vec(bx, 0), 5, 1)
				Expect(a.IsColliding(&b)).To(Equal(want))
				Expect(b.IsColliding(&a)).To(Equal(want))
			},
			Entry("overlapping", 6.0, true),
			Entry("touching edges", 10.0, false),
			Entry("apart", 12.0, false),
		)
	})

	Describe("IsSameAs", func() {
		It("compares ids, not instances", func() {
			a := mustParticle(7, vec(0, 0), 1, 1)
			b := mustParticle(7, vec(50, 50), 3, 9)
			c := mustParticle(8, vec(0, 0), 1, 1)
			Expect(a.IsSameAs(&b)).To(BeTrue())
			Expect(a.IsSameAs(&c)).To(BeFalse())
		})
	})
})
