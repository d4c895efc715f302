package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
)

var _ = Describe("Boundary", func() {
	It("rejects a non-positive radius", func() {
		_, err := physics.NewBoundary(vec(0, 0), 0)
		Expect(err).To(MatchError(dynamo.ErrInvalidRadius))
	})

	It("fits a drawing surface", func() {
		b, err := physics.BoundaryForSurface(1920, 1080)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Center()).To(Equal(vec(960, 540)))
		Expect(b.Radius()).To(Equal(540.0))
	})

	Describe("Contain", func() {
		var b physics.Boundary

		BeforeEach(func() {
			b = mustBoundary(vec(0, 0), 100)
		})

		It("pulls an escaping particle back to the edge", func() {
			p := mustParticle(0, vec(95, 0), 10, 1)
			corrected, err := b.Contain(&p)
			Expect(err).NotTo(HaveOccurred())
			Expect(corrected).To(BeTrue())
			Expect(p.Position()).To(Equal(vec(90, 0)))
			Expect(p.Position().Length()).To(Equal(90.0))
		})

		It("leaves previous position alone", func() {
			p := mustParticle(0, vec(95, 0), 10, 1)
			p.SetPreviousPosition(vec(93, 0))
			_, err := b.Contain(&p)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.PreviousPosition()).To(Equal(vec(93, 0)))
			Expect(p.Velocity()).To(beNear(vec(-3, 0)))
		})

		It("is a no-op inside", func() {
			p := mustParticle(0, vec(10, -20), 10, 1)
			corrected, err := b.Contain(&p)
			Expect(err).NotTo(HaveOccurred())
			Expect(corrected).To(BeFalse())
			Expect(p.Position()).To(Equal(vec(10, -20)))
		})

		It("is idempotent", func() {
			p := mustParticle(0, vec(-130, 170), 7, 1)
			_, err := b.Contain(&p)
			Expect(err).NotTo(HaveOccurred())
			first := p.Position()
			Expect(first.Length()).To(BeNumerically("~", 93, tol))

			_, err = b.Contain(&p)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Position()).To(beNear(first))
		})

		It("keeps the direction from an off-origin center", func() {
			off := mustBoundary(vec(50, 50), 20)
			p := mustParticle(0, vec(50, 100), 5, 1)
			_, err := off.Contain(&p)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Position()).To(beNear(vec(50, 65)))
		})

		It("reports a particle at the center that cannot fit", func() {
			p := mustParticle(0, vec(0, 0), 150, 1)
			corrected, err := b.Contain(&p)
			Expect(err).To(MatchError(dynamo.ErrDegenerateGeometry))
			Expect(corrected).To(BeFalse())
			Expect(p.Position()).To(Equal(vec(0, 0)))
		})
	})

	It("checks containment with tolerance", func() {
		b := mustBoundary(vec(0, 0), 100)
		p := mustParticle(0, vec(90.5, 0), 10, 1)
		Expect(b.Contains(&p, 0)).To(BeFalse())
		Expect(b.Contains(&p, 1)).To(BeTrue())
	})
})

var _ = Describe("ResolveCollision", func() {
	It("separates the reference pair symmetrically", func() {
		a := mustParticle(0, vec(0, 0), 5, 1)
		b := mustParticle(1, vec(6, 0), 5, 1)
		Expect(a.IsColliding(&b)).To(BeTrue())

		Expect(physics.ResolveCollision(&a, &b)).To(Succeed())
		Expect(b.Position().Sub(a.Position()).Length()).To(BeNumerically("~", 10, tol))
		Expect(a.Position()).To(beNear(vec(-2, 0)))
		Expect(b.Position()).To(beNear(vec(8, 0)))
		mid := a.Position().Add(b.Position()).Scale(0.5)
		Expect(mid).To(beNear(vec(3, 0)))
	})

	It("gives the same result regardless of argument order", func() {
		a1 := mustParticle(0, vec(1, 2), 4, 1)
		b1 := mustParticle(1, vec(3.5, 4), 6, 1)
		a2, b2 := a1, b1

		Expect(physics.ResolveCollision(&a1, &b1)).To(Succeed())
		Expect(physics.ResolveCollision(&b2, &a2)).To(Succeed())

		Expect(a1.Position()).To(beNear(a2.Position()))
		Expect(b1.Position()).To(beNear(b2.Position()))
	})

	It("separates to the radii sum at an angle", func() {
		a := mustParticle(0, vec(0, 0), 3, 1)
		b := mustParticle(1, vec(2, 2), 4, 1)
		Expect(physics.ResolveCollision(&a, &b)).To(Succeed())
		Expect(b.Position().Sub(a.Position()).Length()).To(BeNumerically("~", 7, tol))
	})

	It("cancels velocity on deep penetration", func() {
		a := mustParticle(0, vec(0, 0), 5, 1)
		b := mustParticle(1, vec(6, 0), 5, 1)
		a.SetVelocity(vec(1, 1))
		b.SetVelocity(vec(-1, 0))

		Expect(physics.ResolveCollision(&a, &b)).To(Succeed())
		Expect(a.Velocity()).To(Equal(dynamo.Vec2{}))
		Expect(b.Velocity()).To(Equal(dynamo.Vec2{}))
	})

	It("keeps velocity on shallow overlap", func() {
		a := mustParticle(0, vec(0, 0), 5, 1)
		b := mustParticle(1, vec(9.5, 0), 5, 1)
		a.SetVelocity(vec(0, 1))
		b.SetVelocity(vec(0, -1))
		prevA, prevB := a.PreviousPosition(), b.PreviousPosition()

		Expect(physics.ResolveCollision(&a, &b)).To(Succeed())
		Expect(a.PreviousPosition()).To(Equal(prevA))
		Expect(b.PreviousPosition()).To(Equal(prevB))
		Expect(a.Position()).To(beNear(vec(-0.25, 0)))
		Expect(b.Position()).To(beNear(vec(9.75, 0)))
	})

	It("skips coincident centers without producing NaN", func() {
		a := mustParticle(0, vec(4, 4), 5, 1)
		b := mustParticle(1, vec(4, 4), 5, 1)

		err := physics.ResolveCollision(&a, &b)
		Expect(err).To(MatchError(dynamo.ErrDegenerateGeometry))
		Expect(a.Position()).To(Equal(vec(4, 4)))
		Expect(b.Position()).To(Equal(vec(4, 4)))
		Expect(math.IsNaN(a.Position().X)).To(BeFalse())
	})
})
