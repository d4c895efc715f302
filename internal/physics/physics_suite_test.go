package physics_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
)

func TestPhysics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Physics Suite")
}

const tol = 1e-9

func vec(x, y float64) dynamo.Vec2 { return dynamo.Vec2{X: x, Y: y} }

func mustParticle(id uint64, pos dynamo.Vec2, radius, mass float64) physics.Particle {
	p, err := physics.NewParticle(id, pos, radius, mass, "#ffffff")
	Expect(err).NotTo(HaveOccurred())
	return p
}

func mustBoundary(center dynamo.Vec2, radius float64) physics.Boundary {
	b, err := physics.NewBoundary(center, radius)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func beNear(v dynamo.Vec2) OmegaMatcher {
	return And(
		HaveField("X", BeNumerically("~", v.X, tol)),
		HaveField("Y", BeNumerically("~", v.Y, tol)),
	)
}
