package physics_test

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
)

type recordingLogger struct {
	dynamo.NoOpLogger
	debug []string
}

func (r *recordingLogger) Debugf(format string, v ...any) {
	r.debug = append(r.debug, fmt.Sprintf(format, v...))
}

var _ = Describe("System", func() {
	var sys *physics.System

	BeforeEach(func() {
		sys = physics.NewSystem(mustBoundary(vec(0, 0), 1000))
	})

	It("defaults to downward gravity", func() {
		Expect(sys.Gravity()).To(Equal(physics.DefaultGravity))
		Expect(sys.Len()).To(BeZero())
	})

	Describe("Add", func() {
		It("offsets ids from the template id", func() {
			ids, err := sys.Add(mustParticle(10, vec(0, 0), 5, 1), 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]uint64{10, 11, 12}))
			Expect(sys.Len()).To(Equal(3))
			Expect(sys.NextID()).To(Equal(uint64(13)))
		})

		It("never repeats ids across calls", func() {
			_, err := sys.Add(mustParticle(0, vec(0, 0), 5, 1), 4)
			Expect(err).NotTo(HaveOccurred())
			ids, err := sys.Add(mustParticle(1, vec(0, 0), 5, 1), 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]uint64{4, 5}))

			seen := map[uint64]bool{}
			for _, p := range sys.Particles() {
				Expect(seen).NotTo(HaveKey(p.ID()))
				seen[p.ID()] = true
			}
		})

		It("adds nothing for a non-positive count", func() {
			ids, err := sys.Add(mustParticle(0, vec(0, 0), 5, 1), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(BeEmpty())
			Expect(sys.Len()).To(BeZero())
		})

		It("rejects an invalid template", func() {
			p := mustParticle(0, vec(0, 0), 5, 1)
			p.SetMass(0)
			_, err := sys.Add(p, 1)
			Expect(err).To(MatchError(dynamo.ErrInvalidMass))
			Expect(sys.Len()).To(BeZero())
		})

		It("refuses to wrap the id counter", func() {
			ids, err := sys.Add(mustParticle(math.MaxUint64-1, vec(0, 0), 5, 1), 3)
			Expect(err).To(MatchError(dynamo.ErrIDSpaceExhausted))
			Expect(ids).To(BeEmpty())
			Expect(sys.Len()).To(BeZero())

			ids, err = sys.Add(mustParticle(math.MaxUint64-1, vec(0, 0), 5, 1), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal([]uint64{math.MaxUint64 - 1}))

			_, err = sys.Add(mustParticle(0, vec(0, 0), 5, 1), 1)
			Expect(err).To(MatchError(dynamo.ErrIDSpaceExhausted))
			Expect(sys.Len()).To(Equal(1))
		})

		It("treats a negative capacity as zero", func() {
			s := physics.NewSystem(mustBoundary(vec(0, 0), 100), physics.WithCapacity(-1))
			_, err := s.Add(mustParticle(0, vec(0, 0), 5, 1), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Len()).To(Equal(1))
		})

		It("keeps insertion order", func() {
			_, _ = sys.Add(mustParticle(0, vec(1, 0), 5, 1), 1)
			_, _ = sys.Add(mustParticle(0, vec(2, 0), 5, 1), 1)
			ps := sys.Particles()
			Expect(ps[0].Position().X).To(Equal(1.0))
			Expect(ps[1].Position().X).To(Equal(2.0))
		})
	})

	Describe("Step", func() {
		It("applies forces, collisions and integration in collection order", func() {
			sys.SetGravity(vec(0, 100))
			_, _ = sys.Add(mustParticle(0, vec(0, 0), 5, 1), 1)
			_, _ = sys.Add(mustParticle(0, vec(8, 0), 5, 1), 1)

			sys.Step(0.1)

			ps := sys.Particles()
			Expect(ps[0].Position()).To(beNear(vec(-1, 1)))
			Expect(ps[0].PreviousPosition()).To(beNear(vec(-1, 0)))
			Expect(ps[1].Position()).To(beNear(vec(9, 1)))
			Expect(ps[1].PreviousPosition()).To(beNear(vec(9, 0)))

			stats := sys.Stats()
			Expect(stats.Steps).To(Equal(uint64(1)))
			Expect(stats.Collisions).To(Equal(uint64(1)))
		})

		It("falls freely without partners", func() {
			_, _ = sys.Add(mustParticle(0, vec(0, 0), 5, 2), 1)
			sys.SetGravity(vec(0, 2000))
			sys.Step(0.01)
			Expect(sys.Particles()[0].Position()).To(beNear(vec(0, 0.1)))
		})

		It("keeps particles inside the boundary", func() {
			small := physics.NewSystem(mustBoundary(vec(0, 0), 50))
			for i := 0; i < 20; i++ {
				_, err := small.Add(mustParticle(0, vec(float64(i%5)*3-6, float64(i/5)*3), 4, 1), 1)
				Expect(err).NotTo(HaveOccurred())
			}
			for i := 0; i < 300; i++ {
				small.Step(1.0 / 60)
			}
			b := small.Boundary()
			for _, p := range small.Particles() {
				Expect(p.Position().IsValid()).To(BeTrue())
				Expect(b.Contains(&p, 10)).To(BeTrue())
			}
		})

		It("never resolves a particle against itself", func() {
			sys.SetGravity(dynamo.Vec2{})
			_, _ = sys.Add(mustParticle(0, vec(3, 3), 5, 1), 1)
			sys.Step(0.01)
			Expect(sys.Stats().Collisions).To(BeZero())
			Expect(sys.Particles()[0].Position()).To(Equal(vec(3, 3)))
		})

		It("never resolves two particles that share an id", func() {
			sys.SetGravity(dynamo.Vec2{})
			_, _ = sys.Add(mustParticle(0, vec(0, 0), 5, 1), 1)
			_, _ = sys.Add(mustParticle(0, vec(6, 0), 5, 1), 1)
			sys.Particle(1).SetID(sys.Particle(0).ID())

			sys.Step(0.01)

			Expect(sys.Stats().Collisions).To(BeZero())
			ps := sys.Particles()
			Expect(ps[0].Position()).To(Equal(vec(0, 0)))
			Expect(ps[1].Position()).To(Equal(vec(6, 0)))
		})

		It("skips and logs coincident pairs", func() {
			logger := &recordingLogger{}
			sys = physics.NewSystem(mustBoundary(vec(0, 0), 1000),
				physics.WithGravity(dynamo.Vec2{}),
				physics.WithLogger(logger),
			)
			_, _ = sys.Add(mustParticle(0, vec(5, 5), 5, 1), 2)

			sys.Step(0.01)

			Expect(sys.Stats().DegenerateSkips).To(Equal(uint64(2)))
			Expect(logger.debug).To(ContainElement(ContainSubstring("skipping pair")))
			_, bad := sys.InvalidParticle()
			Expect(bad).To(BeFalse())
			for _, p := range sys.Particles() {
				Expect(p.Position()).To(Equal(vec(5, 5)))
			}
		})
	})

	It("snapshots positions for rendering", func() {
		_, _ = sys.Add(mustParticle(4, vec(1, 2), 3, 1), 1)
		f := sys.Snapshot()
		Expect(f.Boundary.Radius).To(Equal(1000.0))
		Expect(f.Particles).To(HaveLen(1))
		Expect(f.Particles[0]).To(Equal(physics.ParticleView{ID: 4, X: 1, Y: 2, Radius: 3, Color: "#ffffff"}))
	})

	It("resets to an empty scene", func() {
		_, _ = sys.Add(mustParticle(0, vec(0, 0), 5, 1), 3)
		sys.Step(0.01)
		sys.Reset()
		Expect(sys.Len()).To(BeZero())
		Expect(sys.NextID()).To(BeZero())
		Expect(sys.Stats()).To(Equal(physics.Stats{}))
	})

	It("reports non-finite positions", func() {
		_, _ = sys.Add(mustParticle(0, vec(0, 0), 5, 1), 1)
		_, bad := sys.InvalidParticle()
		Expect(bad).To(BeFalse())

		_, _ = sys.Add(mustParticle(9, vec(math.NaN(), 0), 5, 1), 1)
		id, bad := sys.InvalidParticle()
		Expect(bad).To(BeTrue())
		Expect(id).To(Equal(uint64(9)))
	})
})
