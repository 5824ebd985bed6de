package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/parallax/internal/sim"
)

var _ = Describe("Simulator loop", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		var err error
		s, err = sim.New(sim.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		s.SetPlaying(true)
	})

	DescribeTable("keeps the phase in [0, 2π) and Earth on its orbit",
		func(speed float64, frames int) {
			Expect(s.SetSpeed(speed)).To(Succeed())
			for i := 0; i < frames; i++ {
				f := s.Step()
				Expect(f.Phase).To(BeNumerically(">=", 0))
				Expect(f.Phase).To(BeNumerically("<", 2*math.Pi))
				Expect(r2.Norm(f.Earth)).To(BeNumerically("~", f.OrbitRadius, 1e-9))
			}
		},
		Entry("slowest", sim.MinSpeed, 5000),
		Entry("default", sim.DefaultSpeed, 2000),
		Entry("odd multiplier", 3.7, 2000),
		Entry("fastest", sim.MaxSpeed, 2000),
	)

	It("keeps parallax the reciprocal of distance while distances change", func() {
		for i, d := range []float64{0.5, 1, 2.5, 10, 33.3, 50} {
			Expect(s.SetDistance(sim.StarX, d)).To(Succeed())
			Expect(s.SetDistance(sim.StarY, 50.5-d)).To(Succeed())
			f := s.Step()
			Expect(f.Star(sim.StarX).Parallax*d).To(BeNumerically("~", 1, 1e-12), "step %d", i)
			Expect(f.Star(sim.StarY).Parallax*(50.5-d)).To(BeNumerically("~", 1, 1e-12), "step %d", i)
		}
	})

	It("sees a wider sightline angle for the nearer star", func() {
		f := s.Step()
		Expect(f.Sightlines[sim.StarX].Angle).To(BeNumerically(">", f.Sightlines[sim.StarY].Angle))
	})

	It("completes an orbit in about 2π/0.02 frames at 1x", func() {
		var wraps int
		prev := s.Phase()
		for i := 0; i < 1000; i++ {
			f := s.Step()
			if f.Phase < prev {
				wraps++
			}
			prev = f.Phase
		}
		// 1000 / 314.16 ≈ 3.18 orbits
		Expect(wraps).To(Equal(3))
	})

	Context("when paused", func() {
		BeforeEach(func() { s.SetPlaying(false) })

		It("holds Earth still but keeps counting frames", func() {
			before := s.Frame()
			for i := 0; i < 10; i++ {
				s.Step()
			}
			after := s.Frame()
			Expect(after.Earth).To(Equal(before.Earth))
			Expect(after.Index).To(Equal(before.Index + 10))
		})

		It("resumes from the same phase after toggling", func() {
			phase := s.Phase()
			Expect(s.TogglePlaying()).To(BeTrue())
			f := s.Step()
			Expect(f.Phase).To(BeNumerically("~", phase+sim.PhaseIncrement, 1e-12))
		})
	})
})
