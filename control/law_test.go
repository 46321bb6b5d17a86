package control

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Laws", func() {
	var p Params

	next := func(law Law, current uint32, worst float64) uint32 {
		v, _, err := Next(law, current, worst, p, InitialBounds(p))
		Expect(err).NotTo(HaveOccurred())

		return v
	}

	BeforeEach(func() {
		p = Params{
			Step:           1000,
			Minimum:        1600,
			MaxSize:        65535,
			Aggressiveness: 10,
			Budget:         0.02,
		}
	})

	Context("linear", func() {
		It("should decrease by aggressiveness times step over budget", func() {
			Expect(next(LawLinear, 50000, 0.05)).To(Equal(uint32(40000)))
		})

		It("should not go below the minimum", func() {
			Expect(next(LawLinear, 5000, 0.05)).To(Equal(uint32(1600)))
		})

		It("should increase by one step under budget", func() {
			Expect(next(LawLinear, 50000, 0.01)).To(Equal(uint32(51000)))
		})

		It("should not go above the maximum", func() {
			Expect(next(LawLinear, 65000, 0.01)).To(Equal(uint32(65535)))
		})

		It("should treat a delay at the budget as within budget", func() {
			Expect(next(LawLinear, 50000, 0.02)).To(Equal(uint32(51000)))
		})
	})

	Context("drastic decrease", func() {
		It("should snap to the minimum over budget", func() {
			Expect(next(LawDrasticDecrease, 50000, 0.05)).To(Equal(uint32(1600)))
		})

		It("should increase by two steps under budget", func() {
			Expect(next(LawDrasticDecrease, 50000, 0.01)).To(Equal(uint32(52000)))
		})
	})

	Context("halve gap", func() {
		It("should halve the distance to the minimum over budget", func() {
			Expect(next(LawHalveGap, 50000, 0.05)).To(Equal(uint32(24200)))
		})

		It("should clamp small results to the minimum", func() {
			Expect(next(LawHalveGap, 3000, 0.05)).To(Equal(uint32(1600)))
		})

		It("should move halfway to the maximum under budget", func() {
			Expect(next(LawHalveGap, 50000, 0.01)).To(Equal(uint32(57768)))
		})

		It("should stay at the maximum", func() {
			Expect(next(LawHalveGap, 65535, 0.01)).To(Equal(uint32(65535)))
		})
	})

	Context("geometric", func() {
		It("should double under budget", func() {
			Expect(next(LawGeometric, 1000, 0.01)).To(Equal(uint32(2000)))
		})

		It("should shrink over budget", func() {
			Expect(next(LawGeometric, 10000, 0.05)).To(Equal(uint32(6180)))
		})

		It("should shrink when the delay equals the budget", func() {
			Expect(next(LawGeometric, 10000, 0.02)).To(Equal(uint32(6180)))
		})

		It("should not shrink below the minimum", func() {
			Expect(next(LawGeometric, 2000, 0.05)).To(Equal(uint32(1600)))
		})

		It("should not double past the maximum", func() {
			Expect(next(LawGeometric, 40000, 0.01)).To(Equal(uint32(65535)))
		})
	})

	Context("bisection", func() {
		It("should lower both bounds over budget", func() {
			v, b, err := Next(LawBisection, 30000, 0.05, p, InitialBounds(p))

			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(Bounds{LastBelowBudget: 1600, LastAboveBudget: 64535}))
			Expect(v).To(Equal(uint32(33068)))
		})

		It("should raise both bounds well under budget", func() {
			v, b, err := Next(LawBisection, 30000, 0.01, p, InitialBounds(p))

			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(Bounds{LastBelowBudget: 2600, LastAboveBudget: 65535}))
			Expect(v).To(Equal(uint32(34068)))
		})

		It("should hold near the budget", func() {
			start := Bounds{LastBelowBudget: 5000, LastAboveBudget: 9000}

			v, b, err := Next(LawBisection, 30000, 0.0195, p, start)

			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(start))
			Expect(v).To(Equal(uint32(30000)))
		})

		It("should keep moving across ticks", func() {
			b := InitialBounds(p)
			v := uint32(65535)

			for i := 0; i < 100; i++ {
				var err error
				v, b, err = Next(LawBisection, v, 0.05, p, b)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(b.LastAboveBudget).To(Equal(uint32(1600)))
			Expect(v).To(Equal(uint32(1600)))
		})
	})

	Context("drastic increase", func() {
		It("should decrease linearly over budget", func() {
			Expect(next(LawDrasticIncrease, 50000, 0.05)).To(Equal(uint32(40000)))
		})

		It("should snap to the maximum under budget", func() {
			Expect(next(LawDrasticIncrease, 2000, 0.01)).To(Equal(uint32(65535)))
		})
	})

	It("should keep every result within range", func() {
		currents := []uint32{0, 1, 1599, 1600, 1601, 30000, 65534, 65535, 70000}
		delays := []float64{0, 0.0195, 0.02, 0.021, 0.05, 10}
		bounds := []Bounds{
			InitialBounds(p),
			{LastBelowBudget: 1600, LastAboveBudget: 1600},
			{LastBelowBudget: 65535, LastAboveBudget: 65535},
		}

		for _, law := range Laws {
			for _, c := range currents {
				for _, d := range delays {
					for _, b := range bounds {
						v, _, err := Next(law, c, d, p, b)

						Expect(err).NotTo(HaveOccurred())
						Expect(v).To(And(
							BeNumerically(">=", p.Minimum),
							BeNumerically("<=", p.MaxSize),
						), "law %s, current %d, delay %f", law, c, d)
					}
				}
			}
		}
	})

	It("should reject unknown laws", func() {
		_, _, err := Next(Law(6), 1, 0, p, InitialBounds(p))
		Expect(err).To(MatchError(ErrUnknownLaw))

		_, err = ParseLaw(-1)
		Expect(err).To(MatchError(ErrUnknownLaw))
	})

	It("should parse selectors", func() {
		law, err := ParseLaw(4)

		Expect(err).NotTo(HaveOccurred())
		Expect(law).To(Equal(LawBisection))
		Expect(law.String()).To(Equal("bisection"))
		Expect(law.Description()).NotTo(BeEmpty())
	})
})
