package routing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dtnsim/geo"
)

var _ = Describe("Goodness", func() {
	It("should combine congestion and distance", func() {
		Expect(Goodness(0, 0)).To(BeNumerically("==", 2))
		Expect(Goodness(1, 1)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(Goodness(5, 2)).To(BeNumerically("~", 1.0/3+1.0/6, 1e-12))
	})

	It("should strictly decrease with distance", func() {
		for buf := 0; buf < 5; buf++ {
			prev := Goodness(0, buf)
			for _, d := range []float64{0.5, 1, 2, 10, 1e3, 1e6} {
				s := Goodness(d, buf)
				Expect(s).To(BeNumerically("<", prev))
				prev = s
			}
		}
	})

	It("should strictly decrease with buffer size", func() {
		for _, d := range []float64{0, 1, 7.5, 100} {
			prev := Goodness(d, 0)
			for buf := 1; buf < 50; buf++ {
				s := Goodness(d, buf)
				Expect(s).To(BeNumerically("<", prev))
				prev = s
			}
		}
	})

	It("should stay within (0, 2]", func() {
		for _, d := range []float64{0, 0.1, 3, 1e9} {
			for _, buf := range []int{0, 1, 100, 1 << 20} {
				s := Goodness(d, buf)
				Expect(s).To(BeNumerically(">", 0))
				Expect(s).To(BeNumerically("<=", 2))
			}
		}
	})

	It("should rank an unknown path below finite distances", func() {
		for _, buf := range []int{0, 3, 1000} {
			unknown := Goodness(geo.MaxDistance, buf)
			Expect(unknown).To(BeNumerically(">", 0))
			for _, d := range []float64{0, 1, 1e6, 1e12} {
				Expect(unknown).To(BeNumerically("<", Goodness(d, buf)))
			}
		}
	})

	It("should tie with an unknown path once the distance term rounds away", func() {
		Expect(Goodness(1e17, 0)).To(Equal(Goodness(geo.MaxDistance, 0)))
	})
})
