package dtn

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/paulmach/orb"

	"github.com/sarchlab/dtnsim/geo"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

var _ = Describe("RandomWaypoint", func() {
	area := geo.Area{Width: 200, Height: 100}

	It("should know the next waypoints", func() {
		m := NewRandomWaypoint(newRand(3), area, 1, 2, 4)

		Expect(m.Path()).To(HaveLen(4))
		for _, p := range m.Path() {
			Expect(area.Contains(p)).To(BeTrue())
		}
	})

	It("should not move faster than the max speed", func() {
		m := NewRandomWaypoint(newRand(4), area, 1, 3, 2)

		for i := 0; i < 500; i++ {
			before := m.Location()
			m.Move(0.5)
			Expect(geo.Distance(before, m.Location())).
				To(BeNumerically("<=", 1.5+1e-9))
			Expect(area.Contains(m.Location())).To(BeTrue())
			Expect(m.Path()).To(HaveLen(2))
		}
	})

	It("should head to the first waypoint", func() {
		m := NewRandomWaypoint(newRand(5), area, 1, 1, 1)
		target := m.Path()[0]
		before := geo.Distance(m.Location(), target)

		m.Move(0.1)

		if before > 0.1 {
			Expect(geo.Distance(m.Location(), target)).
				To(BeNumerically("~", before-0.1, 1e-9))
		}
	})
})

var _ = Describe("Stationary", func() {
	It("should have no path", func() {
		s := NewStationary(orb.Point{1, 2})
		s.Move(10)

		Expect(s.Location()).To(Equal(orb.Point{1, 2}))
		Expect(s.Path()).To(BeNil())
	})
})

var _ = Describe("TrafficGenerator", func() {
	It("should create messages at a fixed interval", func() {
		nodes := []*Node{{name: "A"}, {name: "B"}, {name: "C"}}
		g := NewTrafficGenerator(newRand(9), 10, 5, 8, 100)

		first := g.Generate(0, nodes)
		Expect(first).To(HaveLen(1))

		Expect(g.Generate(9, nodes)).To(BeEmpty())

		later := g.Generate(25, nodes)
		Expect(later).To(HaveLen(2))

		for _, m := range append(first, later...) {
			Expect(m.Source()).NotTo(Equal(m.Destination()))
			Expect(m.Size()).To(BeNumerically(">=", 5))
			Expect(m.Size()).To(BeNumerically("<=", 8))
		}
	})

	It("should need at least two nodes", func() {
		g := NewTrafficGenerator(newRand(9), 10, 5, 8, 100)
		Expect(g.Generate(0, []*Node{{name: "A"}})).To(BeEmpty())
	})
})
