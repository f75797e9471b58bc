package dtn

import (
	"math/rand/v2"

	"github.com/sarchlab/dtnsim/sim"
)

// TrafficGenerator creates messages between random node pairs at a fixed
// interval.
type TrafficGenerator struct {
	rng      *rand.Rand
	interval sim.VTimeInSec
	minSize  int
	maxSize  int
	ttl      sim.VTimeInSec

	next sim.VTimeInSec
}

// NewTrafficGenerator creates a generator. The first message is created at
// the first tick.
func NewTrafficGenerator(
	rng *rand.Rand,
	interval sim.VTimeInSec,
	minSize, maxSize int,
	ttl sim.VTimeInSec,
) *TrafficGenerator {
	return &TrafficGenerator{
		rng:      rng,
		interval: interval,
		minSize:  minSize,
		maxSize:  maxSize,
		ttl:      ttl,
	}
}

// Generate returns the messages due at now.
func (g *TrafficGenerator) Generate(now sim.VTimeInSec, nodes []*Node) []*Message {
	if len(nodes) < 2 || g.interval <= 0 {
		return nil
	}

	var msgs []*Message
	for g.next <= now {
		src := g.rng.IntN(len(nodes))
		dst := g.rng.IntN(len(nodes) - 1)
		if dst >= src {
			dst++
		}

		size := g.minSize
		if g.maxSize > g.minSize {
			size += g.rng.IntN(g.maxSize - g.minSize + 1)
		}

		id := "M" + sim.GetIDGenerator().Generate()
		msgs = append(msgs, NewMessage(id,
			nodes[src].name, nodes[dst].name, size, now, g.ttl))

		g.next += g.interval
	}

	return msgs
}
