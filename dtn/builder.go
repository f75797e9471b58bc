package dtn

import (
	"math"

	"github.com/sarchlab/dtnsim/geo"
	"github.com/sarchlab/dtnsim/sim"
)

// Builder can build worlds.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	area       geo.Area
	radioRange float64
	bandwidth  float64
	endTime    sim.VTimeInSec
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:       1 * sim.Hz,
		area:       geo.Area{Width: 1000, Height: 1000},
		radioRange: 10,
		bandwidth:  math.Inf(1),
		endTime:    3600,
	}
}

// WithEngine sets the engine that drives the world.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets how often the world ticks.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithArea sets the area nodes move in.
func (b Builder) WithArea(area geo.Area) Builder {
	b.area = area
	return b
}

// WithRadioRange sets the distance within which two nodes are connected.
func (b Builder) WithRadioRange(r float64) Builder {
	b.radioRange = r
	return b
}

// WithBandwidth sets the link speed in bytes per second. A speed of 0 or less
// means unlimited, which is also the default: transfers finish at the next
// tick.
func (b Builder) WithBandwidth(bytesPerSec float64) Builder {
	if bytesPerSec <= 0 {
		bytesPerSec = math.Inf(1)
	}

	b.bandwidth = bytesPerSec

	return b
}

// WithEndTime sets the time the world stops ticking.
func (b Builder) WithEndTime(t sim.VTimeInSec) Builder {
	b.endTime = t
	return b
}

// Build creates a world.
func (b Builder) Build(name string) *World {
	if b.engine == nil {
		panic("dtn: world requires an engine")
	}

	w := &World{
		area:       b.area,
		radioRange: b.radioRange,
		bandwidth:  b.bandwidth,
		endTime:    b.endTime,
		nodeIndex:  make(map[string]*Node),
		conns:      make(map[[2]int]*Connection),
	}
	w.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, w)

	return w
}
