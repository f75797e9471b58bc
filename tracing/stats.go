// Package tracing collects what happens in a DTN world through hooks.
package tracing

import (
	"sync"

	"github.com/sarchlab/dtnsim/dtn"
	"github.com/sarchlab/dtnsim/sim"
)

// Stats is a snapshot of the message statistics of a simulation.
type Stats struct {
	Created   int `json:"created"`
	Started   int `json:"started"`
	Relayed   int `json:"relayed"`
	Aborted   int `json:"aborted"`
	Dropped   int `json:"dropped"`
	Delivered int `json:"delivered"`

	DeliveryProb float64 `json:"delivery_prob"`
	Overhead     float64 `json:"overhead"`
	LatencyAvg   float64 `json:"latency_avg"`
	HopCountAvg  float64 `json:"hop_count_avg"`
}

// StatsCollector is a hook that counts message events raised by a world.
type StatsCollector struct {
	lock sync.Mutex

	created, started, relayed int
	aborted, dropped          int
	delivered                 int

	totalLatency sim.VTimeInSec
	totalHops    int
}

// NewStatsCollector creates a StatsCollector with all counters at zero.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{}
}

// Func updates the counters.
func (c *StatsCollector) Func(ctx sim.HookCtx) {
	c.lock.Lock()
	defer c.lock.Unlock()

	switch ctx.Pos {
	case dtn.HookPosMessageCreated:
		c.created++
	case dtn.HookPosTransferStarted:
		c.started++
	case dtn.HookPosTransferDone:
		c.relayed++
	case dtn.HookPosTransferAborted:
		c.aborted++
	case dtn.HookPosMessageDropped:
		c.dropped++
	case dtn.HookPosMessageDelivered:
		msg := ctx.Item.(*dtn.Message)
		c.delivered++
		c.totalLatency += ctx.Now - msg.CreatedAt()
		c.totalHops += msg.Hops()
	}
}

// Stats returns the current statistics. Ratios are zero while their
// denominator is zero.
func (c *StatsCollector) Stats() Stats {
	c.lock.Lock()
	defer c.lock.Unlock()

	s := Stats{
		Created:   c.created,
		Started:   c.started,
		Relayed:   c.relayed,
		Aborted:   c.aborted,
		Dropped:   c.dropped,
		Delivered: c.delivered,
	}

	if c.created > 0 {
		s.DeliveryProb = float64(c.delivered) / float64(c.created)
	}

	if c.delivered > 0 {
		s.Overhead = float64(c.relayed-c.delivered) / float64(c.delivered)
		s.LatencyAvg = float64(c.totalLatency) / float64(c.delivered)
		s.HopCountAvg = float64(c.totalHops) / float64(c.delivered)
	}

	return s
}
