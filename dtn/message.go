// Package dtn simulates delay-tolerant network nodes that move around, meet
// each other and relay messages according to a routing.ForwardingStrategy.
package dtn

import (
	"github.com/sarchlab/dtnsim/sim"
)

// Message is an application message travelling through the network. Every
// node holds its own copy.
type Message struct {
	id          string
	source      string
	destination string
	size        int
	createdAt   sim.VTimeInSec
	ttl         sim.VTimeInSec
	hops        int
	receivedAt  sim.VTimeInSec
}

// NewMessage creates a message at its source node. A zero ttl means the
// message never expires.
func NewMessage(
	id, source, destination string,
	size int,
	now, ttl sim.VTimeInSec,
) *Message {
	return &Message{
		id:          id,
		source:      source,
		destination: destination,
		size:        size,
		createdAt:   now,
		ttl:         ttl,
		receivedAt:  now,
	}
}

// ID returns the message ID, shared by all copies.
func (m *Message) ID() string { return m.id }

// Source returns the name of the node that created the message.
func (m *Message) Source() string { return m.source }

// Destination returns the name of the final recipient.
func (m *Message) Destination() string { return m.destination }

// Size returns the message size in bytes.
func (m *Message) Size() int { return m.size }

// CreatedAt returns the creation time.
func (m *Message) CreatedAt() sim.VTimeInSec { return m.createdAt }

// ReceivedAt returns when this copy arrived at its current holder.
func (m *Message) ReceivedAt() sim.VTimeInSec { return m.receivedAt }

// Hops returns how many transfers this copy went through.
func (m *Message) Hops() int { return m.hops }

// IsExpired tells if the message outlived its TTL.
func (m *Message) IsExpired(now sim.VTimeInSec) bool {
	return m.ttl > 0 && now-m.createdAt > m.ttl
}

func (m *Message) replicate(now sim.VTimeInSec) *Message {
	c := *m
	c.hops++
	c.receivedAt = now

	return &c
}
