// Package routing decides which buffered messages a DTN node hands to which
// of its current neighbors.
//
// A ForwardingStrategy runs once per node per tick. It sees the node only
// through the Host interface, so every decision is a function of what the
// host reports during that cycle.
package routing

import "github.com/paulmach/orb"

// NodeView is a read-only view of a node.
type NodeView interface {
	Name() string

	// NumConnections returns how many links the node currently has.
	NumConnections() int

	// NumMessages returns how many messages the node is buffering.
	NumMessages() int

	Location() orb.Point

	// Path returns the waypoints the node is going to visit, or nil when
	// they are not known.
	Path() orb.LineString
}

// A Connection is a live link seen from the local node.
type Connection interface {
	// Neighbor returns the endpoint that is not the local node.
	Neighbor() NodeView
}

// A Message is a buffered unit that can be forwarded.
type Message interface {
	ID() string
	Destination() string
}

// Host is the node a strategy makes decisions for.
type Host interface {
	Self() NodeView

	// IsTransferring tells if the node is in the middle of a transfer.
	IsTransferring() bool

	// CanStartTransfer tells if the node is able to start a new transfer at
	// all.
	CanStartTransfer() bool

	// ExchangeDeliverableMessages tries to hand messages directly to their
	// final recipients. It returns true if a transfer was started.
	ExchangeDeliverableMessages() bool

	Messages() []Message
	Connections() []Connection

	// StartTransfer requests a copy of msg to be sent over conn. Whether the
	// request is accepted is up to the host.
	StartTransfer(msg Message, conn Connection)
}
