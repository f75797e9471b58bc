package dtn

import (
	"github.com/paulmach/orb"

	"github.com/sarchlab/dtnsim/routing"
)

// Node is a mobile DTN node. It is the routing.Host its forwarding strategy
// makes decisions for.
type Node struct {
	name     string
	world    *World
	mobility Mobility
	buffer   *MessageBuffer
	conns    []*Connection
	router   routing.ForwardingStrategy

	received map[string]bool
}

// Name returns the name of the node.
func (n *Node) Name() string { return n.name }

// Location returns the current position.
func (n *Node) Location() orb.Point { return n.mobility.Location() }

// Path returns the waypoints the node is heading to, or nil if unknown.
func (n *Node) Path() orb.LineString { return n.mobility.Path() }

// NumConnections returns the number of live connections.
func (n *Node) NumConnections() int { return len(n.conns) }

// NumMessages returns the number of buffered messages.
func (n *Node) NumMessages() int { return n.buffer.Len() }

// Buffer returns the message buffer of the node.
func (n *Node) Buffer() *MessageBuffer { return n.buffer }

// Router returns the forwarding strategy of the node.
func (n *Node) Router() routing.ForwardingStrategy { return n.router }

// LiveConnections returns the connections of the node.
func (n *Node) LiveConnections() []*Connection {
	out := make([]*Connection, len(n.conns))
	copy(out, n.conns)

	return out
}

// HasReceived tells if the node has been handed the message as its final
// recipient.
func (n *Node) HasReceived(id string) bool {
	return n.received[id]
}

// Self returns the node itself.
func (n *Node) Self() routing.NodeView { return n }

// IsTransferring tells if any connection of the node is busy.
func (n *Node) IsTransferring() bool {
	for _, c := range n.conns {
		if c.IsBusy() {
			return true
		}
	}

	return false
}

// CanStartTransfer tells if the node has something to send and someone to
// send it to.
func (n *Node) CanStartTransfer() bool {
	return n.buffer.Len() > 0 && len(n.conns) > 0
}

// ExchangeDeliverableMessages starts sending the first message that a
// neighbor is the destination of.
func (n *Node) ExchangeDeliverableMessages() bool {
	for _, c := range n.conns {
		other := c.OtherNode(n)
		for _, m := range n.buffer.Messages() {
			if m.destination != other.name {
				continue
			}

			if n.world.startTransfer(n, m, c) {
				return true
			}
		}
	}

	return false
}

// Messages returns the buffered messages, oldest first.
func (n *Node) Messages() []routing.Message {
	msgs := n.buffer.Messages()

	out := make([]routing.Message, len(msgs))
	for i, m := range msgs {
		out[i] = m
	}

	return out
}

// Connections returns the live connections as seen from this node.
func (n *Node) Connections() []routing.Connection {
	out := make([]routing.Connection, len(n.conns))
	for i, c := range n.conns {
		out[i] = link{conn: c, self: n}
	}

	return out
}

// StartTransfer requests msg to be sent over conn. Requests that the node
// cannot serve are ignored.
func (n *Node) StartTransfer(msg routing.Message, conn routing.Connection) {
	l, ok := conn.(link)
	if !ok || l.self != n {
		return
	}

	m := n.buffer.Get(msg.ID())
	if m == nil {
		return
	}

	n.world.startTransfer(n, m, l.conn)
}

func (n *Node) isSending(m *Message) bool {
	for _, c := range n.conns {
		if c.transfer != nil && c.transfer.From == n &&
			c.transfer.Msg.id == m.id {
			return true
		}
	}

	return false
}

func (n *Node) addConnection(c *Connection) {
	n.conns = append(n.conns, c)
}

func (n *Node) removeConnection(c *Connection) {
	for i, existing := range n.conns {
		if existing == c {
			n.conns = append(n.conns[:i], n.conns[i+1:]...)
			return
		}
	}
}
