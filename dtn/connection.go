package dtn

import (
	"github.com/sarchlab/dtnsim/routing"
	"github.com/sarchlab/dtnsim/sim"
)

// Connection is an undirected radio link between two nodes. A connection
// carries at most one transfer at a time.
type Connection struct {
	a, b      *Node
	bandwidth float64
	up        bool
	upSince   sim.VTimeInSec
	transfer  *Transfer
}

// OtherNode returns the endpoint that is not n.
func (c *Connection) OtherNode(n *Node) *Node {
	if c.a == n {
		return c.b
	}

	return c.a
}

// Nodes returns both endpoints.
func (c *Connection) Nodes() (*Node, *Node) {
	return c.a, c.b
}

// IsUp tells if the nodes are still in range of each other.
func (c *Connection) IsUp() bool {
	return c.up
}

// UpSince returns when the link was established.
func (c *Connection) UpSince() sim.VTimeInSec {
	return c.upSince
}

// IsBusy tells if a transfer is using the connection.
func (c *Connection) IsBusy() bool {
	return c.transfer != nil
}

// Bandwidth returns the link speed in bytes per second.
func (c *Connection) Bandwidth() float64 {
	return c.bandwidth
}

// link is a connection seen from one of its endpoints.
type link struct {
	conn *Connection
	self *Node
}

func (l link) Neighbor() routing.NodeView {
	return l.conn.OtherNode(l.self)
}

// Transfer is a message copy moving over a connection.
type Transfer struct {
	Msg       *Message
	From, To  *Node
	Conn      *Connection
	StartTime sim.VTimeInSec
	DoneTime  sim.VTimeInSec
}
