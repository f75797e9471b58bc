package dtn

import (
	"fmt"
	"math"

	"github.com/sarchlab/dtnsim/geo"
	"github.com/sarchlab/dtnsim/routing"
	"github.com/sarchlab/dtnsim/sim"
)

// World owns the nodes and everything between them: contacts, transfers and
// message generation. Every tick it moves the nodes, updates contacts,
// finishes transfers and then runs one forwarding cycle per node.
type World struct {
	*sim.TickingComponent

	area       geo.Area
	radioRange float64
	bandwidth  float64
	endTime    sim.VTimeInSec
	traffic    *TrafficGenerator

	nodes     []*Node
	nodeIndex map[string]*Node
	conns     map[[2]int]*Connection
	transfers []*Transfer
	lastTick  sim.VTimeInSec
}

// Nodes returns all the nodes in creation order.
func (w *World) Nodes() []*Node {
	out := make([]*Node, len(w.nodes))
	copy(out, w.nodes)

	return out
}

// Area returns the area the nodes move in.
func (w *World) Area() geo.Area {
	return w.area
}

// NodeByName returns the node with the name, or nil.
func (w *World) NodeByName(name string) *Node {
	return w.nodeIndex[name]
}

// Transfers returns the transfers in progress.
func (w *World) Transfers() []*Transfer {
	out := make([]*Transfer, len(w.transfers))
	copy(out, w.transfers)

	return out
}

// NumConnections returns the number of live connections.
func (w *World) NumConnections() int {
	return len(w.conns)
}

// EndTime returns the time the world stops ticking.
func (w *World) EndTime() sim.VTimeInSec {
	return w.endTime
}

// AddNode places a new node in the world.
func (w *World) AddNode(
	name string,
	mobility Mobility,
	bufferCapacity int,
	router routing.ForwardingStrategy,
) (*Node, error) {
	if _, found := w.nodeIndex[name]; found {
		return nil, fmt.Errorf("node %s already exists", name)
	}

	n := &Node{
		name:     name,
		world:    w,
		mobility: mobility,
		buffer:   NewMessageBuffer(bufferCapacity),
		router:   router,
		received: make(map[string]bool),
	}

	w.nodes = append(w.nodes, n)
	w.nodeIndex[name] = n

	return n, nil
}

// SetTraffic sets the generator that injects messages every tick.
func (w *World) SetTraffic(g *TrafficGenerator) {
	w.traffic = g
}

// CreateMessage puts a new message into the buffer of its source node.
func (w *World) CreateMessage(m *Message) error {
	src := w.nodeIndex[m.source]
	if src == nil {
		return fmt.Errorf("unknown source node %s", m.source)
	}

	if w.nodeIndex[m.destination] == nil {
		return fmt.Errorf("unknown destination node %s", m.destination)
	}

	w.invoke(HookPosMessageCreated, m, src)
	w.store(src, m)

	return nil
}

// Start schedules the first tick.
func (w *World) Start() {
	w.TickNow()
}

// Tick advances the world by one step. It returns false once the end time is
// reached, which stops the ticking.
func (w *World) Tick() bool {
	now := w.CurrentTime()
	dt := float64(now - w.lastTick)
	w.lastTick = now

	for _, n := range w.nodes {
		n.mobility.Move(dt)
	}

	w.updateContacts(now)
	w.finishTransfers(now)
	w.dropExpired(now)
	w.generateTraffic(now)

	for _, n := range w.nodes {
		if n.router != nil {
			n.router.Update(n)
		}
	}

	return now < w.endTime
}

func (w *World) updateContacts(now sim.VTimeInSec) {
	for i := 0; i < len(w.nodes); i++ {
		for j := i + 1; j < len(w.nodes); j++ {
			a, b := w.nodes[i], w.nodes[j]
			key := [2]int{i, j}
			inRange := geo.Distance(a.Location(), b.Location()) <= w.radioRange
			conn, connected := w.conns[key]

			switch {
			case inRange && !connected:
				w.connect(key, a, b, now)
			case !inRange && connected:
				w.disconnect(key, conn, now)
			}
		}
	}
}

func (w *World) connect(key [2]int, a, b *Node, now sim.VTimeInSec) {
	conn := &Connection{
		a:         a,
		b:         b,
		bandwidth: w.bandwidth,
		up:        true,
		upSince:   now,
	}

	w.conns[key] = conn
	a.addConnection(conn)
	b.addConnection(conn)

	w.invoke(HookPosContactUp, conn, nil)
}

func (w *World) disconnect(key [2]int, conn *Connection, now sim.VTimeInSec) {
	if t := conn.transfer; t != nil {
		conn.transfer = nil
		w.removeTransfer(t)
		w.invoke(HookPosTransferAborted, t, nil)
	}

	conn.up = false
	delete(w.conns, key)
	conn.a.removeConnection(conn)
	conn.b.removeConnection(conn)

	w.invoke(HookPosContactDown, conn, now-conn.upSince)
}

func (w *World) startTransfer(from *Node, m *Message, conn *Connection) bool {
	now := w.CurrentTime()
	to := conn.OtherNode(from)

	switch {
	case !conn.up, conn.IsBusy():
		return false
	case m.IsExpired(now):
		return false
	case to.received[m.id], to.buffer.Has(m.id):
		return false
	}

	duration := sim.VTimeInSec(0)
	if !math.IsInf(conn.bandwidth, 1) {
		duration = sim.VTimeInSec(float64(m.size) / conn.bandwidth)
	}

	t := &Transfer{
		Msg:       m,
		From:      from,
		To:        to,
		Conn:      conn,
		StartTime: now,
		DoneTime:  now + duration,
	}

	conn.transfer = t
	w.transfers = append(w.transfers, t)
	w.invoke(HookPosTransferStarted, t, nil)

	return true
}

func (w *World) finishTransfers(now sim.VTimeInSec) {
	pending := w.transfers[:0]
	var done []*Transfer

	for _, t := range w.transfers {
		if t.DoneTime <= now {
			done = append(done, t)
			continue
		}
		pending = append(pending, t)
	}
	w.transfers = pending

	for _, t := range done {
		t.Conn.transfer = nil
		w.completeTransfer(t, now)
	}
}

func (w *World) completeTransfer(t *Transfer, now sim.VTimeInSec) {
	copied := t.Msg.replicate(now)
	w.invoke(HookPosTransferDone, t, nil)

	if t.To.name == copied.destination {
		t.To.received[copied.id] = true
		w.invoke(HookPosMessageDelivered, copied, t)
		t.From.buffer.Remove(copied.id)

		return
	}

	w.store(t.To, copied)
}

func (w *World) store(n *Node, m *Message) {
	evicted, ok := n.buffer.Add(m, n.isSending)
	for _, victim := range evicted {
		w.invoke(HookPosMessageDropped, victim, DropEvicted)
	}

	if !ok {
		w.invoke(HookPosMessageDropped, m, DropNoCapacity)
	}
}

func (w *World) dropExpired(now sim.VTimeInSec) {
	for _, n := range w.nodes {
		for _, m := range n.buffer.Messages() {
			if m.IsExpired(now) && n.isSending(m) {
				w.abortSending(n, m)
			}
		}

		for _, m := range n.buffer.DropExpired(now) {
			w.invoke(HookPosMessageDropped, m, DropExpired)
		}
	}
}

func (w *World) abortSending(n *Node, m *Message) {
	for _, c := range n.conns {
		t := c.transfer
		if t == nil || t.From != n || t.Msg.id != m.id {
			continue
		}

		c.transfer = nil
		w.removeTransfer(t)
		w.invoke(HookPosTransferAborted, t, nil)
	}
}

func (w *World) generateTraffic(now sim.VTimeInSec) {
	if w.traffic == nil {
		return
	}

	for _, m := range w.traffic.Generate(now, w.nodes) {
		w.invoke(HookPosMessageCreated, m, w.nodeIndex[m.source])
		w.store(w.nodeIndex[m.source], m)
	}
}

func (w *World) removeTransfer(t *Transfer) {
	for i, existing := range w.transfers {
		if existing == t {
			w.transfers = append(w.transfers[:i], w.transfers[i+1:]...)
			return
		}
	}
}

func (w *World) invoke(pos *sim.HookPos, item, detail any) {
	if w.NumHooks() == 0 {
		return
	}

	w.InvokeHook(sim.HookCtx{
		Domain: w,
		Now:    w.CurrentTime(),
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}
