package routing

import "github.com/sarchlab/dtnsim/geo"

// DistanceLoadName is the registered name of the DistanceLoadRouter.
const DistanceLoadName = "distanceload"

func init() {
	Register(DistanceLoadName, func() ForwardingStrategy {
		return NewDistanceLoadRouter()
	})
}

// DistanceLoadRouter forwards each message to the few neighbors that are
// closest to the local node along their future path and least loaded.
// Neighbors with a single connection are never used as relays.
type DistanceLoadRouter struct {
	candidates *CandidateSet
}

// NewDistanceLoadRouter creates a DistanceLoadRouter.
func NewDistanceLoadRouter() *DistanceLoadRouter {
	return &DistanceLoadRouter{
		candidates: NewCandidateSet(),
	}
}

// Name returns the registered name of the router.
func (r *DistanceLoadRouter) Name() string {
	return DistanceLoadName
}

// Update runs one forwarding cycle for host.
func (r *DistanceLoadRouter) Update(host Host) {
	if !prepareCycle(host) {
		return
	}

	self := host.Self()
	conns := host.Connections()

	for _, msg := range host.Messages() {
		r.selectCandidates(self, conns)

		for _, conn := range r.candidates.Connections() {
			host.StartTransfer(msg, conn)
		}
	}
}

func (r *DistanceLoadRouter) selectCandidates(
	self NodeView,
	conns []Connection,
) {
	r.candidates.Reset()

	for _, conn := range conns {
		neighbor := conn.Neighbor()
		if neighbor.NumConnections() <= 1 {
			continue
		}

		distance := geo.MinDistanceToPath(self.Location(), neighbor.Path())
		score := Goodness(distance, neighbor.NumMessages())
		r.candidates.Offer(conn, score)
	}
}
