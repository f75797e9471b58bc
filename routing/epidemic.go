package routing

// EpidemicName is the registered name of the EpidemicRouter.
const EpidemicName = "epidemic"

func init() {
	Register(EpidemicName, func() ForwardingStrategy {
		return &EpidemicRouter{}
	})
}

// EpidemicRouter offers every message to every neighbor.
type EpidemicRouter struct{}

// Name returns the registered name of the router.
func (r *EpidemicRouter) Name() string {
	return EpidemicName
}

// Update runs one forwarding cycle for host.
func (r *EpidemicRouter) Update(host Host) {
	if !prepareCycle(host) {
		return
	}

	conns := host.Connections()
	for _, msg := range host.Messages() {
		for _, conn := range conns {
			host.StartTransfer(msg, conn)
		}
	}
}
