package routing

// DirectDeliveryName is the registered name of the DirectDeliveryRouter.
const DirectDeliveryName = "direct"

func init() {
	Register(DirectDeliveryName, func() ForwardingStrategy {
		return &DirectDeliveryRouter{}
	})
}

// DirectDeliveryRouter only hands messages to their final recipients.
type DirectDeliveryRouter struct{}

// Name returns the registered name of the router.
func (r *DirectDeliveryRouter) Name() string {
	return DirectDeliveryName
}

// Update runs one forwarding cycle for host.
func (r *DirectDeliveryRouter) Update(host Host) {
	prepareCycle(host)
}
