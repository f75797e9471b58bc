package routing

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownStrategy is returned when no strategy is registered under a name.
var ErrUnknownStrategy = errors.New("unknown forwarding strategy")

// A ForwardingStrategy makes the forwarding decisions of one node.
type ForwardingStrategy interface {
	Name() string

	// Update runs one decision cycle for the host.
	Update(host Host)
}

// Factory creates a fresh strategy instance. Every node gets its own.
type Factory func() ForwardingStrategy

var (
	registryLock sync.RWMutex
	registry     = make(map[string]Factory)
)

// Register makes a strategy available under name. Registering the same name
// twice panics.
func Register(name string, f Factory) {
	registryLock.Lock()
	defer registryLock.Unlock()

	if _, found := registry[name]; found {
		panic("forwarding strategy " + name + " already registered")
	}

	registry[name] = f
}

// New creates the strategy registered under name.
func New(name string) (ForwardingStrategy, error) {
	registryLock.RLock()
	f, found := registry[name]
	registryLock.RUnlock()

	if !found {
		return nil, fmt.Errorf("%w: %q (available: %v)",
			ErrUnknownStrategy, name, Names())
	}

	return f(), nil
}

// Names lists the registered strategies in alphabetical order.
func Names() []string {
	registryLock.RLock()
	defer registryLock.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// prepareCycle runs the steps shared by all strategies. It returns false if
// the cycle must end, either because no transfer can start now or because a
// direct delivery was started.
func prepareCycle(host Host) bool {
	if host.IsTransferring() || !host.CanStartTransfer() {
		return false
	}

	if host.ExchangeDeliverableMessages() {
		return false
	}

	return true
}
