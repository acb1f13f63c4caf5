// Package transport opens CAN buses behind the canopen.Bus contract.
// Adapters register themselves under an interface name so deployments
// can select one from configuration.
package transport

import (
	"fmt"
	"sync"

	"github.com/skidworks/canopen"
)

// Factory opens a named channel of one adapter.
type Factory func(channel string) (canopen.Bus, error)

var (
	factoriesMu sync.Mutex
	factories   = map[string]Factory{}
)

// Register makes an adapter available under an interface name.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// Open creates a bus on the named adapter.
func Open(name string, channel string) (canopen.Bus, error) {
	factoriesMu.Lock()
	factory, ok := factories[name]
	factoriesMu.Unlock()

	if !ok {
		return nil, fmt.Errorf("transport: unknown interface %q", name)
	}

	return factory(channel)
}
