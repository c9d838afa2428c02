package fengine

import (
	"fmt"
	"sort"
	"sync"
)

var (
	connectorsMu sync.RWMutex
	connectors   = make(map[string]Connector)
)

// Register makes a board transport available under the given name, in the
// manner of database/sql drivers. Transport packages call Register from
// an init function; the CLI selects a transport by name.
func Register(name string, c Connector) {
	connectorsMu.Lock()
	defer connectorsMu.Unlock()
	if c == nil {
		panic("fengine: Register connector is nil")
	}
	if _, dup := connectors[name]; dup {
		panic("fengine: Register called twice for transport " + name)
	}
	connectors[name] = c
}

// Open returns the Connector registered under name.
func Open(name string) (Connector, error) {
	connectorsMu.RLock()
	defer connectorsMu.RUnlock()
	c, ok := connectors[name]
	if !ok {
		return nil, fmt.Errorf(
			"fengine: unknown transport %q (available: %v)",
			name, Transports())
	}
	return c, nil
}

// Transports lists the registered transport names in sorted order.
func Transports() []string {
	connectorsMu.RLock()
	defer connectorsMu.RUnlock()
	names := make([]string, 0, len(connectors))
	for name := range connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
