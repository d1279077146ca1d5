// control/store.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with snapshot reads and reload listeners.

package control

import (
	"sync"
)

// ConfigStore holds the active Config.
type ConfigStore struct {
	mu        sync.RWMutex
	config    Config
	listeners []func(old, cur Config)
}

// NewConfigStore initializes a store with cfg.
func NewConfigStore(cfg Config) *ConfigStore {
	return &ConfigStore{config: cfg}
}

// Snapshot returns a copy of the active config.
func (cs *ConfigStore) Snapshot() Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.config
}

// Set replaces the config and runs every listener synchronously, in
// registration order, outside the lock.
func (cs *ConfigStore) Set(cfg Config) {
	cs.mu.Lock()
	old := cs.config
	cs.config = cfg
	listeners := append([]func(old, cur Config){}, cs.listeners...)
	cs.mu.Unlock()

	for _, fn := range listeners {
		fn(old, cfg)
	}
}

// OnReload registers a listener called on every Set.
func (cs *ConfigStore) OnReload(fn func(old, cur Config)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
