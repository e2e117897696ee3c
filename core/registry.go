package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hoja-dev/hoja/input"
)

// Encoder turns canonical frames into one protocol's reports. Transport
// handshakes, timeouts and cancellation live behind this interface.
type Encoder interface {
	// Start brings the protocol up. A failing Start leaves nothing to shut down.
	Start() error
	// Encode consumes one frame. It is never called concurrently.
	Encode(f input.Frame) error
	// Shutdown returns once the protocol has stopped using frames.
	Shutdown() error
}

// Factory creates a fresh encoder for one activation of a mode.
type Factory func() (Encoder, error)

// Registry maps operational modes to encoder factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Mode]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Mode]Factory)}
}

// Register installs f for m, replacing any previous factory.
func (r *Registry) Register(m Mode, f Factory) error {
	if !m.Operational() {
		return fmt.Errorf("cannot register encoder for %s", m)
	}
	if f == nil {
		return fmt.Errorf("nil factory for %s", m)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[m] = f
	return nil
}

// Lookup returns m's factory, or nil.
func (r *Registry) Lookup(m Mode) Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.factories[m]
}

// Modes lists registered modes in enumeration order.
func (r *Registry) Modes() []Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Mode, 0, len(r.factories))
	for m := range r.factories {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
