package event

import "sync"

// Edge forwards an event only when it differs from the last event forwarded
// for the same domain, turning level-style producers into edge-triggered
// ones.
//
// Transitions are forwarded in the order they were latched, even with
// concurrent producers. Like Dispatcher.Emit, an Emit made while another
// goroutine or an outer Emit is forwarding is queued and delivered by that
// forwarder.
type Edge struct {
	out Emitter

	mu       sync.Mutex
	last     [Domains]Event
	pending  []Event
	draining bool
}

// NewEdge returns an Edge forwarding to out.
func NewEdge(out Emitter) *Edge {
	return &Edge{out: out}
}

// Emit forwards ev if it is a transition and reports whether it did.
func (e *Edge) Emit(ev Event) bool {
	if ev == nil || !ev.Domain().Valid() {
		return false
	}
	dom := ev.Domain()
	e.mu.Lock()
	if e.last[dom] == ev {
		e.mu.Unlock()
		return false
	}
	e.last[dom] = ev
	e.pending = append(e.pending, ev)
	if e.draining {
		e.mu.Unlock()
		return true
	}
	e.draining = true
	defer func() {
		e.draining = false
		e.mu.Unlock()
	}()
	for len(e.pending) > 0 {
		next := e.pending[0]
		e.pending = e.pending[1:]
		e.forward(next)
	}
	e.pending = nil
	return true
}

// forward runs out.Emit without holding mu and reacquires it even if out
// panics.
func (e *Edge) forward(ev Event) {
	e.mu.Unlock()
	defer e.mu.Lock()
	e.out.Emit(ev)
}

// Last returns the last event latched for dom, or nil.
func (e *Edge) Last(dom Domain) Event {
	if !dom.Valid() {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last[dom]
}

// Reset forgets dom's last event so the next one is forwarded.
func (e *Edge) Reset(dom Domain) {
	if !dom.Valid() {
		return
	}
	e.mu.Lock()
	e.last[dom] = nil
	e.mu.Unlock()
}
