package input

import "sync"

// Sampler fills a frame with one cycle's readings.
type Sampler interface {
	Sample(f *Frame) error
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func(f *Frame) error

func (fn SamplerFunc) Sample(f *Frame) error { return fn(f) }

// Handoff is the single-slot exchange between the poller and the active
// encoder. Store and Load never overlap, so a reader never sees a frame that
// is still being written.
type Handoff struct {
	mu    sync.Mutex
	frame Frame
	seq   uint64
}

// Store publishes f as the latest frame.
func (h *Handoff) Store(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frame = f
	h.seq++
}

// Load returns the latest frame and its sequence number. A sequence of zero
// means nothing has been stored yet.
func (h *Handoff) Load() (Frame, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame, h.seq
}

// Poll samples s straight into the slot.
func (h *Handoff) Poll(s Sampler) error {
	var f Frame
	if err := s.Sample(&f); err != nil {
		return err
	}
	h.Store(f)
	return nil
}
