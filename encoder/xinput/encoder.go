package xinput

import (
	"fmt"
	"io"
	"sync"

	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/internal/log"
)

// Encoder writes one report per frame to w.
type Encoder struct {
	w   io.Writer
	raw log.RawLogger

	mu       sync.Mutex
	running  bool
	reports  uint64
	rumbleFn func(input.Rumble)
}

// New returns an encoder writing to w. raw may be nil.
func New(w io.Writer, raw log.RawLogger) *Encoder {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Encoder{w: w, raw: raw}
}

// Factory returns a core.Factory producing encoders on w.
func Factory(w io.Writer, raw log.RawLogger) core.Factory {
	return func() (core.Encoder, error) { return New(w, raw), nil }
}

// SetRumbleCallback sets a callback invoked for host rumble reports.
func (e *Encoder) SetRumbleCallback(f func(input.Rumble)) {
	e.mu.Lock()
	e.rumbleFn = f
	e.mu.Unlock()
}

func (e *Encoder) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
	return nil
}

func (e *Encoder) Encode(f input.Frame) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return fmt.Errorf("xinput: encoder not started")
	}
	r := FromFrame(f)
	b := r.BuildReport()
	e.raw.Log("xinput", b)
	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("xinput: write report: %w", err)
	}
	e.reports++
	return nil
}

// HandleOutput processes a host->device report.
func (e *Encoder) HandleOutput(out []byte) {
	r, ok := ParseRumble(out)
	if !ok {
		return
	}
	e.mu.Lock()
	fn := e.rumbleFn
	e.mu.Unlock()
	if fn != nil {
		fn(r)
	}
}

// Reports returns the number of reports written.
func (e *Encoder) Reports() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reports
}

func (e *Encoder) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	return nil
}
