// Package dinput encodes frames as 64-byte DirectInput gamepad reports with
// a hat switch, the layout used by the bt_dinput core.
package dinput

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/internal/log"
	"github.com/hoja-dev/hoja/power"
)

var ErrNotStarted = errors.New("dinput: encoder not started")

type Encoder struct {
	w   io.Writer
	raw log.RawLogger

	mu       sync.Mutex
	running  bool
	counter  uint8
	ts       uint16
	battery  uint8
	outputFn func(Output)
}

// New returns an encoder writing reports to w. raw may be nil.
func New(w io.Writer, raw log.RawLogger) *Encoder {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Encoder{w: w, raw: raw, battery: BatteryDefault}
}

// Factory returns a core.Factory producing encoders on w.
func Factory(w io.Writer, raw log.RawLogger) core.Factory {
	return func() (core.Encoder, error) { return New(w, raw), nil }
}

// SetOutputCallback sets a callback for host rumble and LED reports.
func (e *Encoder) SetOutputCallback(f func(Output)) {
	e.mu.Lock()
	e.outputFn = f
	e.mu.Unlock()
}

// SetBattery updates the battery byte of subsequent reports.
func (e *Encoder) SetBattery(r power.Reading) {
	e.mu.Lock()
	e.battery = BatteryByte(r)
	e.mu.Unlock()
}

func (e *Encoder) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
	e.counter = 0
	e.ts = 0
	return nil
}

func (e *Encoder) Encode(f input.Frame) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return ErrNotStarted
	}
	b := FromFrame(f).BuildReport(e.counter, e.ts, e.battery)
	e.raw.Log("dinput", b)
	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("dinput: write report: %w", err)
	}
	e.counter++
	e.ts++
	return nil
}

// HandleOutput processes a host->device report.
func (e *Encoder) HandleOutput(out []byte) {
	o, ok := ParseOutput(out)
	if !ok {
		return
	}
	e.mu.Lock()
	fn := e.outputFn
	e.mu.Unlock()
	if fn != nil {
		fn(o)
	}
}

func (e *Encoder) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	return nil
}
