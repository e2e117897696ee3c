package core

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hoja-dev/hoja/event"
	"github.com/hoja-dev/hoja/input"
)

var (
	ErrInvalidMode      = errors.New("core: invalid mode")
	ErrNoEncoder        = errors.New("core: no encoder registered for mode")
	ErrShutdownRequired = errors.New("core: active encoder has not shut down")
	ErrShutdownPending  = errors.New("core: encoder shutdown in progress")
	ErrInactive         = errors.New("core: no active encoder")
	ErrStartPending     = errors.New("core: encoder start in progress")
	ErrStartAborted     = errors.New("core: encoder faulted while starting")
)

type phase uint8

const (
	phaseIdle phase = iota
	phaseStarting
	phaseActive
	phaseStopping
)

// Machine owns the active core. Switching between two operational modes
// requires the previous encoder to finish Shutdown first; a frame handed to
// Submit reaches exactly one encoder.
//
// Lock order is frameMu, then mu. Encoder code never runs under mu, so an
// encoder may report a fault or any other event from inside Start, Encode
// or Shutdown.
type Machine struct {
	reg    *Registry
	logger *slog.Logger

	frameMu sync.Mutex

	mu    sync.Mutex
	mode  Mode
	phase phase
	enc   Encoder
	gen   uint64

	unsubscribe func()
}

// NewMachine returns a Machine in Null. When d is non-nil the machine drops
// to Null on a System/EncoderFault event.
func NewMachine(reg *Registry, d *event.Dispatcher, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Machine{reg: reg, logger: logger}
	if d != nil {
		m.unsubscribe = event.On(d, func(ev event.System) {
			if ev == event.SystemEncoderFault {
				m.fault()
			}
		})
	}
	return m
}

// Close detaches the machine from its dispatcher. The active encoder, if
// any, is left running; call Shutdown first.
func (m *Machine) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Stopping reports whether a shutdown is in flight.
func (m *Machine) Stopping() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == phaseStopping
}

// Switch activates mode. From Null the new encoder is created and started.
// From another operational mode the request is rejected with
// ErrShutdownRequired (or ErrShutdownPending while Shutdown runs, or
// ErrStartPending while another Switch is starting) and the current mode is
// kept. Switch(Null) is Shutdown.
//
// A fault reported while the encoder starts aborts the activation with
// ErrStartAborted and leaves the machine in Null.
func (m *Machine) Switch(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, uint8(mode))
	}
	if mode == Null {
		return m.Shutdown()
	}

	m.mu.Lock()
	if done, err := m.precheck(mode); done || err != nil {
		m.mu.Unlock()
		return err
	}
	m.phase = phaseStarting
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	// wait out an Encode still running on a faulted encoder
	m.frameMu.Lock()
	defer m.frameMu.Unlock()

	enc, err := m.start(mode)

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.logger.Warn("core start aborted by fault", "core", mode.String())
		if err == nil {
			if serr := enc.Shutdown(); serr != nil {
				m.logger.Error("encoder shutdown failed", "core", mode.String(), "error", serr)
			}
		}
		return fmt.Errorf("start %s encoder: %w", mode, ErrStartAborted)
	}
	defer m.mu.Unlock()
	if err != nil {
		m.phase = phaseIdle
		return err
	}
	m.mode = mode
	m.enc = enc
	m.phase = phaseActive
	m.logger.Info("core started", "core", mode.String())
	return nil
}

func (m *Machine) start(mode Mode) (Encoder, error) {
	f := m.reg.Lookup(mode)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoEncoder, mode)
	}
	enc, err := f()
	if err != nil {
		return nil, fmt.Errorf("create %s encoder: %w", mode, err)
	}
	if err := enc.Start(); err != nil {
		m.logger.Error("core start failed", "core", mode.String(), "error", err)
		return nil, fmt.Errorf("start %s encoder: %w", mode, err)
	}
	return enc, nil
}

// Shutdown stops the active encoder and blocks until it reports completion,
// after which the mode is Null. A failed shutdown keeps the mode active.
func (m *Machine) Shutdown() error {
	m.mu.Lock()
	switch {
	case m.phase == phaseStopping:
		m.mu.Unlock()
		return ErrShutdownPending
	case m.phase == phaseStarting:
		m.mu.Unlock()
		return ErrStartPending
	case m.enc == nil:
		m.mu.Unlock()
		return nil
	}
	m.phase = phaseStopping
	enc, gen, mode := m.enc, m.gen, m.mode
	m.mu.Unlock()

	// wait out an in-flight Encode
	m.frameMu.Lock()
	defer m.frameMu.Unlock()

	m.logger.Info("core stopping", "core", mode.String())
	err := enc.Shutdown()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		// a fault already dropped this encoder
		return err
	}
	if err != nil {
		m.phase = phaseActive
		m.logger.Error("core shutdown failed", "core", mode.String(), "error", err)
		return fmt.Errorf("shutdown %s encoder: %w", mode, err)
	}
	m.reset()
	m.logger.Info("core stopped", "core", mode.String())
	return nil
}

// Submit hands f to the active encoder. It fails fast with ErrInactive
// while a start or shutdown is in flight.
func (m *Machine) Submit(f input.Frame) error {
	m.mu.Lock()
	active := m.phase == phaseActive
	m.mu.Unlock()
	if !active {
		return ErrInactive
	}

	m.frameMu.Lock()
	defer m.frameMu.Unlock()

	m.mu.Lock()
	if m.phase != phaseActive {
		m.mu.Unlock()
		return ErrInactive
	}
	enc := m.enc
	m.mu.Unlock()

	return enc.Encode(f)
}

func (m *Machine) precheck(mode Mode) (done bool, err error) {
	switch {
	case m.phase == phaseStopping:
		return false, fmt.Errorf("%w: %s -> %s", ErrShutdownPending, m.mode, mode)
	case m.phase == phaseStarting:
		return false, fmt.Errorf("%w: -> %s", ErrStartPending, mode)
	case m.mode == mode:
		return true, nil
	case m.mode != Null:
		return false, fmt.Errorf("%w: %s -> %s", ErrShutdownRequired, m.mode, mode)
	}
	return false, nil
}

func (m *Machine) fault() {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.phase == phaseStarting:
		// Switch sees the gen change once Start returns
		m.phase = phaseIdle
		m.gen++
	case m.enc != nil:
		m.logger.Warn("core faulted, dropping to null", "core", m.mode.String())
		m.reset()
	}
}

func (m *Machine) reset() {
	m.mode = Null
	m.enc = nil
	m.phase = phaseIdle
	m.gen++
}
