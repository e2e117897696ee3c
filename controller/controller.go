// Package controller owns the adapter's long-lived state: the status
// lifecycle, the active core, the remap table and the dpad mode. All
// mutation goes through Controller methods.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/event"
	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/remap"
)

var (
	ErrInvalidTransition = errors.New("controller: invalid status transition")
	ErrNotRunning        = errors.New("controller: not running")
)

// Options configures a Controller.
type Options struct {
	Registry   *core.Registry
	Dispatcher *event.Dispatcher
	Logger     *slog.Logger
	// RemapPolicy applies to every table loaded later.
	RemapPolicy remap.Policy
	DpadMode    input.DpadMode
}

// Controller runs the per-cycle pipeline: dpad mode, remap, active core.
type Controller struct {
	logger   *slog.Logger
	events   *event.Dispatcher
	machine  *core.Machine
	remapper *remap.Engine
	handoff  input.Handoff

	// life serializes Init, Start and Reset. It is held across encoder
	// calls; mu is not, so handlers may read state during a transition.
	life sync.Mutex

	mu       sync.Mutex
	status   Status
	dpadMode input.DpadMode
}

// New returns an Idle controller.
func New(o Options) *Controller {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := o.Dispatcher
	if d == nil {
		d = event.NewDispatcher(logger)
	}
	reg := o.Registry
	if reg == nil {
		reg = core.NewRegistry()
	}
	return &Controller{
		logger:   logger,
		events:   d,
		machine:  core.NewMachine(reg, d, logger),
		remapper: remap.NewEngine(o.RemapPolicy),
		dpadMode: o.DpadMode,
	}
}

// Events returns the dispatcher used by the controller.
func (c *Controller) Events() *event.Dispatcher { return c.events }

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Core returns the active core mode.
func (c *Controller) Core() core.Mode { return c.machine.Mode() }

// Init moves Idle to Initialized.
func (c *Controller) Init() error {
	c.life.Lock()
	c.mu.Lock()
	err := c.advance(Initialized)
	c.mu.Unlock()
	c.life.Unlock()
	if err != nil {
		return err
	}
	c.logger.Info("controller initialized")
	c.events.Emit(event.SystemInitOK)
	return nil
}

// Start selects mode and moves Initialized to Running. The core must come up
// before the status changes; on failure the status stays Initialized.
func (c *Controller) Start(mode core.Mode) error {
	if !mode.Operational() {
		return fmt.Errorf("%w: running requires a core, got %s", ErrInvalidTransition, mode)
	}
	c.life.Lock()
	defer c.life.Unlock()
	if s := c.Status(); !s.CanAdvance(Running) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, Running)
	}
	if err := c.machine.Switch(mode); err != nil {
		return err
	}
	c.mu.Lock()
	c.status = Running
	c.mu.Unlock()
	c.logger.Info("controller running", "core", mode.String())
	return nil
}

// Reset shuts the core down and returns to Idle from any status.
func (c *Controller) Reset() error {
	c.life.Lock()
	if err := c.machine.Shutdown(); err != nil {
		c.life.Unlock()
		return err
	}
	c.mu.Lock()
	prev := c.status
	c.status = Idle
	c.mu.Unlock()
	c.life.Unlock()

	if prev != Idle {
		c.logger.Info("controller reset", "from", prev.String())
		c.events.Emit(event.SystemShutdown)
	}
	return nil
}

// Close resets the controller and detaches it from the dispatcher.
func (c *Controller) Close() error {
	err := c.Reset()
	c.machine.Close()
	return err
}

func (c *Controller) advance(next Status) error {
	if !c.status.CanAdvance(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.status, next)
	}
	c.status = next
	return nil
}

// SetDpadMode changes how the dpad is reinterpreted from the next cycle on.
func (c *Controller) SetDpadMode(m input.DpadMode) {
	c.mu.Lock()
	c.dpadMode = m
	c.mu.Unlock()
}

// DpadMode returns the current dpad mode.
func (c *Controller) DpadMode() input.DpadMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dpadMode
}

// LoadRemap validates and installs t.
func (c *Controller) LoadRemap(t remap.Table) error {
	if err := c.remapper.Load(t); err != nil {
		return err
	}
	c.logger.Debug("remap loaded", "table", fmt.Sprintf("%#016x", t.Pack()))
	c.events.Emit(event.InputRemapLoaded)
	return nil
}

// RemapTable returns the installed table.
func (c *Controller) RemapTable() remap.Table { return c.remapper.Table() }

// Translate runs the dpad mode and remap stages on f without encoding it.
func (c *Controller) Translate(f input.Frame) input.Frame {
	f = input.ApplyDpadMode(c.DpadMode(), f)
	f.Buttons = c.remapper.Translate(f.Buttons)
	return f
}

// Process translates f and hands it to the active core.
func (c *Controller) Process(f input.Frame) error {
	if c.Status() != Running {
		return ErrNotRunning
	}
	out := c.Translate(f)
	c.handoff.Store(out)
	return c.machine.Submit(out)
}

// Poll samples one cycle from s and processes it.
func (c *Controller) Poll(s input.Sampler) error {
	var f input.Frame
	if err := s.Sample(&f); err != nil {
		return fmt.Errorf("sample: %w", err)
	}
	return c.Process(f)
}

// Last returns the most recent translated frame and its sequence number.
func (c *Controller) Last() (input.Frame, uint64) { return c.handoff.Load() }
