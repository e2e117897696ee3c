package controller_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoja-dev/hoja/controller"
	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/event"
	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/remap"
)

type captureEncoder struct {
	mu     sync.Mutex
	frames []input.Frame
	down   bool
}

func (e *captureEncoder) Start() error { return nil }
func (e *captureEncoder) Encode(f input.Frame) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames = append(e.frames, f)
	return nil
}
func (e *captureEncoder) Shutdown() error {
	e.down = true
	return nil
}

func newController(t *testing.T, o controller.Options) (*controller.Controller, *captureEncoder) {
	t.Helper()
	enc := &captureEncoder{}
	reg := core.NewRegistry()
	for _, m := range []core.Mode{core.USB, core.BTXInput} {
		require.NoError(t, reg.Register(m, func() (core.Encoder, error) { return enc, nil }))
	}
	o.Registry = reg
	c := controller.New(o)
	t.Cleanup(func() { _ = c.Close() })
	return c, enc
}

func TestStatusMonotonic(t *testing.T) {
	c, _ := newController(t, controller.Options{})
	assert.Equal(t, controller.Idle, c.Status())

	assert.ErrorIs(t, c.Start(core.USB), controller.ErrInvalidTransition, "idle cannot jump to running")
	assert.Equal(t, controller.Idle, c.Status())
	assert.Equal(t, core.Null, c.Core())

	require.NoError(t, c.Init())
	assert.Equal(t, controller.Initialized, c.Status())
	assert.ErrorIs(t, c.Init(), controller.ErrInvalidTransition)

	assert.ErrorIs(t, c.Start(core.Null), controller.ErrInvalidTransition, "running requires a core")
	require.NoError(t, c.Start(core.USB))
	assert.Equal(t, controller.Running, c.Status())
	assert.Equal(t, core.USB, c.Core())

	assert.ErrorIs(t, c.Init(), controller.ErrInvalidTransition, "no running -> initialized")
	assert.Equal(t, controller.Running, c.Status())

	require.NoError(t, c.Reset())
	assert.Equal(t, controller.Idle, c.Status())
	assert.Equal(t, core.Null, c.Core())
}

func TestCanAdvance(t *testing.T) {
	all := []controller.Status{controller.Idle, controller.Initialized, controller.Running}
	for _, from := range all {
		for _, to := range all {
			want := (from == controller.Idle && to == controller.Initialized) ||
				(from == controller.Initialized && to == controller.Running)
			assert.Equal(t, want, from.CanAdvance(to), "%s -> %s", from, to)
		}
	}
	assert.Equal(t, "Status(9)", controller.Status(9).String())
}

func TestStartFailureKeepsInitialized(t *testing.T) {
	c := controller.New(controller.Options{})
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Init())
	assert.ErrorIs(t, c.Start(core.SNES), core.ErrNoEncoder)
	assert.Equal(t, controller.Initialized, c.Status())
}

func TestPipeline(t *testing.T) {
	c, enc := newController(t, controller.Options{DpadMode: input.DpadDual})

	raw := input.Frame{
		Analog:  input.Analog{LX: input.AnalogCenter, LY: input.AnalogCenter},
		Buttons: input.Buttons{Digital: input.ButtonDpadLeft, System: input.SystemHome},
	}
	assert.ErrorIs(t, c.Process(raw), controller.ErrNotRunning)

	require.NoError(t, c.Init())
	require.NoError(t, c.Start(core.BTXInput))

	tbl := remap.Default()
	tbl[remap.DLeft] = remap.BLeft
	require.NoError(t, c.LoadRemap(tbl))
	assert.Equal(t, tbl, c.RemapTable())

	require.NoError(t, c.Process(raw))
	require.Len(t, enc.frames, 1)
	got := enc.frames[0]
	assert.Equal(t, uint16(input.ButtonFaceLeft), got.Buttons.Digital, "dpad bit kept by dual mode, then remapped")
	assert.True(t, got.Buttons.Home())
	assert.Equal(t, uint16(0), got.Analog.LX, "dual mode deflects the stick")

	c.SetDpadMode(input.DpadAnalogOnly)
	assert.Equal(t, input.DpadAnalogOnly, c.DpadMode())
	err := c.Poll(input.SamplerFunc(func(f *input.Frame) error {
		*f = raw
		return nil
	}))
	require.NoError(t, err)
	require.Len(t, enc.frames, 2)
	assert.Zero(t, enc.frames[1].Buttons.Digital)
	assert.Equal(t, uint16(0), enc.frames[1].Analog.LX)

	last, seq := c.Last()
	assert.Equal(t, uint64(2), seq)
	assert.Equal(t, enc.frames[1], last)

	sampleErr := errors.New("adc timeout")
	err = c.Poll(input.SamplerFunc(func(*input.Frame) error { return sampleErr }))
	assert.ErrorIs(t, err, sampleErr)
	assert.Len(t, enc.frames, 2)
}

func TestLoadRemapRejects(t *testing.T) {
	c, _ := newController(t, controller.Options{RemapPolicy: remap.PolicyUnique})
	dup := remap.Default()
	dup[remap.TL] = remap.TR
	assert.ErrorIs(t, c.LoadRemap(dup), remap.ErrConfigInvalid)
	assert.Equal(t, remap.Default(), c.RemapTable())
}

func TestLifecycleEvents(t *testing.T) {
	d := event.NewDispatcher(nil)
	var got []event.System
	event.On(d, func(ev event.System) { got = append(got, ev) })
	var inputs []event.Input
	event.On(d, func(ev event.Input) { inputs = append(inputs, ev) })

	c, enc := newController(t, controller.Options{Dispatcher: d})
	require.NoError(t, c.Init())
	require.NoError(t, c.Start(core.USB))
	require.NoError(t, c.LoadRemap(remap.Default()))
	require.NoError(t, c.Reset())
	require.NoError(t, c.Reset())

	assert.True(t, enc.down)
	assert.Equal(t, []event.System{event.SystemInitOK, event.SystemShutdown}, got)
	assert.Equal(t, []event.Input{event.InputRemapLoaded}, inputs)
	assert.Same(t, d, c.Events())
}

// linkEncoder reports its link state through the dispatcher, the way a
// transport encoder announces connect and disconnect.
type linkEncoder struct{ d *event.Dispatcher }

func (e linkEncoder) Start() error             { e.d.Emit(event.USBConnected); return nil }
func (e linkEncoder) Encode(input.Frame) error { return nil }
func (e linkEncoder) Shutdown() error          { e.d.Emit(event.USBDisconnected); return nil }

func TestHandlersReadStateDuringTransitions(t *testing.T) {
	d := event.NewDispatcher(nil)
	reg := core.NewRegistry()
	require.NoError(t, reg.Register(core.USB, func() (core.Encoder, error) { return linkEncoder{d: d}, nil }))
	c := controller.New(controller.Options{Registry: reg, Dispatcher: d, DpadMode: input.DpadDual})
	t.Cleanup(func() { _ = c.Close() })

	seen := map[event.USB]controller.Status{}
	event.On(d, func(ev event.USB) {
		seen[ev] = c.Status()
		assert.Equal(t, input.DpadDual, c.DpadMode())
		assert.Error(t, c.Process(input.Frame{}))
	})

	done := make(chan error, 1)
	go func() {
		if err := c.Init(); err != nil {
			done <- err
			return
		}
		if err := c.Start(core.USB); err != nil {
			done <- err
			return
		}
		done <- c.Reset()
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("lifecycle transition did not return")
	}

	assert.Equal(t, controller.Initialized, seen[event.USBConnected], "status flips after the core is up")
	assert.Equal(t, controller.Running, seen[event.USBDisconnected])
	assert.Equal(t, controller.Idle, c.Status())
}

func TestFaultKeepsRunningStatus(t *testing.T) {
	c, _ := newController(t, controller.Options{})
	require.NoError(t, c.Init())
	require.NoError(t, c.Start(core.USB))

	c.Events().Emit(event.SystemEncoderFault)
	assert.Equal(t, core.Null, c.Core())
	assert.Equal(t, controller.Running, c.Status())
	assert.ErrorIs(t, c.Process(input.Frame{}), core.ErrInactive)

	require.NoError(t, c.Reset())
	assert.Equal(t, controller.Idle, c.Status())
}

func TestDefaultCore(t *testing.T) {
	tests := []struct {
		name   string
		mode   input.ControllerMode
		wired  bool
		detect event.Wired
		want   core.Mode
	}{
		{name: "switch", mode: input.ControllerModeNS, want: core.NS},
		{name: "retro snes", mode: input.ControllerModeRetro, detect: event.WiredSNESDetect, want: core.SNES},
		{name: "retro joybus", mode: input.ControllerModeRetro, detect: event.WiredJoybusDetect, want: core.GC},
		{name: "retro nothing", mode: input.ControllerModeRetro, detect: event.WiredNoDetect, want: core.Null},
		{name: "xinput wired", mode: input.ControllerModeXInput, wired: true, want: core.USB},
		{name: "xinput wireless", mode: input.ControllerModeXInput, want: core.BTXInput},
		{name: "dinput wireless", mode: input.ControllerModeDInput, want: core.BTDInput},
		{name: "dinput wired", mode: input.ControllerModeDInput, wired: true, want: core.USB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, controller.DefaultCore(tt.mode, tt.wired, tt.detect))
		})
	}
}
