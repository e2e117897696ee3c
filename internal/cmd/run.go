package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/hoja-dev/hoja/controller"
	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/encoder/dinput"
	"github.com/hoja-dev/hoja/encoder/framedump"
	"github.com/hoja-dev/hoja/encoder/xinput"
	"github.com/hoja-dev/hoja/event"
	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/internal/log"
	"github.com/hoja-dev/hoja/power"
	"github.com/hoja-dev/hoja/remap"
)

// Run streams frames through a Controller.
type Run struct {
	Core     string `help:"Core to start, or auto to pick one from --mode" default:"usb" env:"HOJA_CORE"`
	Mode     string `help:"Controller mode used by --core=auto" enum:"ns,retro,xinput,dinput" default:"xinput" env:"HOJA_MODE"`
	Wired    bool   `help:"Treat the host as wired when picking a core" env:"HOJA_WIRED"`
	Detect   string `help:"Console detected on the wired port when picking a retro core" enum:"none,snes,joybus" default:"none" env:"HOJA_DETECT"`
	DpadMode string `help:"Dpad mode" enum:"standard,analog,right-analog,dual" default:"standard" env:"HOJA_DPAD_MODE"`
	Remap    string `help:"Packed remap word or remap profile file" env:"HOJA_REMAP"`
	Unique   bool   `help:"Reject remap tables that send two slots to one output" env:"HOJA_REMAP_UNIQUE"`

	Battery         string        `help:"sysfs power_supply directory to report battery state from" env:"HOJA_BATTERY"`
	BatteryInterval time.Duration `help:"Battery poll interval" default:"5s" env:"HOJA_BATTERY_INTERVAL"`
	HostOutput      string        `help:"File or FIFO carrying host output reports (rumble, LED)" env:"HOJA_HOST_OUTPUT"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is a terminal; pipe binary frames into hoja run")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Serve(ctx, os.Stdin, os.Stdout, logger, rawLogger)
}

// Serve reads frames from in until EOF or ctx is done. Reports go to out.
// On cancel, in is closed when it is an io.Closer and Serve waits for the
// reader to stop before shutting the core down.
func (r *Run) Serve(ctx context.Context, in io.Reader, out io.Writer, logger *slog.Logger, rawLogger log.RawLogger) error {
	mode, err := r.resolveCore()
	if err != nil {
		return err
	}
	dpad, err := input.ParseDpadMode(r.DpadMode)
	if err != nil {
		return err
	}
	policy := remap.PolicyMerge
	if r.Unique {
		policy = remap.PolicyUnique
	}

	d := event.NewDispatcher(logger)
	for dom := event.Domain(0); dom < event.Domains; dom++ {
		d.Subscribe(dom, func(ev event.Event) { logger.Info("event", "event", ev.String()) })
	}

	host := newHostLink(logger)
	c := controller.New(controller.Options{
		Registry:    NewRegistry(out, rawLogger, host.attach),
		Dispatcher:  d,
		Logger:      logger,
		RemapPolicy: policy,
		DpadMode:    dpad,
	})
	defer c.Close()

	if r.Remap != "" {
		t, err := LoadRemap(r.Remap)
		if err != nil {
			return err
		}
		if err := c.LoadRemap(t); err != nil {
			return err
		}
		for _, line := range remap.Diff(t) {
			logger.Debug("remap", "slot", line)
		}
	}

	if err := c.Init(); err != nil {
		return err
	}
	if err := c.Start(mode); err != nil {
		return err
	}
	defer func() {
		if err := c.Reset(); err != nil {
			logger.Error("reset failed", "error", err)
		}
	}()
	logger.Info("hoja running", "core", mode.String(), "dpad", dpad.String())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if r.Battery != "" {
		m := power.NewMonitor(d, logger)
		m.SetType(power.BatteryLiPo)
		go host.watchBattery(ctx, m, sysfsGauge{dir: r.Battery}, r.BatteryInterval)
	}
	if r.HostOutput != "" {
		f, err := os.Open(r.HostOutput)
		if err != nil {
			return fmt.Errorf("open host output: %w", err)
		}
		defer f.Close()
		go func() {
			if err := host.readOutput(f); err != nil {
				logger.Warn("host output stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- pump(in, c, logger) }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		if cl, ok := in.(io.Closer); ok {
			cl.Close()
			if err := <-errCh; err != nil {
				logger.Debug("reader stopped", "error", err)
			}
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// frameSampler decodes one frame per Sample from a byte stream.
type frameSampler struct {
	r   io.Reader
	buf []byte
}

func (s *frameSampler) Sample(f *input.Frame) error {
	if _, err := io.ReadFull(s.r, s.buf); err != nil {
		return err
	}
	return f.UnmarshalBinary(s.buf)
}

func pump(in io.Reader, c *controller.Controller, logger *slog.Logger) error {
	s := &frameSampler{r: in, buf: make([]byte, input.FrameSize)}
	var n uint64
	for {
		if err := c.Poll(s); err != nil {
			if errors.Is(err, io.EOF) {
				logger.Info("input closed", "frames", n)
				return nil
			}
			return fmt.Errorf("frame %d: %w", n, err)
		}
		n++
	}
}

func (r *Run) resolveCore() (core.Mode, error) {
	if r.Core != "auto" {
		m, err := core.ParseMode(r.Core)
		if err != nil {
			return core.Null, err
		}
		if !m.Operational() {
			return core.Null, fmt.Errorf("core %s cannot run", m)
		}
		return m, nil
	}
	cm, err := input.ParseControllerMode(r.Mode)
	if err != nil {
		return core.Null, err
	}
	detect := event.WiredNoDetect
	switch r.Detect {
	case "snes":
		detect = event.WiredSNESDetect
	case "joybus":
		detect = event.WiredJoybusDetect
	}
	m := controller.DefaultCore(cm, r.Wired, detect)
	if m == core.Null {
		return core.Null, fmt.Errorf("no core for mode %s", cm)
	}
	return m, nil
}

// NewRegistry registers an encoder for every operational core. Cores
// without a host report format of their own echo canonical frames. When
// created is non-nil it sees every encoder before it starts.
func NewRegistry(out io.Writer, rawLogger log.RawLogger, created func(core.Encoder)) *core.Registry {
	reg := core.NewRegistry()
	for m := core.Null + 1; m < core.Modes; m++ {
		var f core.Factory
		switch m {
		case core.USB, core.BTXInput:
			f = xinput.Factory(out, rawLogger)
		case core.BTDInput:
			f = dinput.Factory(out, rawLogger)
		default:
			f = framedump.Factory(m, out, rawLogger)
		}
		if created != nil {
			f = observe(f, created)
		}
		if err := reg.Register(m, f); err != nil {
			panic(err)
		}
	}
	return reg
}

func observe(f core.Factory, created func(core.Encoder)) core.Factory {
	return func() (core.Encoder, error) {
		e, err := f()
		if err == nil {
			created(e)
		}
		return e, err
	}
}
