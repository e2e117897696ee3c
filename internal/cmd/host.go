package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/encoder/dinput"
	"github.com/hoja-dev/hoja/encoder/xinput"
	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/power"
	"github.com/hoja-dev/hoja/result"
)

// outputReportMax bounds one host output report read.
const outputReportMax = 64

type batterySetter interface {
	SetBattery(power.Reading)
}

type outputHandler interface {
	HandleOutput([]byte)
}

// hostLink tracks the live encoder so battery readings and host output
// reports reach whichever core is running.
type hostLink struct {
	logger *slog.Logger

	mu      sync.Mutex
	enc     core.Encoder
	reading *power.Reading
}

func newHostLink(logger *slog.Logger) *hostLink {
	return &hostLink{logger: logger}
}

// attach is called for every encoder the registry creates.
func (h *hostLink) attach(e core.Encoder) {
	switch e := e.(type) {
	case *xinput.Encoder:
		e.SetRumbleCallback(func(r input.Rumble) {
			h.logger.Debug("host rumble", "left", r.Left, "right", r.Right)
		})
	case *dinput.Encoder:
		e.SetOutputCallback(func(o dinput.Output) {
			h.logger.Debug("host output", "left", o.Rumble.Left, "right", o.Rumble.Right,
				"led", o.LED.Hex(), "flash_on", o.FlashOn, "flash_off", o.FlashOff)
		})
	}
	h.mu.Lock()
	h.enc = e
	r := h.reading
	h.mu.Unlock()
	if b, ok := e.(batterySetter); ok && r != nil {
		b.SetBattery(*r)
	}
}

func (h *hostLink) current() core.Encoder {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enc
}

func (h *hostLink) setReading(r power.Reading) {
	h.mu.Lock()
	h.reading = &r
	e := h.enc
	h.mu.Unlock()
	if b, ok := e.(batterySetter); ok {
		b.SetBattery(r)
	}
}

// gauge wraps g so every successful reading also reaches the live encoder.
func (h *hostLink) gauge(g power.Gauge) power.Gauge {
	return gaugeFunc(func() (power.Reading, error) {
		r, err := g.Read()
		if err == nil {
			h.setReading(r)
		}
		return r, err
	})
}

// readOutput hands each report read from r to the live encoder until r
// is exhausted. Reports arriving with no encoder attached are dropped.
func (h *hostLink) readOutput(r io.Reader) error {
	buf := make([]byte, outputReportMax)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if o, ok := h.current().(outputHandler); ok {
				o.HandleOutput(append([]byte(nil), buf[:n]...))
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read host output: %w", err)
		}
	}
}

// watchBattery polls g every interval until ctx is done. The first
// reading classifies the boot power source.
func (h *hostLink) watchBattery(ctx context.Context, m *power.Monitor, g power.Gauge, every time.Duration) {
	g = h.gauge(g)
	if r, err := g.Read(); err != nil {
		h.logger.Warn("battery read failed", "error", err)
	} else if _, err := m.Boot(r); err != nil {
		h.logger.Warn("battery boot classification failed", "error", err)
	} else if err := m.Update(r); err != nil {
		h.logger.Warn("battery update failed", "error", err)
	}

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := m.Poll(g); err != nil {
				h.logger.Warn("battery poll failed", "error", err)
			}
		}
	}
}

type gaugeFunc func() (power.Reading, error)

func (fn gaugeFunc) Read() (power.Reading, error) { return fn() }

// sysfsGauge reads a Linux power_supply class directory.
type sysfsGauge struct {
	dir string
}

func (g sysfsGauge) Read() (power.Reading, error) {
	var r power.Reading
	status, err := g.attr("status")
	if err != nil {
		return r, err
	}
	capacity, err := g.attr("capacity")
	if err != nil {
		return r, err
	}
	level, err := strconv.ParseUint(capacity, 10, 8)
	if err != nil || level > 100 {
		return r, result.NewI2CFailure(fmt.Sprintf("%s: bad capacity %q", g.dir, capacity))
	}
	r.Level = uint8(level)
	r.Present = true
	if present, err := g.attr("present"); err == nil {
		r.Present = present == "1"
	}
	switch status {
	case "Charging":
		r.External, r.Charging = true, true
	case "Full":
		r.External, r.Full = true, true
	case "Not charging":
		r.External = true
	}
	return r, nil
}

func (g sysfsGauge) attr(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(g.dir, name))
	if err != nil {
		return "", result.NewI2CFailure(err.Error())
	}
	return strings.TrimSpace(string(b)), nil
}
