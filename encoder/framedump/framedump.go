// Package framedump provides an encoder that writes each canonical frame
// back out in its wire form. It backs every core that has no host-facing
// report format of its own, which makes it useful for piping a processed
// stream into another tool.
package framedump

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/internal/log"
)

var ErrNotStarted = errors.New("framedump: encoder not started")

type Encoder struct {
	tag string
	w   io.Writer
	raw log.RawLogger

	mu      sync.Mutex
	running bool
	frames  uint64
}

// New returns an encoder writing frames to w, tagging raw dumps with tag.
func New(tag string, w io.Writer, raw log.RawLogger) *Encoder {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Encoder{tag: tag, w: w, raw: raw}
}

// Factory returns a core.Factory for mode, tagging dumps with the mode name.
func Factory(mode core.Mode, w io.Writer, raw log.RawLogger) core.Factory {
	return func() (core.Encoder, error) { return New(mode.String(), w, raw), nil }
}

func (e *Encoder) Start() error {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()
	return nil
}

func (e *Encoder) Encode(f input.Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return ErrNotStarted
	}
	e.raw.Log(e.tag, b)
	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("framedump: write frame: %w", err)
	}
	e.frames++
	return nil
}

// Frames returns the number of frames written.
func (e *Encoder) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

func (e *Encoder) Shutdown() error {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
	return nil
}
