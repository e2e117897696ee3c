package remap

import (
	"sync/atomic"

	"github.com/hoja-dev/hoja/input"
)

// compiled is an immutable, validated table with one output mask per slot.
type compiled struct {
	table Table
	masks [Slots]uint16
}

func compile(t Table) *compiled {
	c := &compiled{table: t}
	for i, code := range t {
		c.masks[i] = code.Mask()
	}
	return c
}

// Engine translates button state through the current table. Load swaps the
// table atomically, so Translate always sees one complete table.
type Engine struct {
	policy Policy
	cur    atomic.Pointer[compiled]
}

// NewEngine returns an engine holding the identity table.
func NewEngine(p Policy) *Engine {
	e := &Engine{policy: p}
	e.cur.Store(compile(Default()))
	return e
}

// Policy returns the duplicate policy used by Load.
func (e *Engine) Policy() Policy { return e.policy }

// Load validates t and installs it. A rejected table leaves the previous one
// in place.
func (e *Engine) Load(t Table) error {
	if err := t.Validate(e.policy); err != nil {
		return err
	}
	e.cur.Store(compile(t))
	return nil
}

// LoadPacked unpacks v and loads it.
func (e *Engine) LoadPacked(v uint64) error {
	return e.Load(Unpack(v))
}

// Table returns the installed table.
func (e *Engine) Table() Table {
	return e.cur.Load().table
}

// Translate redirects each set digital bit to its slot's output. System
// buttons and the sleep/pair codes pass through unchanged.
func (e *Engine) Translate(b input.Buttons) input.Buttons {
	c := e.cur.Load()
	in := b.Digital
	var out uint16
	for i := 0; i < Slots; i++ {
		// all-ones when bit i is set, zero otherwise
		sel := -(in >> i & 1)
		out |= c.masks[i] & sel
	}
	b.Digital = out
	return b
}
