package remap

import (
	"errors"
	"fmt"
)

// Slots is the number of entries in a Table.
const Slots = Mapcodes

// Table assigns an output Mapcode to each physical button slot. Slot i is the
// button at bit i of input.Buttons.Digital.
type Table [Slots]Mapcode

// Default returns the identity table.
func Default() Table {
	var t Table
	for i := range t {
		t[i] = Mapcode(i)
	}
	return t
}

// Pack stores slot i in bits 4i..4i+3. Codes are truncated to 4 bits, so
// callers should Validate first.
func (t Table) Pack() uint64 {
	var v uint64
	for i, c := range t {
		v |= uint64(c&0x0f) << (4 * i)
	}
	return v
}

// Unpack is the inverse of Pack. Every 64-bit value is a well-formed table.
func Unpack(v uint64) Table {
	var t Table
	for i := range t {
		t[i] = Mapcode(v >> (4 * i) & 0x0f)
	}
	return t
}

// Policy decides what Validate does with two slots sharing an output.
type Policy uint8

const (
	// PolicyMerge allows duplicates; the shared output is the OR of its sources.
	PolicyMerge Policy = iota
	// PolicyUnique rejects tables that map two slots to the same output.
	PolicyUnique
)

// ErrConfigInvalid is the sentinel for every table rejected at load time.
var ErrConfigInvalid = errors.New("remap: invalid configuration")

// ConfigError describes the first offending slot of a rejected table.
type ConfigError struct {
	Slot   int
	Code   Mapcode
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Slot < 0 {
		return "remap: " + e.Reason
	}
	return fmt.Sprintf("remap: slot %s: %s", Mapcode(e.Slot), e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfigInvalid }

// Validate checks every code and, under PolicyUnique, that outputs are
// distinct.
func (t Table) Validate(p Policy) error {
	var seen uint16
	for i, c := range t {
		if !c.Valid() {
			return &ConfigError{Slot: i, Code: c, Reason: fmt.Sprintf("code %d out of range", uint8(c))}
		}
		if p == PolicyUnique && seen&c.Mask() != 0 {
			return &ConfigError{Slot: i, Code: c, Reason: fmt.Sprintf("output %s already assigned", c)}
		}
		seen |= c.Mask()
	}
	return nil
}
