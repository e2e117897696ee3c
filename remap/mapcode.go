// Package remap redirects physical digital buttons to logical outputs using a
// 16-slot table packed into one 64-bit word.
package remap

import (
	"fmt"
	"strings"
)

// Mapcode is a 4-bit output identifier. Its value equals the bit index of the
// output button in input.Buttons.Digital.
type Mapcode uint8

const (
	DUp Mapcode = iota
	DDown
	DLeft
	DRight
	BUp
	BDown
	BLeft
	BRight
	TL
	TZL
	TR
	TZR
	BStart
	BSelect
	BStickL
	BStickR

	// Mapcodes is the number of valid codes.
	Mapcodes = 16
)

var mapcodeNames = [Mapcodes]string{
	"dpad_up", "dpad_down", "dpad_left", "dpad_right",
	"button_up", "button_down", "button_left", "button_right",
	"trigger_l", "trigger_zl", "trigger_r", "trigger_zr",
	"button_start", "button_select", "button_stick_left", "button_stick_right",
}

// Valid reports whether c is one of the 16 codes.
func (c Mapcode) Valid() bool { return c < Mapcodes }

// Mask returns the output bit for c, or zero for an invalid code.
func (c Mapcode) Mask() uint16 {
	if !c.Valid() {
		return 0
	}
	return 1 << c
}

func (c Mapcode) String() string {
	if c.Valid() {
		return mapcodeNames[c]
	}
	return fmt.Sprintf("Mapcode(%d)", uint8(c))
}

// ParseMapcode resolves a code by name. Slot and code names share one
// vocabulary since slots follow the same order.
func ParseMapcode(s string) (Mapcode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range mapcodeNames {
		if n == s {
			return Mapcode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mapcode %q", s)
}
