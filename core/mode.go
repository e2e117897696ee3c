// Package core selects the output protocol ("core") that encodes the
// canonical frame.
package core

import (
	"fmt"
	"strings"
)

// Mode is an output protocol core. Null means no encoder is active.
type Mode uint8

const (
	Null Mode = iota
	NS
	SNES
	N64
	GC
	USB
	BTDInput
	BTXInput

	// Modes is the number of modes including Null.
	Modes = 8
)

var modeNames = [Modes]string{"null", "ns", "snes", "n64", "gc", "usb", "bt_dinput", "bt_xinput"}

func (m Mode) String() string {
	if m < Modes {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Valid reports whether m is a known mode, Null included.
func (m Mode) Valid() bool { return m < Modes }

// Operational reports whether m selects an encoder.
func (m Mode) Operational() bool { return m != Null && m.Valid() }

// ParseMode resolves a mode name, case-insensitively. Dashes are accepted in
// place of underscores.
func ParseMode(s string) (Mode, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return Null, fmt.Errorf("unknown core %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid core %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
