package input

import (
	"fmt"
	"strings"
)

// DpadMode selects how held dpad directions reach the encoder.
type DpadMode uint8

const (
	// DpadStandard forwards dpad bits only.
	DpadStandard DpadMode = iota
	// DpadAnalogOnly drops dpad bits and drives the left stick instead.
	DpadAnalogOnly
	// DpadRightAnalogOnly drops dpad bits and drives the right stick instead.
	DpadRightAnalogOnly
	// DpadDual forwards dpad bits and drives the left stick.
	DpadDual
)

var dpadModeNames = map[DpadMode]string{
	DpadStandard:        "standard",
	DpadAnalogOnly:      "analog",
	DpadRightAnalogOnly: "right-analog",
	DpadDual:            "dual",
}

func (m DpadMode) String() string {
	if n, ok := dpadModeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("DpadMode(%d)", uint8(m))
}

// ParseDpadMode resolves a mode name as printed by String.
func ParseDpadMode(s string) (DpadMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, n := range dpadModeNames {
		if n == s {
			return m, nil
		}
	}
	return DpadStandard, fmt.Errorf("unknown dpad mode %q", s)
}

// ApplyDpadMode reinterprets the dpad bits of f according to mode. Stick
// synthesis is full scale: right and up map to AnalogMax, left and down to 0,
// and a released or opposing pair leaves the axis at AnalogCenter. Unknown
// modes behave like DpadStandard.
func ApplyDpadMode(mode DpadMode, f Frame) Frame {
	switch mode {
	case DpadAnalogOnly:
		f.Analog.LX, f.Analog.LY = dpadAxes(f.Buttons.Digital)
		f.Buttons.Digital &^= ButtonDpadMask
	case DpadRightAnalogOnly:
		f.Analog.RX, f.Analog.RY = dpadAxes(f.Buttons.Digital)
		f.Buttons.Digital &^= ButtonDpadMask
	case DpadDual:
		f.Analog.LX, f.Analog.LY = dpadAxes(f.Buttons.Digital)
	}
	return f
}

func dpadAxes(digital uint16) (x, y uint16) {
	return dpadAxis(digital&ButtonDpadLeft != 0, digital&ButtonDpadRight != 0),
		dpadAxis(digital&ButtonDpadDown != 0, digital&ButtonDpadUp != 0)
}

func dpadAxis(neg, pos bool) uint16 {
	switch {
	case neg && !pos:
		return 0
	case pos && !neg:
		return AnalogMax
	default:
		return AnalogCenter
	}
}
