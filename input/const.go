package input

import (
	"fmt"
	"strings"
)

// Digital button bitmasks. Bit positions are shared by every encoder and by
// the remap table slot order.
const (
	ButtonDpadUp    = 0x0001
	ButtonDpadDown  = 0x0002
	ButtonDpadLeft  = 0x0004
	ButtonDpadRight = 0x0008
	ButtonFaceUp    = 0x0010
	ButtonFaceDown  = 0x0020
	ButtonFaceLeft  = 0x0040
	ButtonFaceRight = 0x0080
	ButtonL         = 0x0100
	ButtonZL        = 0x0200
	ButtonR         = 0x0400
	ButtonZR        = 0x0800
	ButtonStart     = 0x1000
	ButtonSelect    = 0x2000
	ButtonStickL    = 0x4000
	ButtonStickR    = 0x8000

	ButtonDpadMask = ButtonDpadUp | ButtonDpadDown | ButtonDpadLeft | ButtonDpadRight
)

// System button bitmasks. These are never remapped.
const (
	SystemCapture = 0x01
	SystemHome    = 0x02

	systemMask = SystemCapture | SystemHome
)

// RemappableButtons is the number of digital buttons covered by a remap table.
const RemappableButtons = 16

// Analog range.
const (
	AnalogBits   = 12
	AnalogMax    = 1<<AnalogBits - 1 // 4095
	AnalogMask   = AnalogMax
	AnalogCenter = 2048
)

// Wire sizes in bytes.
const (
	AnalogSize  = 12
	ButtonsSize = 5
	FrameSize   = AnalogSize + ButtonsSize
	RumbleSize  = 2
)

// Axis indexes analog fields in wire order.
type Axis uint8

const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisTriggerL
	AxisTriggerR
)

// ControllerMode is the user-facing personality selection. Each maps to a
// default protocol core.
type ControllerMode uint8

const (
	ControllerModeNS ControllerMode = iota
	ControllerModeRetro
	ControllerModeXInput
	ControllerModeDInput
)

func (m ControllerMode) String() string {
	switch m {
	case ControllerModeNS:
		return "ns"
	case ControllerModeRetro:
		return "retro"
	case ControllerModeXInput:
		return "xinput"
	case ControllerModeDInput:
		return "dinput"
	default:
		return "unknown"
	}
}

// ParseControllerMode parses a mode name as printed by String.
func ParseControllerMode(s string) (ControllerMode, error) {
	for m := ControllerModeNS; m <= ControllerModeDInput; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown controller mode %q", s)
}
