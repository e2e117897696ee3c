// Package xinput builds XInput-style input reports from the canonical frame.
// It covers report layout only; pairing and transport belong to the radio
// stack.
package xinput

import (
	"encoding/binary"

	"github.com/hoja-dev/hoja/input"
)

// Report is one XInput gamepad state.
type Report struct {
	Buttons uint16
	// Triggers: 0-255
	LT, RT uint8
	// Sticks: signed, up and right positive
	LX, LY int16
	RX, RY int16
}

var buttonMap = [...]struct {
	from uint16
	to   uint16
}{
	{input.ButtonDpadUp, ButtonDPadUp},
	{input.ButtonDpadDown, ButtonDPadDown},
	{input.ButtonDpadLeft, ButtonDPadLeft},
	{input.ButtonDpadRight, ButtonDPadRight},
	{input.ButtonFaceDown, ButtonA},
	{input.ButtonFaceRight, ButtonB},
	{input.ButtonFaceLeft, ButtonX},
	{input.ButtonFaceUp, ButtonY},
	{input.ButtonL, ButtonLShoulder},
	{input.ButtonR, ButtonRShoulder},
	{input.ButtonStart, ButtonStart},
	{input.ButtonSelect, ButtonBack},
	{input.ButtonStickL, ButtonLThumb},
	{input.ButtonStickR, ButtonRThumb},
}

// FromFrame maps a canonical frame onto the XInput layout. ZL and ZR force
// their trigger fully down so digital-only triggers still register.
func FromFrame(f input.Frame) Report {
	var r Report
	d := f.Buttons.Digital
	for _, m := range buttonMap {
		if d&m.from != 0 {
			r.Buttons |= m.to
		}
	}
	if f.Buttons.Home() {
		r.Buttons |= ButtonGuide
	}

	a := f.Analog.Masked()
	r.LT = input.Scale8(a.LT)
	r.RT = input.Scale8(a.RT)
	if d&input.ButtonZL != 0 {
		r.LT = 0xff
	}
	if d&input.ButtonZR != 0 {
		r.RT = 0xff
	}
	r.LX = input.ScaleSigned16(a.LX)
	r.LY = input.ScaleSigned16(a.LY)
	r.RX = input.ScaleSigned16(a.RX)
	r.RY = input.ScaleSigned16(a.RY)
	return r
}

// BuildReport encodes r into the 20-byte wired input report.
// Layout (indices in the returned slice):
//
//	 0: 0x00              - Report ID
//	 1: 0x14              - Payload size (20 bytes)
//	 2: Buttons (low byte)
//	 3: Buttons (high byte)
//	 4: LT (0-255)
//	 5: RT (0-255)
//	 6-7: LX (little-endian int16)
//	 8-9: LY (little-endian int16)
//	10-11: RX (little-endian int16)
//	12-13: RY (little-endian int16)
//	14-19: Reserved / zero
func (r *Report) BuildReport() []byte {
	b := make([]byte, ReportSize)
	b[0] = 0x00
	b[1] = 0x14
	binary.LittleEndian.PutUint16(b[2:4], r.Buttons)
	b[4] = r.LT
	b[5] = r.RT
	binary.LittleEndian.PutUint16(b[6:8], uint16(r.LX))
	binary.LittleEndian.PutUint16(b[8:10], uint16(r.LY))
	binary.LittleEndian.PutUint16(b[10:12], uint16(r.RX))
	binary.LittleEndian.PutUint16(b[12:14], uint16(r.RY))
	return b
}

// ParseRumble reads a host output report. Rumble packets are 8 bytes:
// [0]=0x00, [1]=0x08, [2]=reserved, [3]=left (large) motor,
// [4]=right (small) motor, [5..7]=reserved. Other reports such as LED
// control are ignored.
func ParseRumble(out []byte) (input.Rumble, bool) {
	if len(out) < 8 || out[0] != 0x00 || out[1] != 0x08 {
		return input.Rumble{}, false
	}
	return input.Rumble{Left: out[3], Right: out[4]}, true
}
