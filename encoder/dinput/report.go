package dinput

import (
	"encoding/binary"

	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/led"
	"github.com/hoja-dev/hoja/power"
)

// Report is the button and axis portion of an input report.
type Report struct {
	LX, LY, RX, RY uint8
	Hat            uint8
	Buttons        uint16
	Special        uint8
	L2, R2         uint8
}

var buttonMap = [...]struct {
	in  uint16
	out uint16
}{
	{input.ButtonFaceLeft, ButtonSquare},
	{input.ButtonFaceDown, ButtonCross},
	{input.ButtonFaceRight, ButtonCircle},
	{input.ButtonFaceUp, ButtonTriangle},
	{input.ButtonL, ButtonL1},
	{input.ButtonR, ButtonR1},
	{input.ButtonZL, ButtonL2},
	{input.ButtonZR, ButtonR2},
	{input.ButtonSelect, ButtonShare},
	{input.ButtonStart, ButtonOptions},
	{input.ButtonStickL, ButtonL3},
	{input.ButtonStickR, ButtonR3},
}

// FromFrame converts a canonical frame. Y axes are flipped so that down is
// 255, and a pressed ZL or ZR pins its analog trigger to full travel.
func FromFrame(f input.Frame) Report {
	d := f.Buttons.Digital
	r := Report{
		LX:  input.Scale8(f.Analog.LX),
		LY:  0xff - input.Scale8(f.Analog.LY),
		RX:  input.Scale8(f.Analog.RX),
		RY:  0xff - input.Scale8(f.Analog.RY),
		Hat: hat(d),
		L2:  input.Scale8(f.Analog.LT),
		R2:  input.Scale8(f.Analog.RT),
	}
	for _, m := range buttonMap {
		if d&m.in != 0 {
			r.Buttons |= m.out
		}
	}
	if d&input.ButtonZL != 0 {
		r.L2 = 0xff
	}
	if d&input.ButtonZR != 0 {
		r.R2 = 0xff
	}
	if f.Buttons.Home() {
		r.Special |= SpecialPS
	}
	if f.Buttons.Capture() {
		r.Special |= SpecialTouch
	}
	return r
}

func hat(d uint16) uint8 {
	up := d&input.ButtonDpadUp != 0
	down := d&input.ButtonDpadDown != 0
	left := d&input.ButtonDpadLeft != 0
	right := d&input.ButtonDpadRight != 0
	if up && down {
		up, down = false, false
	}
	if left && right {
		left, right = false, false
	}
	switch {
	case up && right:
		return HatUpRight
	case up && left:
		return HatUpLeft
	case down && right:
		return HatDownRight
	case down && left:
		return HatDownLeft
	case up:
		return HatUp
	case down:
		return HatDown
	case left:
		return HatLeft
	case right:
		return HatRight
	}
	return HatNeutral
}

// BuildReport lays r out as a full input report. counter is truncated to 6
// bits. Motion fields hold a resting controller and both touch points are
// inactive.
func (r Report) BuildReport(counter uint8, timestamp uint16, battery uint8) []byte {
	b := make([]byte, ReportSize)
	b[0] = ReportIDInput
	b[1] = r.LX
	b[2] = r.LY
	b[3] = r.RX
	b[4] = r.RY
	b[5] = r.Hat&HatMask | uint8(r.Buttons)&0xf0
	b[6] = uint8(r.Buttons >> 8)
	b[7] = r.Special&0x03 | (counter&0x3f)<<CounterShift
	b[8] = r.L2
	b[9] = r.R2
	binary.LittleEndian.PutUint16(b[10:12], timestamp)
	az := DefaultAccelZRaw
	binary.LittleEndian.PutUint16(b[23:25], uint16(az))
	b[30] = battery
	b[35] = TouchInactive
	b[39] = TouchInactive
	return b
}

// BatteryByte encodes a power reading for report byte 30.
func BatteryByte(r power.Reading) uint8 {
	if !r.Present {
		return BatteryDefault
	}
	level := min(r.Level/10, BatteryFull-1)
	if r.Full {
		level = BatteryFull
	}
	if r.External || r.Charging {
		level |= BatteryChargingFlag
	}
	return level
}

// Output is host feedback carried by an output report.
type Output struct {
	Rumble input.Rumble
	LED    led.RGB
	// FlashOn and FlashOff are in units of 2.5ms.
	FlashOn, FlashOff uint8
}

// ParseOutput decodes a host output report.
func ParseOutput(out []byte) (Output, bool) {
	if len(out) <= OutOffsetFlashOff || out[OutOffsetReportID] != ReportIDOutput {
		return Output{}, false
	}
	return Output{
		Rumble: input.Rumble{Left: out[OutOffsetRumbleLarge], Right: out[OutOffsetRumbleSmall]},
		LED: led.RGB{
			Red:   out[OutOffsetLedRed],
			Green: out[OutOffsetLedGreen],
			Blue:  out[OutOffsetLedBlue],
		},
		FlashOn:  out[OutOffsetFlashOn],
		FlashOff: out[OutOffsetFlashOff],
	}, true
}
