// Package input holds the canonical per-cycle controller state and its wire
// layouts.
package input

import (
	"encoding/binary"
	"io"
)

// Analog holds one cycle of stick and trigger readings. Each value carries
// 12 bits of precision in a 16-bit field; upper bits are not meaningful.
// hoja:wire analog lsX:u16 lsY:u16 rsX:u16 rsY:u16 ltA:u16 rtA:u16
type Analog struct {
	LX, LY uint16
	RX, RY uint16
	LT, RT uint16
}

// Axis returns the raw value of the given axis.
func (a *Analog) Axis(ax Axis) uint16 {
	switch ax {
	case AxisLeftX:
		return a.LX
	case AxisLeftY:
		return a.LY
	case AxisRightX:
		return a.RX
	case AxisRightY:
		return a.RY
	case AxisTriggerL:
		return a.LT
	case AxisTriggerR:
		return a.RT
	default:
		return 0
	}
}

// Masked returns a copy with every axis reduced to its low 12 bits.
func (a Analog) Masked() Analog {
	return Analog{
		LX: a.LX & AnalogMask, LY: a.LY & AnalogMask,
		RX: a.RX & AnalogMask, RY: a.RY & AnalogMask,
		LT: a.LT & AnalogMask, RT: a.RT & AnalogMask,
	}
}

// Scale8 converts a 12-bit reading to 0-255. Out of range input saturates.
func Scale8(v uint16) uint8 {
	if v > AnalogMax {
		v = AnalogMax
	}
	return uint8(v >> (AnalogBits - 8))
}

// ScaleSigned16 converts a 12-bit reading centred on AnalogCenter to a
// signed 16-bit axis. Out of range input saturates.
func ScaleSigned16(v uint16) int16 {
	if v > AnalogMax {
		v = AnalogMax
	}
	c := int32(v) - AnalogCenter
	if c < 0 {
		return int16(c * 16)
	}
	// 2047 steps above centre map onto 32767.
	return int16(c * 32767 / (AnalogMax - AnalogCenter))
}

// MarshalBinary encodes Analog to 12 bytes.
func (a *Analog) MarshalBinary() ([]byte, error) {
	b := make([]byte, AnalogSize)
	a.put(b)
	return b, nil
}

func (a *Analog) put(b []byte) {
	binary.LittleEndian.PutUint16(b[0:2], a.LX)
	binary.LittleEndian.PutUint16(b[2:4], a.LY)
	binary.LittleEndian.PutUint16(b[4:6], a.RX)
	binary.LittleEndian.PutUint16(b[6:8], a.RY)
	binary.LittleEndian.PutUint16(b[8:10], a.LT)
	binary.LittleEndian.PutUint16(b[10:12], a.RT)
}

// UnmarshalBinary decodes 12 bytes into Analog. Values above AnalogMax are
// kept as-is.
func (a *Analog) UnmarshalBinary(data []byte) error {
	if len(data) < AnalogSize {
		return io.ErrUnexpectedEOF
	}
	a.LX = binary.LittleEndian.Uint16(data[0:2])
	a.LY = binary.LittleEndian.Uint16(data[2:4])
	a.RX = binary.LittleEndian.Uint16(data[4:6])
	a.RY = binary.LittleEndian.Uint16(data[6:8])
	a.LT = binary.LittleEndian.Uint16(data[8:10])
	a.RT = binary.LittleEndian.Uint16(data[10:12])
	return nil
}

// Buttons is the digital half of a frame.
// hoja:wire buttons digital:u16 system:u8 sleep:u8 pair:u8
type Buttons struct {
	// Digital holds the 16 remappable buttons, see Button* masks.
	Digital uint16
	// System holds capture and home, see System* masks.
	System uint8
	Sleep  uint8
	Pair   uint8
}

// Pressed reports whether every bit of mask is set in Digital.
func (b Buttons) Pressed(mask uint16) bool {
	return b.Digital&mask == mask
}

// Capture reports the capture system button.
func (b Buttons) Capture() bool { return b.System&SystemCapture != 0 }

// Home reports the home system button.
func (b Buttons) Home() bool { return b.System&SystemHome != 0 }

// MarshalBinary encodes Buttons to 5 bytes. Reserved system bits are written
// as zero.
func (b *Buttons) MarshalBinary() ([]byte, error) {
	out := make([]byte, ButtonsSize)
	b.put(out)
	return out, nil
}

func (b *Buttons) put(out []byte) {
	binary.LittleEndian.PutUint16(out[0:2], b.Digital)
	out[2] = b.System & systemMask
	out[3] = b.Sleep
	out[4] = b.Pair
}

// UnmarshalBinary decodes 5 bytes into Buttons.
func (b *Buttons) UnmarshalBinary(data []byte) error {
	if len(data) < ButtonsSize {
		return io.ErrUnexpectedEOF
	}
	b.Digital = binary.LittleEndian.Uint16(data[0:2])
	b.System = data[2] & systemMask
	b.Sleep = data[3]
	b.Pair = data[4]
	return nil
}

// Frame is one polling cycle's complete reading.
// hoja:wire frame analog:analog buttons:buttons
type Frame struct {
	Analog  Analog
	Buttons Buttons
}

// MarshalBinary encodes a Frame to FrameSize bytes: analog first, then buttons.
func (f *Frame) MarshalBinary() ([]byte, error) {
	b := make([]byte, FrameSize)
	f.Analog.put(b[:AnalogSize])
	f.Buttons.put(b[AnalogSize:])
	return b, nil
}

// UnmarshalBinary decodes FrameSize bytes into a Frame.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < FrameSize {
		return io.ErrUnexpectedEOF
	}
	if err := f.Analog.UnmarshalBinary(data[:AnalogSize]); err != nil {
		return err
	}
	return f.Buttons.UnmarshalBinary(data[AnalogSize:])
}

// Rumble is the wire format for rumble amplitudes sent back to the adapter.
// hoja:wire rumble left:u8 right:u8
type Rumble struct {
	Left  uint8
	Right uint8
}

// MarshalBinary encodes Rumble to 2 bytes.
func (r *Rumble) MarshalBinary() ([]byte, error) {
	return []byte{r.Left, r.Right}, nil
}

// UnmarshalBinary decodes 2 bytes into Rumble.
func (r *Rumble) UnmarshalBinary(data []byte) error {
	if len(data) < RumbleSize {
		return io.ErrUnexpectedEOF
	}
	r.Left = data[0]
	r.Right = data[1]
	return nil
}
