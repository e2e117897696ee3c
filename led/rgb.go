// Package led holds the status LED colour type shared with the LED driver.
package led

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RGB is a colour in the driver's byte order: blue, green, red, then one
// reserved byte. Word views the same four bytes as a little-endian uint32.
// hoja:wire rgb blue:u8 green:u8 red:u8 reserved:u8
type RGB struct {
	Blue     uint8
	Green    uint8
	Red      uint8
	Reserved uint8
}

// Some stock colours.
var (
	Off    = RGB{}
	White  = RGB{Blue: 0xff, Green: 0xff, Red: 0xff}
	Red    = RGB{Red: 0xff}
	Green  = RGB{Green: 0xff}
	Blue   = RGB{Blue: 0xff}
	Yellow = RGB{Green: 0xff, Red: 0xff}
	Purple = RGB{Blue: 0xff, Red: 0x80}
)

// Word returns the 32-bit view: blue in bits 0-7, green 8-15, red 16-23.
func (c RGB) Word() uint32 {
	return uint32(c.Blue) | uint32(c.Green)<<8 | uint32(c.Red)<<16 | uint32(c.Reserved)<<24
}

// FromWord is the inverse of Word.
func FromWord(w uint32) RGB {
	return RGB{
		Blue:     uint8(w),
		Green:    uint8(w >> 8),
		Red:      uint8(w >> 16),
		Reserved: uint8(w >> 24),
	}
}

// Scale returns c dimmed to brightness/255. The reserved byte is kept.
func (c RGB) Scale(brightness uint8) RGB {
	s := func(v uint8) uint8 { return uint8(uint16(v) * uint16(brightness) / 255) }
	return RGB{Blue: s(c.Blue), Green: s(c.Green), Red: s(c.Red), Reserved: c.Reserved}
}

// Blend mixes a towards b; t is the share of b out of 255.
func Blend(a, b RGB, t uint8) RGB {
	mix := func(x, y uint8) uint8 {
		return uint8((uint16(x)*uint16(255-t) + uint16(y)*uint16(t)) / 255)
	}
	return RGB{Blue: mix(a.Blue, b.Blue), Green: mix(a.Green, b.Green), Red: mix(a.Red, b.Red)}
}

// ParseHex reads "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("led: colour %q is not rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("led: colour %q: %w", s, err)
	}
	return RGB{Red: uint8(v >> 16), Green: uint8(v >> 8), Blue: uint8(v)}, nil
}

// Hex formats c as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}

// MarshalBinary encodes RGB to 4 bytes.
func (c *RGB) MarshalBinary() ([]byte, error) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, c.Word())
	return b, nil
}

// UnmarshalBinary decodes 4 bytes into RGB.
func (c *RGB) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return io.ErrUnexpectedEOF
	}
	*c = FromWord(binary.LittleEndian.Uint32(data))
	return nil
}

// MarshalText implements encoding.TextMarshaler so colours read naturally in
// config files.
func (c RGB) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
