package dinput

const (
	ReportIDInput  = 0x01
	ReportIDOutput = 0x05
)

const (
	ReportSize       = 64
	OutputReportSize = 32
)

// Face and shoulder buttons as laid out in report bytes 5 and 6. The low
// nibble of byte 5 carries the hat.
const (
	ButtonSquare   uint16 = 0x0010
	ButtonCross    uint16 = 0x0020
	ButtonCircle   uint16 = 0x0040
	ButtonTriangle uint16 = 0x0080

	ButtonL1      uint16 = 0x0100
	ButtonR1      uint16 = 0x0200
	ButtonL2      uint16 = 0x0400
	ButtonR2      uint16 = 0x0800
	ButtonShare   uint16 = 0x1000
	ButtonOptions uint16 = 0x2000
	ButtonL3      uint16 = 0x4000
	ButtonR3      uint16 = 0x8000

	HatMask uint8 = 0x0F
)

// Report byte 7, below the frame counter.
const (
	SpecialPS    uint8 = 0x01
	SpecialTouch uint8 = 0x02

	CounterShift = 2
)

// Hat switch values, clockwise from up.
const (
	HatUp        = 0x00
	HatUpRight   = 0x01
	HatRight     = 0x02
	HatDownRight = 0x03
	HatDown      = 0x04
	HatDownLeft  = 0x05
	HatLeft      = 0x06
	HatUpLeft    = 0x07
	HatNeutral   = 0x08
)

// DefaultAccelZRaw is gravity on a controller lying flat, at 512 counts per
// m/s².
const DefaultAccelZRaw int16 = -5023

const TouchInactive uint8 = 0x80

// Battery byte: level 0-10 in the low nibble, bit 4 set on external power.
const (
	BatteryLevelMask    = 0x0F
	BatteryChargingFlag = 0x10
	BatteryFull         = 0x0B
	BatteryDefault      = BatteryChargingFlag | BatteryFull
)

// Output report offsets.
const (
	OutOffsetReportID    = 0
	OutOffsetRumbleSmall = 4
	OutOffsetRumbleLarge = 5
	OutOffsetLedRed      = 6
	OutOffsetLedGreen    = 7
	OutOffsetLedBlue     = 8
	OutOffsetFlashOn     = 9
	OutOffsetFlashOff    = 10
)
