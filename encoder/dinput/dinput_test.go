package dinput_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/encoder/dinput"
	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/internal/log"
	"github.com/hoja-dev/hoja/led"
	"github.com/hoja-dev/hoja/power"
)

func centered() input.Analog {
	return input.Analog{LX: input.AnalogCenter, LY: input.AnalogCenter, RX: input.AnalogCenter, RY: input.AnalogCenter}
}

func TestFromFrame(t *testing.T) {
	tests := []struct {
		name string
		in   input.Frame
		want dinput.Report
	}{
		{
			name: "neutral",
			in:   input.Frame{Analog: centered()},
			want: dinput.Report{LX: 0x80, LY: 0x7f, RX: 0x80, RY: 0x7f, Hat: dinput.HatNeutral},
		},
		{
			name: "stick corners",
			in:   input.Frame{Analog: input.Analog{LX: input.AnalogMax, LY: input.AnalogMax, RX: 0, RY: 0}},
			want: dinput.Report{LX: 0xff, LY: 0x00, RX: 0x00, RY: 0xff, Hat: dinput.HatNeutral},
		},
		{
			name: "buttons and digital triggers",
			in: input.Frame{Buttons: input.Buttons{
				Digital: input.ButtonFaceDown | input.ButtonFaceLeft | input.ButtonZR | input.ButtonStart,
				System:  input.SystemHome | input.SystemCapture,
			}},
			want: dinput.Report{
				LY: 0xff, RY: 0xff, Hat: dinput.HatNeutral,
				Buttons: dinput.ButtonCross | dinput.ButtonSquare | dinput.ButtonR2 | dinput.ButtonOptions,
				Special: dinput.SpecialPS | dinput.SpecialTouch,
				R2:      0xff,
			},
		},
		{
			name: "hat diagonal",
			in:   input.Frame{Buttons: input.Buttons{Digital: input.ButtonDpadDown | input.ButtonDpadLeft}},
			want: dinput.Report{LY: 0xff, RY: 0xff, Hat: dinput.HatDownLeft},
		},
		{
			name: "opposing directions cancel",
			in:   input.Frame{Buttons: input.Buttons{Digital: input.ButtonDpadUp | input.ButtonDpadDown | input.ButtonDpadRight}},
			want: dinput.Report{LY: 0xff, RY: 0xff, Hat: dinput.HatRight},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dinput.FromFrame(tt.in))
		})
	}
}

func TestBuildReportLayout(t *testing.T) {
	r := dinput.Report{
		LX: 1, LY: 2, RX: 3, RY: 4,
		Hat:     dinput.HatLeft,
		Buttons: dinput.ButtonTriangle | dinput.ButtonL1 | dinput.ButtonR3,
		Special: dinput.SpecialPS,
		L2:      0x10, R2: 0x20,
	}
	b := r.BuildReport(0x41, 0x1234, dinput.BatteryDefault)
	require.Len(t, b, dinput.ReportSize)
	assert.Equal(t, []byte{dinput.ReportIDInput, 1, 2, 3, 4, 0x86, 0x81, 0x01 | 0x01<<2, 0x10, 0x20, 0x34, 0x12}, b[:12])
	assert.Equal(t, []byte{0x61, 0xec}, b[23:25], "resting accel z")
	assert.Equal(t, uint8(dinput.BatteryDefault), b[30])
	assert.Equal(t, dinput.TouchInactive, b[35])
	assert.Equal(t, dinput.TouchInactive, b[39])
}

func TestBatteryByte(t *testing.T) {
	assert.Equal(t, uint8(dinput.BatteryDefault), dinput.BatteryByte(power.Reading{}))
	assert.Equal(t, uint8(4), dinput.BatteryByte(power.Reading{Present: true, Level: 45}))
	assert.Equal(t, uint8(10), dinput.BatteryByte(power.Reading{Present: true, Level: 100}))
	assert.Equal(t, uint8(0x17), dinput.BatteryByte(power.Reading{Present: true, Charging: true, External: true, Level: 72}))
	assert.Equal(t, uint8(0x1b), dinput.BatteryByte(power.Reading{Present: true, Full: true, External: true, Level: 100}))
}

func TestParseOutput(t *testing.T) {
	out := make([]byte, dinput.OutputReportSize)
	out[0] = dinput.ReportIDOutput
	out[4], out[5] = 0x20, 0xc0
	out[6], out[7], out[8] = 0xff, 0x80, 0x00
	out[9], out[10] = 40, 80

	got, ok := dinput.ParseOutput(out)
	require.True(t, ok)
	assert.Equal(t, input.Rumble{Left: 0xc0, Right: 0x20}, got.Rumble)
	assert.Equal(t, "#ff8000", got.LED.Hex())
	assert.Equal(t, uint8(40), got.FlashOn)
	assert.Equal(t, uint8(80), got.FlashOff)

	_, ok = dinput.ParseOutput(out[:10])
	assert.False(t, ok)
	out[0] = 0x11
	_, ok = dinput.ParseOutput(out)
	assert.False(t, ok)
}

func TestEncoderThroughMachine(t *testing.T) {
	var out, raw bytes.Buffer
	reg := core.NewRegistry()
	var enc *dinput.Encoder
	require.NoError(t, reg.Register(core.BTDInput, func() (core.Encoder, error) {
		enc = dinput.New(&out, log.NewRaw(&raw))
		return enc, nil
	}))
	m := core.NewMachine(reg, nil, nil)
	require.NoError(t, m.Switch(core.BTDInput))

	enc.SetBattery(power.Reading{Present: true, Level: 30})
	require.NoError(t, m.Submit(input.Frame{Analog: centered()}))
	require.NoError(t, m.Submit(input.Frame{Analog: centered()}))
	require.Equal(t, 2*dinput.ReportSize, out.Len())
	second := out.Bytes()[dinput.ReportSize:]
	assert.Equal(t, uint8(1<<dinput.CounterShift), second[7])
	assert.Equal(t, uint8(3), second[30])
	assert.Contains(t, raw.String(), "dinput 64 bytes")

	var fb dinput.Output
	enc.SetOutputCallback(func(o dinput.Output) { fb = o })
	report := make([]byte, dinput.OutputReportSize)
	report[0] = dinput.ReportIDOutput
	report[8] = 0xff
	enc.HandleOutput(report)
	assert.Equal(t, led.Blue, fb.LED)

	require.NoError(t, m.Shutdown())
	assert.ErrorIs(t, enc.Encode(input.Frame{}), dinput.ErrNotStarted)
}
