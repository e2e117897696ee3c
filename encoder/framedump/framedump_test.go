package framedump_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/encoder/framedump"
	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/internal/log"
)

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestEncodeWritesWireFrame(t *testing.T) {
	var out, raw bytes.Buffer
	reg := core.NewRegistry()
	require.NoError(t, reg.Register(core.GC, framedump.Factory(core.GC, &out, log.NewRaw(&raw))))
	m := core.NewMachine(reg, nil, nil)

	f := input.Frame{
		Analog:  input.Analog{LX: 0x123, RT: input.AnalogMax},
		Buttons: input.Buttons{Digital: input.ButtonFaceDown, Pair: 1},
	}
	require.NoError(t, m.Switch(core.GC))
	require.NoError(t, m.Submit(f))
	require.NoError(t, m.Submit(input.Frame{}))

	require.Equal(t, 2*input.FrameSize, out.Len())
	var got input.Frame
	require.NoError(t, got.UnmarshalBinary(out.Bytes()[:input.FrameSize]))
	assert.Equal(t, f, got)
	assert.Contains(t, raw.String(), "gc 17 bytes")

	require.NoError(t, m.Shutdown())
}

func TestEncodeRequiresStart(t *testing.T) {
	e := framedump.New("usb", &bytes.Buffer{}, nil)
	assert.ErrorIs(t, e.Encode(input.Frame{}), framedump.ErrNotStarted)

	require.NoError(t, e.Start())
	require.NoError(t, e.Encode(input.Frame{}))
	assert.Equal(t, uint64(1), e.Frames())

	require.NoError(t, e.Shutdown())
	assert.ErrorIs(t, e.Encode(input.Frame{}), framedump.ErrNotStarted)
}

func TestWriteError(t *testing.T) {
	e := framedump.New("n64", failWriter{}, nil)
	require.NoError(t, e.Start())
	err := e.Encode(input.Frame{})
	assert.ErrorContains(t, err, "pipe closed")
	assert.Zero(t, e.Frames())
}
