package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/encoder/dinput"
	"github.com/hoja-dev/hoja/event"
	"github.com/hoja-dev/hoja/input"
	"github.com/hoja-dev/hoja/power"
	"github.com/hoja-dev/hoja/result"
)

func supplyDir(t *testing.T, attrs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, v := range attrs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(v+"\n"), 0o644))
	}
	return dir
}

func TestSysfsGauge(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  power.Reading
		err   bool
	}{
		{
			name:  "discharging",
			attrs: map[string]string{"status": "Discharging", "capacity": "42"},
			want:  power.Reading{Present: true, Level: 42},
		},
		{
			name:  "charging",
			attrs: map[string]string{"status": "Charging", "capacity": "80", "present": "1"},
			want:  power.Reading{External: true, Charging: true, Present: true, Level: 80},
		},
		{
			name:  "full",
			attrs: map[string]string{"status": "Full", "capacity": "100"},
			want:  power.Reading{External: true, Full: true, Present: true, Level: 100},
		},
		{
			name:  "no cell",
			attrs: map[string]string{"status": "Not charging", "capacity": "0", "present": "0"},
			want:  power.Reading{External: true},
		},
		{name: "bad capacity", attrs: map[string]string{"status": "Full", "capacity": "101"}, err: true},
		{name: "missing status", attrs: map[string]string{"capacity": "50"}, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sysfsGauge{dir: supplyDir(t, tt.attrs)}.Read()
			if tt.err {
				assert.ErrorIs(t, err, result.ErrI2CFailure)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func startDInput(t *testing.T, h *hostLink, out *bytes.Buffer) core.Encoder {
	t.Helper()
	enc, err := NewRegistry(out, nil, h.attach).Lookup(core.BTDInput)()
	require.NoError(t, err)
	require.NoError(t, enc.Start())
	return enc
}

func TestHostLinkBatteryReachesEncoder(t *testing.T) {
	h := newHostLink(discard())
	var out bytes.Buffer
	enc := startDInput(t, h, &out)

	g := h.gauge(sysfsGauge{dir: supplyDir(t, map[string]string{"status": "Discharging", "capacity": "50"})})
	_, err := g.Read()
	require.NoError(t, err)
	require.NoError(t, enc.Encode(input.Frame{}))
	assert.Equal(t, uint8(5), out.Bytes()[30])

	// a later encoder picks up the last reading when created
	out.Reset()
	enc = startDInput(t, h, &out)
	require.NoError(t, enc.Encode(input.Frame{}))
	assert.Equal(t, uint8(5), out.Bytes()[30])
}

func TestHostLinkOutput(t *testing.T) {
	var logs bytes.Buffer
	h := newHostLink(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	report := make([]byte, dinput.OutputReportSize)
	report[0] = dinput.ReportIDOutput
	report[5] = 0x40
	report[8] = 0xff

	// dropped while nothing is attached
	require.NoError(t, h.readOutput(bytes.NewReader(report)))
	assert.NotContains(t, logs.String(), "host output")

	var out bytes.Buffer
	startDInput(t, h, &out)
	require.NoError(t, h.readOutput(bytes.NewReader(report)))
	assert.Contains(t, logs.String(), "host output")
	assert.Contains(t, logs.String(), "left=64")
	assert.Contains(t, logs.String(), "led=#0000ff")
}

func TestWatchBattery(t *testing.T) {
	var (
		mu  sync.Mutex
		got []event.Event
	)
	d := event.NewDispatcher(discard())
	for _, dom := range []event.Domain{event.DomainBoot, event.DomainCharger, event.DomainBattery} {
		d.Subscribe(dom, func(ev event.Event) {
			mu.Lock()
			got = append(got, ev)
			mu.Unlock()
		})
	}
	m := power.NewMonitor(d, discard())
	m.SetType(power.BatteryLiPo)

	h := newHostLink(discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.watchBattery(ctx, m, sysfsGauge{dir: supplyDir(t, map[string]string{"status": "Charging", "capacity": "20"})}, time.Hour)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []event.Event{event.BootPlugged, event.ChargerPlugged, event.BatteryCharging}, got)
}
