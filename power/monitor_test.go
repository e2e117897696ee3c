package power_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoja-dev/hoja/event"
	"github.com/hoja-dev/hoja/power"
	"github.com/hoja-dev/hoja/result"
)

type recorder struct{ got []event.Event }

func (r *recorder) Emit(ev event.Event) { r.got = append(r.got, ev) }

type gauge struct {
	r   power.Reading
	err error
}

func (g gauge) Read() (power.Reading, error) { return g.r, g.err }

func TestTypeMustBeSet(t *testing.T) {
	rec := &recorder{}
	m := power.NewMonitor(rec, nil)

	err := m.Update(power.Reading{External: true})
	assert.ErrorIs(t, err, result.ErrBatteryTypeNotSet)
	_, err = m.Boot(power.Reading{})
	assert.Equal(t, result.BatteryTypeNotSet, result.CodeOf(err))
	assert.ErrorIs(t, m.Poll(gauge{}), result.ErrBatteryTypeNotSet)
	assert.Empty(t, rec.got)
}

func TestGaugeErrors(t *testing.T) {
	m := power.NewMonitor(&recorder{}, nil)
	m.SetType(power.BatteryLiPo)

	err := m.Poll(gauge{err: result.NewI2CNotInitialized("gauge")})
	assert.Equal(t, result.I2CNotInitialized, result.CodeOf(err))
	err = m.Poll(gauge{err: result.NewI2CFailure("nack")})
	assert.ErrorIs(t, err, result.ErrI2CFailure)
}

func TestEdgeTriggered(t *testing.T) {
	rec := &recorder{}
	d := event.NewDispatcher(nil)
	var chargers []event.Charger
	event.On(d, func(ev event.Charger) { chargers = append(chargers, ev) })
	d.Subscribe(event.DomainBattery, rec.Emit)

	m := power.NewMonitor(d, nil)
	m.SetType(power.BatteryLiPo)

	plugged := power.Reading{External: true, Charging: true, Present: true, Level: 40}
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Poll(gauge{r: plugged}))
	}
	plugged.Level = 55
	require.NoError(t, m.Update(plugged))
	plugged.Full, plugged.Level = true, 100
	require.NoError(t, m.Update(plugged))
	require.NoError(t, m.Update(power.Reading{Present: true, Level: 100}))
	require.NoError(t, m.Update(power.Reading{External: true, Present: true, Level: 100}))

	assert.Equal(t, []event.Charger{event.ChargerPlugged, event.ChargerUnplugged, event.ChargerPlugged}, chargers)
	assert.Equal(t, []event.Event{
		event.BatteryCharging,
		event.BatteryLevelChange,
		event.BatteryChargeComplete,
		event.BatteryLevelChange,
		event.BatteryNoCharge,
	}, rec.got)
}

func TestNoBatteryBuild(t *testing.T) {
	rec := &recorder{}
	m := power.NewMonitor(rec, nil)
	m.SetType(power.BatteryNone)
	require.NoError(t, m.Update(power.Reading{External: true, Charging: true}))
	assert.Equal(t, []event.Event{event.ChargerPlugged}, rec.got)
}

func TestBoot(t *testing.T) {
	tests := []struct {
		name string
		typ  power.BatteryType
		r    power.Reading
		want event.Boot
	}{
		{name: "plugged", typ: power.BatteryLiPo, r: power.Reading{External: true, Present: true}, want: event.BootPlugged},
		{name: "unplugged", typ: power.BatteryLiPo, r: power.Reading{Present: true}, want: event.BootUnplugged},
		{name: "missing cell", typ: power.BatteryLiPo, r: power.Reading{External: true}, want: event.BootNoBattery},
		{name: "wired build", typ: power.BatteryNone, r: power.Reading{External: true}, want: event.BootNoBattery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			m := power.NewMonitor(rec, nil)
			m.SetType(tt.typ)
			got, err := m.Boot(tt.r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []event.Event{tt.want}, rec.got)
		})
	}
}
