// Package power turns battery gauge and charger readings into edge-triggered
// Battery, Charger and Boot events.
package power

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/hoja-dev/hoja/event"
	"github.com/hoja-dev/hoja/result"
)

// BatteryType must be configured before readings are interpreted.
type BatteryType uint8

const (
	BatteryUnset BatteryType = iota
	// BatteryNone is a wired-only build with no cell fitted.
	BatteryNone
	BatteryLiPo
)

func (t BatteryType) String() string {
	switch t {
	case BatteryUnset:
		return "unset"
	case BatteryNone:
		return "none"
	case BatteryLiPo:
		return "lipo"
	default:
		return fmt.Sprintf("BatteryType(%d)", uint8(t))
	}
}

// Reading is one sample from the charger and fuel gauge.
type Reading struct {
	// External is true while USB or a charger supplies power.
	External bool
	Charging bool
	Full     bool
	// Present is false when the gauge sees no cell.
	Present bool
	// Level is the state of charge in percent.
	Level uint8
}

// Gauge reads the power hardware. Bus problems surface as result.Error
// values such as result.ErrI2CFailure.
type Gauge interface {
	Read() (Reading, error)
}

// DefaultLevelStep is the percentage change that triggers a LevelChange.
const DefaultLevelStep = 10

// Monitor interprets readings for one battery type.
type Monitor struct {
	logger *slog.Logger
	out    event.Emitter
	edge   *event.Edge

	mu        sync.Mutex
	typ       BatteryType
	levelStep uint8
	bucket    int
}

// NewMonitor returns a monitor with no battery type configured.
func NewMonitor(out event.Emitter, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger:    logger,
		out:       out,
		edge:      event.NewEdge(out),
		levelStep: DefaultLevelStep,
		bucket:    -1,
	}
}

// SetType configures the battery type.
func (m *Monitor) SetType(t BatteryType) {
	m.mu.Lock()
	m.typ = t
	m.mu.Unlock()
}

// SetLevelStep sets how many percent the level must move between
// LevelChange events. Zero restores DefaultLevelStep.
func (m *Monitor) SetLevelStep(step uint8) {
	if step == 0 {
		step = DefaultLevelStep
	}
	m.mu.Lock()
	m.levelStep = step
	m.bucket = -1
	m.mu.Unlock()
}

func (m *Monitor) batteryType() (BatteryType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.typ == BatteryUnset {
		return m.typ, result.NewBatteryTypeNotSet("power monitor")
	}
	return m.typ, nil
}

// Poll reads g once and feeds the reading to Update.
func (m *Monitor) Poll(g Gauge) error {
	if _, err := m.batteryType(); err != nil {
		return err
	}
	r, err := g.Read()
	if err != nil {
		return fmt.Errorf("read gauge: %w", err)
	}
	return m.Update(r)
}

// Update emits the Charger and Battery transitions implied by r.
func (m *Monitor) Update(r Reading) error {
	typ, err := m.batteryType()
	if err != nil {
		return err
	}

	if r.External {
		m.edge.Emit(event.ChargerPlugged)
	} else {
		m.edge.Emit(event.ChargerUnplugged)
	}

	if typ == BatteryNone || !r.Present {
		return nil
	}

	switch {
	case !r.External:
		// next plug-in must report its state again
		m.edge.Reset(event.DomainBattery)
	case r.Full:
		m.edge.Emit(event.BatteryChargeComplete)
	case r.Charging:
		m.edge.Emit(event.BatteryCharging)
	default:
		m.edge.Emit(event.BatteryNoCharge)
	}

	m.mu.Lock()
	b := int(r.Level) / int(m.levelStep)
	changed := m.bucket >= 0 && b != m.bucket
	m.bucket = b
	m.mu.Unlock()
	if changed {
		m.logger.Debug("battery level changed", "level", r.Level)
		m.out.Emit(event.BatteryLevelChange)
	}
	return nil
}

// Boot classifies the power source at boot and emits it.
func (m *Monitor) Boot(r Reading) (event.Boot, error) {
	typ, err := m.batteryType()
	if err != nil {
		return event.BootNoBattery, err
	}
	var ev event.Boot
	switch {
	case typ == BatteryNone || !r.Present:
		ev = event.BootNoBattery
	case r.External:
		ev = event.BootPlugged
	default:
		ev = event.BootUnplugged
	}
	m.logger.Info("boot power source", "source", ev.String(), "battery", typ.String())
	m.edge.Emit(ev)
	return ev, nil
}
