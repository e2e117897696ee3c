// Package event defines the adapter's cross-subsystem notifications and the
// dispatcher that routes them.
//
// Every event belongs to exactly one Domain, and each domain has its own
// sub-event type. A sub-code is only ever decoded with its own domain's
// enumeration: Decode picks the type from the envelope's domain, and handlers
// registered with On receive the concrete type.
package event

import (
	"errors"
	"fmt"
	"io"
)

// Domain identifies the subsystem an event belongs to.
type Domain uint8

const (
	DomainBluetooth Domain = iota
	DomainSystem
	DomainUSB
	DomainGameCube
	DomainSwitch
	DomainInput
	DomainWired
	DomainBoot
	DomainBattery
	DomainCharger

	// Domains is the number of domains.
	Domains = 10
)

var domainNames = [Domains]string{
	"bluetooth", "system", "usb", "gamecube", "switch",
	"input", "wired", "boot", "battery", "charger",
}

func (d Domain) String() string {
	if d < Domains {
		return domainNames[d]
	}
	return fmt.Sprintf("Domain(%d)", uint8(d))
}

// Valid reports whether d is one of the ten domains.
func (d Domain) Valid() bool { return d < Domains }

// Event is implemented only by the sub-event types of this package.
type Event interface {
	Domain() Domain
	Code() uint8
	String() string
	event()
}

// Bluetooth link events.
type BT uint8

const (
	BTStarted BT = iota
	BTConnecting
	BTPairing
	BTConnected
	BTDisconnected
	btCount
)

// System events. EncoderFault reports that the active protocol core failed
// and can no longer encode.
type System uint8

const (
	SystemInitOK System = iota
	SystemShutdown
	SystemReboot
	SystemPlayerNum
	SystemRumble
	SystemEncoderFault
	systemCount
)

// USB core events.
type USB uint8

const (
	USBConnected USB = iota
	USBDisconnected
	usbCount
)

// GameCube console events.
type GC uint8

const (
	GCConnected GC = iota
	GCDisconnected
	GCRumble
	gcCount
)

// Switch console events.
type NS uint8

const (
	NSConnected NS = iota
	NSDisconnected
	NSPlayerNum
	nsCount
)

// Input pipeline events.
type Input uint8

const (
	InputCalibrationStart Input = iota
	InputCalibrationStop
	InputRemapLoaded
	inputCount
)

// Wired utility detection results.
type Wired uint8

const (
	WiredNoDetect Wired = iota
	WiredSNESDetect
	WiredJoybusDetect
	wiredCount
)

// Boot power-source classification.
type Boot uint8

const (
	BootPlugged Boot = iota
	BootUnplugged
	BootNoBattery
	bootCount
)

// Battery utility events.
type Battery uint8

const (
	BatteryCharging Battery = iota
	BatteryChargeComplete
	BatteryLevelChange
	BatteryNoCharge
	batteryCount
)

// Charger plug events.
type Charger uint8

const (
	ChargerPlugged Charger = iota
	ChargerUnplugged
	chargerCount
)

var (
	btNames      = [btCount]string{"started", "connecting", "pairing", "connected", "disconnected"}
	systemNames  = [systemCount]string{"init_ok", "shutdown", "reboot", "player_num", "rumble", "encoder_fault"}
	usbNames     = [usbCount]string{"connected", "disconnected"}
	gcNames      = [gcCount]string{"connected", "disconnected", "rumble"}
	nsNames      = [nsCount]string{"connected", "disconnected", "player_num"}
	inputNames   = [inputCount]string{"calibration_start", "calibration_stop", "remap_loaded"}
	wiredNames   = [wiredCount]string{"no_detect", "snes_detect", "joybus_detect"}
	bootNames    = [bootCount]string{"plugged", "unplugged", "no_battery"}
	batteryNames = [batteryCount]string{"charging", "charge_complete", "level_change", "no_charge"}
	chargerNames = [chargerCount]string{"plugged", "unplugged"}
)

func name(d Domain, names []string, code uint8) string {
	if int(code) < len(names) {
		return d.String() + "/" + names[code]
	}
	return fmt.Sprintf("%s/%d", d, code)
}

func (BT) Domain() Domain   { return DomainBluetooth }
func (e BT) Code() uint8    { return uint8(e) }
func (e BT) String() string { return name(DomainBluetooth, btNames[:], uint8(e)) }
func (BT) event()           {}

func (System) Domain() Domain   { return DomainSystem }
func (e System) Code() uint8    { return uint8(e) }
func (e System) String() string { return name(DomainSystem, systemNames[:], uint8(e)) }
func (System) event()           {}

func (USB) Domain() Domain   { return DomainUSB }
func (e USB) Code() uint8    { return uint8(e) }
func (e USB) String() string { return name(DomainUSB, usbNames[:], uint8(e)) }
func (USB) event()           {}

func (GC) Domain() Domain   { return DomainGameCube }
func (e GC) Code() uint8    { return uint8(e) }
func (e GC) String() string { return name(DomainGameCube, gcNames[:], uint8(e)) }
func (GC) event()           {}

func (NS) Domain() Domain   { return DomainSwitch }
func (e NS) Code() uint8    { return uint8(e) }
func (e NS) String() string { return name(DomainSwitch, nsNames[:], uint8(e)) }
func (NS) event()           {}

func (Input) Domain() Domain   { return DomainInput }
func (e Input) Code() uint8    { return uint8(e) }
func (e Input) String() string { return name(DomainInput, inputNames[:], uint8(e)) }
func (Input) event()           {}

func (Wired) Domain() Domain   { return DomainWired }
func (e Wired) Code() uint8    { return uint8(e) }
func (e Wired) String() string { return name(DomainWired, wiredNames[:], uint8(e)) }
func (Wired) event()           {}

func (Boot) Domain() Domain   { return DomainBoot }
func (e Boot) Code() uint8    { return uint8(e) }
func (e Boot) String() string { return name(DomainBoot, bootNames[:], uint8(e)) }
func (Boot) event()           {}

func (Battery) Domain() Domain   { return DomainBattery }
func (e Battery) Code() uint8    { return uint8(e) }
func (e Battery) String() string { return name(DomainBattery, batteryNames[:], uint8(e)) }
func (Battery) event()           {}

func (Charger) Domain() Domain   { return DomainCharger }
func (e Charger) Code() uint8    { return uint8(e) }
func (e Charger) String() string { return name(DomainCharger, chargerNames[:], uint8(e)) }
func (Charger) event()           {}

type subEvent interface {
	~uint8
	Event
}

func decoder[E subEvent](count int) func(uint8) (Event, bool) {
	return func(code uint8) (Event, bool) {
		if int(code) >= count {
			return nil, false
		}
		return E(code), true
	}
}

var decoders = [Domains]func(uint8) (Event, bool){
	DomainBluetooth: decoder[BT](int(btCount)),
	DomainSystem:    decoder[System](int(systemCount)),
	DomainUSB:       decoder[USB](int(usbCount)),
	DomainGameCube:  decoder[GC](int(gcCount)),
	DomainSwitch:    decoder[NS](int(nsCount)),
	DomainInput:     decoder[Input](int(inputCount)),
	DomainWired:     decoder[Wired](int(wiredCount)),
	DomainBoot:      decoder[Boot](int(bootCount)),
	DomainBattery:   decoder[Battery](int(batteryCount)),
	DomainCharger:   decoder[Charger](int(chargerCount)),
}

var (
	ErrUnknownDomain = errors.New("event: unknown domain")
	ErrUnknownCode   = errors.New("event: sub-code not defined for domain")
)

// EnvelopeSize is the wire size of an Envelope.
const EnvelopeSize = 2

// Envelope is the flat wire form of an event.
// hoja:wire event domain:u8 code:u8
type Envelope struct {
	Domain Domain
	Code   uint8
}

// Encode flattens ev.
func Encode(ev Event) Envelope {
	return Envelope{Domain: ev.Domain(), Code: ev.Code()}
}

// Decode returns the typed event for env, using only env.Domain's
// enumeration.
func Decode(env Envelope) (Event, error) {
	if !env.Domain.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDomain, uint8(env.Domain))
	}
	ev, ok := decoders[env.Domain](env.Code)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%d", ErrUnknownCode, env.Domain, env.Code)
	}
	return ev, nil
}

// MarshalBinary encodes Envelope to 2 bytes.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	return []byte{uint8(e.Domain), e.Code}, nil
}

// UnmarshalBinary decodes 2 bytes into Envelope without validating them.
func (e *Envelope) UnmarshalBinary(data []byte) error {
	if len(data) < EnvelopeSize {
		return io.ErrUnexpectedEOF
	}
	e.Domain = Domain(data[0])
	e.Code = data[1]
	return nil
}
