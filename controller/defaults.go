package controller

import (
	"github.com/hoja-dev/hoja/core"
	"github.com/hoja-dev/hoja/event"
	"github.com/hoja-dev/hoja/input"
)

// DefaultCore picks the core for a controller mode at boot. wired reports a
// USB host; detect is the wired utility's console detection result and only
// matters for retro mode. Null means no core fits.
func DefaultCore(mode input.ControllerMode, wired bool, detect event.Wired) core.Mode {
	switch mode {
	case input.ControllerModeNS:
		return core.NS
	case input.ControllerModeRetro:
		switch detect {
		case event.WiredSNESDetect:
			return core.SNES
		case event.WiredJoybusDetect:
			return core.GC
		}
		return core.Null
	case input.ControllerModeXInput:
		if wired {
			return core.USB
		}
		return core.BTXInput
	case input.ControllerModeDInput:
		if wired {
			return core.USB
		}
		return core.BTDInput
	default:
		return core.Null
	}
}
