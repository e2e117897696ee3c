package controller

import "fmt"

// Status is the coarse readiness of the adapter.
type Status uint8

const (
	// Idle means nothing is loaded and Init is required.
	Idle Status = iota
	// Initialized means the API is up but no core runs.
	Initialized
	// Running means a core is active and frames flow.
	Running
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// CanAdvance reports whether next is the forward transition from s. Only
// Idle->Initialized and Initialized->Running exist; going back is Reset.
func (s Status) CanAdvance(next Status) bool {
	return (s == Idle && next == Initialized) || (s == Initialized && next == Running)
}
