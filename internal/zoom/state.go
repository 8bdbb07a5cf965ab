// Package zoom implements the zoom key state machine: how presses and
// releases of the zoom key become camera zoom changes, and when a manual
// scroll cancels an active zoom.
package zoom

import (
	"fmt"
	"strings"
)

// State is the zoom session state.
type State int

const (
	// Off means no zoom is in effect.
	Off State = iota
	// Zooming means the next tick applies the configured level and goes On.
	Zooming
	// Setting means the next tick applies the configured level once and goes Off.
	Setting
	// Resetting means the next tick restores the previous level and goes Off.
	Resetting
	// On means the configured level is in effect and will be restored on release.
	On
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Off:
		return "Off"
	case Zooming:
		return "Zooming"
	case Setting:
		return "Setting"
	case Resetting:
		return "Resetting"
	case On:
		return "On"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ActivationMode is how the zoom key maps to zoom state.
type ActivationMode int

const (
	// Hold zooms while the key is held and restores on release.
	Hold ActivationMode = iota
	// Toggle zooms on one press and restores on the next.
	Toggle
	// Set applies the configured level once without restoring.
	Set
)

// String returns the mode name as written in settings.
func (m ActivationMode) String() string {
	switch m {
	case Hold:
		return "Hold"
	case Toggle:
		return "Toggle"
	case Set:
		return "Set"
	default:
		return fmt.Sprintf("ActivationMode(%d)", int(m))
	}
}

// ParseActivationMode parses a mode name (case-insensitive).
func ParseActivationMode(s string) (ActivationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hold":
		return Hold, nil
	case "toggle":
		return Toggle, nil
	case "set":
		return Set, nil
	default:
		return Hold, fmt.Errorf("unknown activation type %q", s)
	}
}
