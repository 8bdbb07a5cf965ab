package chatlock

import "fmt"

// Mode says whether chat locking is handled here or by the Key Remapping
// plugin.
type Mode int

const (
	// Disabled means the sibling plugin owns chat locking.
	Disabled Mode = iota
	// PendingEnable means the sibling was just disabled and the chat box has
	// not yet been seen in its default state.
	PendingEnable
	// Enabled means chat locking is handled here.
	Enabled
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Disabled:
		return "Disabled"
	case PendingEnable:
		return "PendingEnable"
	case Enabled:
		return "Enabled"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Handling reports whether lock requests should be issued in this mode.
func (m Mode) Handling() bool {
	return m != Disabled
}
