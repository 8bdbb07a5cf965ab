package host

import "fmt"

// Command is a host mutation requested by the plugin core. The set is
// closed: SetZoom, SetCompass, LockChat, UnlockChat and ClearTypedText.
type Command interface {
	fmt.Stringer
	command()
}

// SetZoom sets the camera zoom. The client may clamp the level.
type SetZoom struct {
	Level int
}

// SetCompass faces the camera in a compass direction.
type SetCompass struct {
	Direction Direction
}

// LockChat replaces the chat input with the locked placeholder.
type LockChat struct{}

// UnlockChat restores the chat input to the live typed buffer.
type UnlockChat struct{}

// ClearTypedText empties the live typed buffer.
type ClearTypedText struct{}

func (SetZoom) command()        {}
func (SetCompass) command()     {}
func (LockChat) command()       {}
func (UnlockChat) command()     {}
func (ClearTypedText) command() {}

func (c SetZoom) String() string      { return fmt.Sprintf("set zoom to %d", c.Level) }
func (c SetCompass) String() string   { return "face " + c.Direction.String() }
func (LockChat) String() string       { return "lock chat" }
func (UnlockChat) String() string     { return "unlock chat" }
func (ClearTypedText) String() string { return "clear typed text" }
