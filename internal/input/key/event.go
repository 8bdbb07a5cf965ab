package key

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Action distinguishes key-down from key-up.
type Action uint8

const (
	// Press is a key-down, including auto-repeat.
	Press Action = iota
	// Release is a key-up.
	Release
)

// String returns the action name.
func (a Action) String() string {
	if a == Release {
		return "release"
	}
	return "press"
}

// Code identifies a physical key independent of modifiers and action.
// Character keys fold case so 'C' and 'c' share a code.
type Code uint32

// codeSpecialBase sits above the largest Unicode code point.
const codeSpecialBase Code = 0x110000

// Event is a single key-down or key-up.
type Event struct {
	// Key identifies the key.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the modifier keys held at the time of the event.
	Modifiers Modifier

	// Action is Press or Release.
	Action Action

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key-down event with the current timestamp.
func NewEvent(key Key, r rune, mods Modifier) Event {
	return Event{
		Key:       key,
		Rune:      r,
		Modifiers: mods,
		Action:    Press,
		Timestamp: time.Now(),
	}
}

// NewRuneEvent creates a key-down event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return NewEvent(KeyRune, r, mods)
}

// NewSpecialEvent creates a key-down event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return NewEvent(key, 0, mods)
}

// Released returns a copy of e as a key-up.
func (e Event) Released() Event {
	e.Action = Release
	return e
}

// IsRelease reports whether e is a key-up.
func (e Event) IsRelease() bool {
	return e.Action == Release
}

// Code returns the key code of e.
func (e Event) Code() Code {
	if e.Key == KeyRune {
		return Code(unicode.ToLower(e.Rune))
	}
	return codeSpecialBase + Code(e.Key)
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune)
}

// IsEscape returns true if this is the Escape key.
func (e Event) IsEscape() bool {
	return e.Key == KeyEscape
}

// IsEnter returns true if this is the Enter key.
func (e Event) IsEnter() bool {
	return e.Key == KeyEnter
}

// IsBackspace returns true if this is Backspace.
func (e Event) IsBackspace() bool {
	return e.Key == KeyBackspace
}

// Equals returns true if two events are the same key with the same modifiers.
// Timestamps and actions are not compared.
func (e Event) Equals(other Event) bool {
	return e.Code() == other.Code() && e.Modifiers == other.Modifiers
}

// String returns a canonical representation such as "c", "Ctrl+n" or "Shift+F1".
func (e Event) String() string {
	var name string
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		name = "Space"
	case e.Key == KeyRune:
		name = string(e.Rune)
	default:
		name = e.Key.String()
	}

	mods := e.Modifiers
	// Shift is already part of an uppercase character.
	if e.IsRune() && unicode.IsUpper(e.Rune) {
		mods = mods.Without(ModShift)
	}
	if mods == ModNone {
		return name
	}
	return mods.String() + "+" + name
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s, Action: %s}",
		e.Key.String(), e.Rune, strings.TrimSpace(e.Modifiers.String()), e.Action)
}
