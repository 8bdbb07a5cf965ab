// Package backend provides the terminal the reference client draws to and
// reads input from.
package backend

import (
	"strconv"

	"github.com/dshills/camerakeys/internal/input/key"
)

// Color is a 24-bit colour. The zero value is the terminal default.
type Color struct {
	R, G, B uint8
	Set     bool
}

// ColorDefault is the terminal's default colour.
var ColorDefault = Color{}

// RGB returns a colour from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Set: true}
}

// ParseHex parses an "rrggbb" colour as used in chat colour tags.
func ParseHex(s string) (Color, bool) {
	if len(s) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), true
}

// Attr is a set of text attributes.
type Attr uint8

const (
	AttrNone Attr = 0
	AttrBold Attr = 1 << iota
	AttrDim
	AttrReverse
	AttrUnderline
)

// Has reports whether a contains attr.
func (a Attr) Has(attr Attr) bool {
	return a&attr != 0
}

// Style is how a cell is drawn.
type Style struct {
	Foreground Color
	Background Color
	Attrs      Attr
}

// DefaultStyle is the terminal's default style.
var DefaultStyle = Style{}

// WithForeground returns s with the foreground colour replaced.
func (s Style) WithForeground(c Color) Style {
	s.Foreground = c
	return s
}

// WithBackground returns s with the background colour replaced.
func (s Style) WithBackground(c Color) Style {
	s.Background = c
	return s
}

// WithAttrs returns s with attrs added.
func (s Style) WithAttrs(attrs Attr) Style {
	s.Attrs |= attrs
	return s
}

// Cell is one screen position.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell is a blank cell in the default style.
var EmptyCell = Cell{Rune: ' '}

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventFocus
	EventInterrupt
)

// MouseButton is the button or wheel direction of a mouse event.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Event is a terminal event. Terminals only report key presses; Key is
// always a press.
type Event struct {
	Type EventType

	Key key.Event

	MouseX, MouseY int
	MouseButton    MouseButton

	Width, Height int

	Focused bool
}

// Backend is a drawing surface with an input event source.
type Backend interface {
	// Init prepares the backend. Must be called before any other method.
	Init() error

	// Shutdown restores the terminal. A blocked PollEvent returns an
	// EventNone event.
	Shutdown()

	// Size returns the current dimensions.
	Size() (width, height int)

	// SetCell sets a cell. Positions outside the screen are ignored.
	SetCell(x, y int, cell Cell)

	// GetCell returns a cell, or EmptyCell outside the screen.
	GetCell(x, y int) Cell

	// Clear blanks the screen.
	Clear()

	// Show flushes changes to the display.
	Show()

	// HideCursor hides the text cursor.
	HideCursor()

	// PollEvent blocks until the next event.
	PollEvent() Event

	// PostEvent queues a synthetic event.
	PostEvent(event Event)
}
