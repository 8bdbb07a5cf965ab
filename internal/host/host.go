// Package host defines the narrow surface through which the plugin reads
// from and commands the game client, and the queue that marshals commands
// onto the client's privileged context.
package host

import "fmt"

// WidgetID identifies a client widget the plugin inspects.
type WidgetID int

const (
	// WidgetChatboxParent owns the chat key listener.
	WidgetChatboxParent WidgetID = iota + 1
	// WidgetChatboxInput is the "Name: text*" input line.
	WidgetChatboxInput
	// WidgetChatboxMessages is the opaque chat history pane.
	WidgetChatboxMessages
	// WidgetChatboxTransparentLines is the transparent chat history pane.
	WidgetChatboxTransparentLines
	// WidgetWorldMapSearch is the world map search box, which steals chat input.
	WidgetWorldMapSearch
	// WidgetBankPinContainer is the bank pin keypad.
	WidgetBankPinContainer
)

var widgetNames = map[WidgetID]string{
	WidgetChatboxParent:           "chatbox_parent",
	WidgetChatboxInput:            "chatbox_input",
	WidgetChatboxMessages:         "chatbox_messages",
	WidgetChatboxTransparentLines: "chatbox_transparent_lines",
	WidgetWorldMapSearch:          "world_map_search",
	WidgetBankPinContainer:        "bank_pin_container",
}

// String returns the widget name.
func (w WidgetID) String() string {
	if name, ok := widgetNames[w]; ok {
		return name
	}
	return fmt.Sprintf("widget(%d)", int(w))
}

// ScriptID identifies a client script.
type ScriptID int

const (
	// ScriptCameraDoZoom sets the camera zoom. Arguments: fixed, resizable.
	ScriptCameraDoZoom ScriptID = 42
	// ScriptCompassOp faces the camera. Argument: Direction value.
	ScriptCompassOp ScriptID = 1050
)

// String returns the script name.
func (s ScriptID) String() string {
	switch s {
	case ScriptCameraDoZoom:
		return "camera_do_zoom"
	case ScriptCompassOp:
		return "toplevel_compass_op"
	default:
		return fmt.Sprintf("script(%d)", int(s))
	}
}

// Direction is a compass facing. Values are the compass script's op codes.
type Direction int

const (
	North Direction = 1
	South Direction = 2
	East  Direction = 3
	West  Direction = 4
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Surface is what the plugin may read from and do to the client.
//
// Reads are safe from the event context. Mutations (the setters and
// RunScript) must only be made on the privileged context; code on the event
// context posts a Command to an Invoker instead.
type Surface interface {
	// ZoomLevel returns the current camera zoom.
	ZoomLevel() int

	// ChatBoxText returns the chat input widget text; ok is false when the
	// widget does not exist (for example before login).
	ChatBoxText() (text string, ok bool)

	// SetChatBoxText replaces the chat input widget text. No-op when absent.
	SetChatBoxText(text string)

	// TypedText returns the live typed chat buffer.
	TypedText() string

	// SetTypedText replaces the live typed chat buffer.
	SetTypedText(text string)

	// ChatBoxHasFocus reports whether the chat parent exists and has its key listener.
	ChatBoxHasFocus() bool

	// WorldMapSearchFocused reports whether the world map search box exists and is focused.
	WorldMapSearchFocused() bool

	// WidgetHidden reports whether a widget is hidden. Absent widgets are hidden.
	WidgetHidden(id WidgetID) bool

	// ChatBoxTransparent reports whether the chat box draws over a transparent background.
	ChatBoxTransparent() bool

	// LoggedIn reports whether the client is in the logged-in game state.
	LoggedIn() bool

	// RunScript runs a client script.
	RunScript(id ScriptID, args ...int) error
}
