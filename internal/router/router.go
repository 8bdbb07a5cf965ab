// Package router turns raw key events into zoom, compass and chat typing
// actions.
//
// Hotkeys only fire while the chat box has exclusive input, the user is not
// composing a message and no dialog that takes key input is open. A held
// key fires once; auto-repeat presses are suppressed until its release.
package router

import (
	"fmt"

	"github.com/dshills/camerakeys/internal/chatlock"
	"github.com/dshills/camerakeys/internal/config"
	"github.com/dshills/camerakeys/internal/host"
	"github.com/dshills/camerakeys/internal/input/key"
	"github.com/dshills/camerakeys/internal/logging"
	"github.com/dshills/camerakeys/internal/zoom"
)

// Action is something a key event did.
type Action int

const (
	// ActionZoomPress is a zoom keybind press sent to the zoom controller.
	ActionZoomPress Action = iota
	// ActionZoomRelease is a zoom keybind release sent to the zoom controller.
	ActionZoomRelease
	// ActionFaceNorth posts a compass op turning the camera north.
	ActionFaceNorth
	// ActionFaceEast posts a compass op turning the camera east.
	ActionFaceEast
	// ActionFaceSouth posts a compass op turning the camera south.
	ActionFaceSouth
	// ActionFaceWest posts a compass op turning the camera west.
	ActionFaceWest
	// ActionEnterTyping starts a typing session.
	ActionEnterTyping
	// ActionExitTyping ends a typing session.
	ActionExitTyping
)

var actionNames = [...]string{
	ActionZoomPress:   "zoom_press",
	ActionZoomRelease: "zoom_release",
	ActionFaceNorth:   "face_north",
	ActionFaceEast:    "face_east",
	ActionFaceSouth:   "face_south",
	ActionFaceWest:    "face_west",
	ActionEnterTyping: "enter_typing",
	ActionExitTyping:  "exit_typing",
}

// String returns the action name.
func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ActionFunc observes dispatched actions.
type ActionFunc func(Action)

// SettingsFunc returns the current settings. It is called on every event so
// keybind changes apply immediately.
type SettingsFunc func() config.Settings

// Router dispatches key events. It is not safe for concurrent use; events
// must arrive on the same context as ticks.
type Router struct {
	surface  host.Surface
	zoom     *zoom.Controller
	chat     *chatlock.Coordinator
	invoker  host.Invoker
	settings SettingsFunc

	// Key codes pressed and not yet released.
	suppressed map[key.Code]struct{}

	logger   *logging.Logger
	onAction ActionFunc
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithActionFunc registers an observer for dispatched actions.
func WithActionFunc(fn ActionFunc) Option {
	return func(r *Router) {
		r.onAction = fn
	}
}

// New creates a router. Compass commands are posted to invoker.
func New(surface host.Surface, zc *zoom.Controller, chat *chatlock.Coordinator, invoker host.Invoker, settings SettingsFunc, opts ...Option) *Router {
	r := &Router{
		surface:    surface,
		zoom:       zc,
		chat:       chat,
		invoker:    invoker,
		settings:   settings,
		suppressed: make(map[key.Code]struct{}),
		logger:     logging.Null,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("router")
	return r
}

// ChatboxFocused reports whether the chat box has exclusive input. The
// world map search box takes chat input while the chat listener stays.
func (r *Router) ChatboxFocused() bool {
	return r.surface.ChatBoxHasFocus() && !r.surface.WorldMapSearchFocused()
}

// DialogOpen reports whether a dialog that reads key input is open: one
// that hides the chat history, or the bank pin keypad.
func (r *Router) DialogOpen() bool {
	return r.surface.WidgetHidden(host.WidgetChatboxMessages) ||
		r.surface.WidgetHidden(host.WidgetChatboxTransparentLines) ||
		!r.surface.WidgetHidden(host.WidgetBankPinContainer)
}

// Suppressed reports whether code is held and already handled.
func (r *Router) Suppressed(code key.Code) bool {
	_, ok := r.suppressed[code]
	return ok
}

// KeyPressed handles a key-down event and reports whether the host must
// not process the key any further.
func (r *Router) KeyPressed(ev key.Event) (consume bool) {
	if !r.ChatboxFocused() {
		return false
	}
	if r.chat.Typing() {
		return r.whileTyping(ev)
	}

	code := ev.Code()
	if !r.Suppressed(code) && !r.DialogOpen() {
		r.dispatchHotkeys(ev)
	}

	if startsTyping(ev) {
		r.chat.EnterTyping()
		r.emit(ActionEnterTyping)
	}

	r.suppressed[code] = struct{}{}
	return false
}

// KeyReleased handles a key-up event.
func (r *Router) KeyReleased(ev key.Event) {
	s := r.settings()
	if s.ZoomKey.MatchesCode(ev) {
		r.zoom.OnKey(false, s.ActivationType)
		r.emit(ActionZoomRelease)
	}
	delete(r.suppressed, ev.Code())
}

// Reset forgets held keys, e.g. after focus loss.
func (r *Router) Reset() {
	clear(r.suppressed)
}

// dispatchHotkeys fires every matching keybind; bindings are independent.
func (r *Router) dispatchHotkeys(ev key.Event) {
	s := r.settings()

	if s.ZoomKeyEnabled && s.ZoomKey.Matches(ev) {
		r.zoom.OnKey(true, s.ActivationType)
		r.emit(ActionZoomPress)
	}

	if !s.CompassKeysEnabled {
		return
	}
	compass := []struct {
		bind   key.Keybind
		dir    host.Direction
		action Action
	}{
		{s.NorthKey, host.North, ActionFaceNorth},
		{s.EastKey, host.East, ActionFaceEast},
		{s.SouthKey, host.South, ActionFaceSouth},
		{s.WestKey, host.West, ActionFaceWest},
	}
	for _, c := range compass {
		if c.bind.Matches(ev) {
			r.invoker.Invoke(host.SetCompass{Direction: c.dir})
			r.emit(c.action)
		}
	}
}

func (r *Router) whileTyping(ev key.Event) bool {
	switch {
	case ev.IsEscape():
		r.emit(ActionExitTyping)
		return r.chat.ExitTyping(true)
	case ev.IsEnter():
		r.emit(ActionExitTyping)
		r.chat.ExitTyping(false)
	case ev.IsBackspace():
		// Only the backspace that finds the buffer already empty exits.
		if r.surface.TypedText() == "" {
			r.emit(ActionExitTyping)
			r.chat.ExitTyping(false)
		}
	}
	return false
}

func (r *Router) emit(a Action) {
	r.logger.Debug("%s", a)
	if r.onAction != nil {
		r.onAction(a)
	}
}

func startsTyping(ev key.Event) bool {
	if ev.IsEnter() {
		return true
	}
	return ev.Key == key.KeyRune && (ev.Rune == '/' || ev.Rune == ':')
}
