// Package client simulates the game client the plugin runs in: the chat
// box widgets, client variables, camera and game state, plus a stand-in
// for the Key Remapping plugin.
//
// A Client is not safe for concurrent use. The application drives key
// events, ticks and drawing from one goroutine, which is the client
// thread the plugin expects.
package client

import (
	"context"
	"fmt"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/camerakeys/internal/client/script"
	"github.com/dshills/camerakeys/internal/input/key"
	"github.com/dshills/camerakeys/internal/logging"
)

// Client variable names shared with the scripts.
const (
	VarZoom            = "zoom"
	VarCameraYaw       = "camera_yaw"
	VarResized         = "resized"
	VarTransparentChat = "transparent_chat"
	VarTypedText       = "typed_text"
	VarChatInput       = "chat_input"
	VarPlayerName      = "player_name"
)

// ScrollStep is the zoom change per mouse wheel notch.
const ScrollStep = 24

// DefaultZoom is the camera zoom after login.
const DefaultZoom = 512

// KeyListener receives key events before the client handles them. The
// plugin implements it.
type KeyListener interface {
	// KeyPressed reports whether the client must drop the key.
	KeyPressed(ev key.Event) bool
	KeyReleased(ev key.Event)
	// OnScriptCallback answers a callback raised by a client script.
	OnScriptCallback(name string) bool
}

// Client is the simulated game client.
type Client struct {
	engine *script.Engine

	ints map[string]int
	strs map[string]string

	loggedIn      bool
	chatListener  bool
	dialogOpen    bool
	bankPinOpen   bool
	mapSearchOpen bool
	mapSearch     string

	messages []string
	sibling  *Sibling
	listener KeyListener

	logger *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPlayerName sets the name shown before the chat input.
func WithPlayerName(name string) Option {
	return func(c *Client) {
		c.strs[VarPlayerName] = name
	}
}

// WithSibling attaches the Key Remapping stand-in.
func WithSibling(s *Sibling) Option {
	return func(c *Client) {
		c.sibling = s
	}
}

// New creates a logged-in client with an empty, focused chat box.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		ints: map[string]int{
			VarZoom: DefaultZoom,
		},
		strs: map[string]string{
			VarPlayerName: "Player",
		},
		loggedIn:     true,
		chatListener: true,
		logger:       logging.Null,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("client")

	engine, err := script.New(c)
	if err != nil {
		return nil, fmt.Errorf("loading client scripts: %w", err)
	}
	c.engine = engine
	if c.sibling != nil {
		c.sibling.attach(c)
	}
	c.rebuildChatInput()
	return c, nil
}

// Close releases the script engine.
func (c *Client) Close() {
	c.engine.Close()
}

// Engine returns the script engine.
func (c *Client) Engine() *script.Engine {
	return c.engine
}

// SetKeyListener installs the listener that sees keys first. Nil removes it.
func (c *Client) SetKeyListener(l KeyListener) {
	c.listener = l
}

// Sibling returns the Key Remapping stand-in, or nil.
func (c *Client) Sibling() *Sibling {
	return c.sibling
}

// KeyPressed delivers a key-down event: first to the listener, then, unless
// consumed, to the focused input.
func (c *Client) KeyPressed(ev key.Event) {
	if c.listener != nil && c.listener.KeyPressed(ev) {
		return
	}
	if c.sibling != nil && c.sibling.KeyPressed(ev) {
		return
	}
	if !c.loggedIn {
		return
	}
	if c.mapSearchOpen {
		c.mapSearchKey(ev)
		return
	}
	if c.bankPinOpen || c.dialogOpen || !c.chatListener {
		return
	}
	c.chatKey(ev)
}

// KeyReleased delivers a key-up event.
func (c *Client) KeyReleased(ev key.Event) {
	if c.listener != nil {
		c.listener.KeyReleased(ev)
	}
}

func (c *Client) chatKey(ev key.Event) {
	switch {
	case ev.IsEnter():
		typed := c.strs[VarTypedText]
		if typed != "" {
			c.messages = append(c.messages, c.strs[VarPlayerName]+": "+typed)
			c.strs[VarTypedText] = ""
		}
		c.rebuildChatInput()
	case ev.IsBackspace():
		c.callScript("chatbox_backspace")
	case ev.IsChar() && !ev.Modifiers.Has(key.ModCtrl) && !ev.Modifiers.Has(key.ModAlt):
		c.callScript("chatbox_key_typed", lua.LString(string(ev.Rune)))
	}
}

func (c *Client) mapSearchKey(ev key.Event) {
	switch {
	case ev.IsEnter(), ev.IsEscape():
		c.mapSearchOpen = false
	case ev.IsBackspace():
		_, size := utf8.DecodeLastRuneInString(c.mapSearch)
		c.mapSearch = c.mapSearch[:len(c.mapSearch)-size]
	case ev.IsChar():
		c.mapSearch += string(ev.Rune)
	}
}

// Tick advances client-side state once per client tick.
func (c *Client) Tick() {
	if c.sibling != nil {
		c.sibling.tick()
	}
}

// Scroll zooms the camera by notches mouse wheel steps; positive zooms in.
func (c *Client) Scroll(notches int) {
	if !c.loggedIn {
		return
	}
	level := c.ints[VarZoom] + notches*ScrollStep
	c.ints[VarZoom] = max(128, min(896, level))
}

// ToggleMapSearch opens or closes the world map search box, which takes
// chat input while open.
func (c *Client) ToggleMapSearch() {
	c.mapSearchOpen = !c.mapSearchOpen
	c.mapSearch = ""
}

// ToggleBankPin shows or hides the bank pin keypad.
func (c *Client) ToggleBankPin() {
	c.bankPinOpen = !c.bankPinOpen
}

// ToggleDialog opens or closes a dialog that replaces the chat history.
func (c *Client) ToggleDialog() {
	c.dialogOpen = !c.dialogOpen
}

// ToggleTransparency switches the chat box background and redraws the input.
func (c *Client) ToggleTransparency() {
	c.ints[VarTransparentChat] ^= 1
	if c.loggedIn {
		c.rebuildChatInput()
	}
}

// ToggleLogin logs out or back in. Logging in resets the zoom and redraws
// the chat input.
func (c *Client) ToggleLogin() {
	c.loggedIn = !c.loggedIn
	c.strs[VarTypedText] = ""
	if !c.loggedIn {
		delete(c.strs, VarChatInput)
		c.mapSearchOpen = false
		c.bankPinOpen = false
		c.dialogOpen = false
		return
	}
	c.ints[VarZoom] = DefaultZoom
	c.rebuildChatInput()
}

// Messages returns the sent chat messages, oldest first.
func (c *Client) Messages() []string {
	return append([]string(nil), c.messages...)
}

// View is a snapshot of what the client shows.
type View struct {
	LoggedIn      bool
	Zoom          int
	Yaw           int
	ChatInput     string
	Typed         string
	Transparent   bool
	DialogOpen    bool
	BankPinOpen   bool
	MapSearchOpen bool
	MapSearch     string
	Messages      []string
	SiblingOn     bool
}

// View returns the current client state for drawing.
func (c *Client) View() View {
	v := View{
		LoggedIn:      c.loggedIn,
		Zoom:          c.ints[VarZoom],
		Yaw:           c.ints[VarCameraYaw],
		ChatInput:     c.strs[VarChatInput],
		Typed:         c.strs[VarTypedText],
		Transparent:   c.ints[VarTransparentChat] == 1,
		DialogOpen:    c.dialogOpen,
		BankPinOpen:   c.bankPinOpen,
		MapSearchOpen: c.mapSearchOpen,
		MapSearch:     c.mapSearch,
		Messages:      c.Messages(),
	}
	if c.sibling != nil {
		v.SiblingOn = c.sibling.Enabled()
	}
	return v
}

func (c *Client) rebuildChatInput() {
	c.callScript("chatbox_build_input")
}

func (c *Client) callScript(fn string, args ...lua.LValue) {
	if _, err := c.engine.Call(context.Background(), fn, args...); err != nil {
		c.logger.Error("%v", err)
	}
}

// IntVar implements script.Host.
func (c *Client) IntVar(name string) int { return c.ints[name] }

// SetIntVar implements script.Host.
func (c *Client) SetIntVar(name string, value int) { c.ints[name] = value }

// StrVar implements script.Host.
func (c *Client) StrVar(name string) string { return c.strs[name] }

// SetStrVar implements script.Host.
func (c *Client) SetStrVar(name, value string) { c.strs[name] = value }

// Callback implements script.Host by asking the key listener.
func (c *Client) Callback(name string) bool {
	if c.sibling != nil && c.sibling.callback(name) {
		return true
	}
	if c.listener == nil {
		return false
	}
	return c.listener.OnScriptCallback(name)
}

var _ script.Host = (*Client)(nil)
