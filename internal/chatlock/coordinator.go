// Package chatlock coordinates the "Press Enter to Chat..." lock on the
// chat input line with the Key Remapping plugin, which implements the
// same lock.
//
// The Coordinator tracks whether the user is composing a message and who
// currently owns the lock. Lock and unlock requests raised from key
// handling are posted to a host.Invoker; the Coordinator's own chat box
// methods must run on the client's privileged context.
package chatlock

import (
	"github.com/dshills/camerakeys/internal/host"
	"github.com/dshills/camerakeys/internal/logging"
)

// ModeFunc observes handling mode changes.
type ModeFunc func(from, to Mode)

// Coordinator owns the chat session.
//
// Coordinator is not safe for concurrent use; key events, ticks and
// command execution must be serialized by the caller.
type Coordinator struct {
	surface host.Surface
	invoker host.Invoker

	mode             Mode
	typing           bool
	blockingDisabled bool

	logger       *logging.Logger
	onModeChange ModeFunc
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithModeFunc registers an observer for mode changes.
func WithModeFunc(fn ModeFunc) Option {
	return func(c *Coordinator) {
		c.onModeChange = fn
	}
}

// WithBlockingDisabled starts the coordinator with chat blocking turned off.
func WithBlockingDisabled(disabled bool) Option {
	return func(c *Coordinator) {
		c.blockingDisabled = disabled
	}
}

// New creates a coordinator in the Disabled mode.
func New(surface host.Surface, invoker host.Invoker, opts ...Option) *Coordinator {
	c := &Coordinator{
		surface: surface,
		invoker: invoker,
		mode:    Disabled,
		logger:  logging.Null,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("chatlock")
	return c
}

// Mode returns the handling mode.
func (c *Coordinator) Mode() Mode {
	return c.mode
}

// Typing reports whether the user is composing a message.
func (c *Coordinator) Typing() bool {
	return c.typing
}

// BlockingDisabled reports whether chat blocking is turned off.
func (c *Coordinator) BlockingDisabled() bool {
	return c.blockingDisabled
}

// Start reconciles with the chat box when the plugin starts. Must run on the
// privileged context.
//
// With the sibling disabled the coordinator takes over at once: typing is
// reset, the typed buffer cleared and the chat box locked. Otherwise it
// stays Disabled and infers typing from whether the chat box shows the
// placeholder.
func (c *Coordinator) Start(siblingEnabled bool) {
	if !siblingEnabled {
		c.setMode(Enabled)
		if c.surface.LoggedIn() {
			c.typing = false
			c.LockChatBox()
			c.surface.SetTypedText("")
		}
		return
	}

	c.setMode(Disabled)
	c.typing = false
	if text, ok := c.surface.ChatBoxText(); ok {
		if seg, ok := InputSegment(text); ok {
			c.typing = seg != LockedSegment()
		}
	}
	c.logger.Debug("sibling owns chat locking, typing=%v", c.typing)
}

// Stop unlocks the chat box if it is handled here. Must run on the
// privileged context.
func (c *Coordinator) Stop() {
	if c.mode == Enabled && c.surface.LoggedIn() {
		c.UnlockChatBox(c.surface.TypedText())
	}
}

// SiblingToggled reacts to the Key Remapping plugin being enabled or
// disabled.
func (c *Coordinator) SiblingToggled(enabled bool) {
	if enabled {
		c.logger.Debug("Key Remapping enabled, stopping chat box handling")
		c.setMode(Disabled)
		return
	}
	// The sibling may leave edited text behind; wait for the default chat
	// box before locking.
	c.logger.Debug("Key Remapping disabled, taking over chat box handling")
	c.setMode(PendingEnable)
}

// Tick polls the chat box while PendingEnable and takes over once it shows
// the default unlocked input or the placeholder. There is no timeout. Must
// run on the privileged context.
func (c *Coordinator) Tick() {
	if c.mode != PendingEnable {
		return
	}
	text, ok := c.surface.ChatBoxText()
	if !ok {
		return
	}
	seg, ok := InputSegment(text)
	if !ok {
		return
	}
	color := TypedColor(c.surface.ChatBoxTransparent())
	if seg != DefaultSegment(color) && seg != LockedSegment() {
		return
	}

	c.surface.SetTypedText("")
	c.setMode(Enabled)
	if !c.typing {
		c.LockChatBox()
	}
}

// EnterTyping starts message composition and requests an unlock when
// chat locking is handled here.
func (c *Coordinator) EnterTyping() {
	c.typing = true
	if c.mode == Enabled {
		c.invoker.Invoke(host.UnlockChat{})
	}
}

// ExitTyping ends message composition and requests a lock unless the
// sibling owns locking. With clear set the typed buffer is discarded first.
// It reports whether the key that ended typing must be consumed, which is
// the case only for a clearing exit while handling.
func (c *Coordinator) ExitTyping(clear bool) (consume bool) {
	c.typing = false
	if !c.mode.Handling() {
		return false
	}
	if clear {
		c.invoker.Invoke(host.ClearTypedText{})
	}
	c.invoker.Invoke(host.LockChat{})
	return clear
}

// LockChatBox replaces the typed text with the placeholder, keeping the
// player name. A missing widget or separator leaves the chat box alone.
func (c *Coordinator) LockChatBox() {
	if c.blockingDisabled {
		return
	}
	c.setInput(Placeholder)
}

// UnlockChatBox shows typed followed by the cursor, coloured for the
// current chat background. Only applies while logged in.
func (c *Coordinator) UnlockChatBox(typed string) {
	if c.blockingDisabled {
		return
	}
	c.unlock(typed)
}

// OnSetChatboxInput handles the client rebuilding the chat input line,
// which overwrites the placeholder.
func (c *Coordinator) OnSetChatboxInput() {
	if c.mode == Enabled && !c.typing {
		c.LockChatBox()
	}
}

// BlockChatInput reports whether a typed character must be swallowed
// because chat is locked.
func (c *Coordinator) BlockChatInput() bool {
	return c.mode == Enabled && !c.typing && !c.blockingDisabled
}

// SetBlockingDisabled turns chat blocking off or back on. While handling,
// turning it off unlocks the chat box and turning it on relocks it unless
// the user is typing. Must run on the privileged context.
func (c *Coordinator) SetBlockingDisabled(disabled bool) {
	if c.blockingDisabled == disabled {
		return
	}
	c.blockingDisabled = disabled
	if c.mode != Enabled {
		return
	}
	if disabled {
		c.unlock(c.surface.TypedText())
	} else if !c.typing {
		c.LockChatBox()
	}
}

func (c *Coordinator) unlock(typed string) {
	if !c.surface.LoggedIn() {
		return
	}
	color := TypedColor(c.surface.ChatBoxTransparent())
	c.setInput(UnlockedInput(typed, color))
}

func (c *Coordinator) setInput(input string) {
	text, ok := c.surface.ChatBoxText()
	if !ok {
		return
	}
	next, ok := ReplaceInput(text, input)
	if !ok || next == text {
		return
	}
	c.surface.SetChatBoxText(next)
}

func (c *Coordinator) setMode(to Mode) {
	from := c.mode
	if from == to {
		return
	}
	c.mode = to
	c.logger.Debug("mode %s -> %s", from, to)
	if c.onModeChange != nil {
		c.onModeChange(from, to)
	}
}
