package client

import (
	"github.com/dshills/camerakeys/internal/chatlock"
	"github.com/dshills/camerakeys/internal/input/key"
)

// DefaultResetDelay is how many ticks the Key Remapping stand-in takes to
// restore the chat box after it is disabled.
const DefaultResetDelay = 5

// Sibling stands in for the Key Remapping plugin, which locks the chat
// box the same way. While enabled it owns the lock. When disabled it
// leaves its text behind for a few ticks before redrawing the default
// chat input.
type Sibling struct {
	client     *Client
	enabled    bool
	typing     bool
	resetIn    int
	resetDelay int
	onToggle   func(enabled bool)
}

// SiblingOption configures a Sibling.
type SiblingOption func(*Sibling)

// WithResetDelay sets the ticks between disabling and the chat redraw.
func WithResetDelay(ticks int) SiblingOption {
	return func(s *Sibling) {
		s.resetDelay = max(0, ticks)
	}
}

// WithToggleFunc is called whenever the sibling is enabled or disabled.
func WithToggleFunc(fn func(enabled bool)) SiblingOption {
	return func(s *Sibling) {
		s.onToggle = fn
	}
}

// NewSibling creates the stand-in in the given state.
func NewSibling(enabled bool, opts ...SiblingOption) *Sibling {
	s := &Sibling{
		enabled:    enabled,
		resetDelay: DefaultResetDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sibling) attach(c *Client) {
	s.client = c
}

// Enabled reports whether the stand-in is running.
func (s *Sibling) Enabled() bool {
	return s.enabled
}

// SetEnabled starts or stops the stand-in.
func (s *Sibling) SetEnabled(enabled bool) {
	if s.enabled == enabled {
		return
	}
	s.enabled = enabled
	s.typing = false
	if enabled {
		s.resetIn = 0
		s.lock()
	} else {
		s.resetIn = s.resetDelay
		if s.resetIn == 0 {
			s.reset()
		}
	}
	if s.onToggle != nil {
		s.onToggle(enabled)
	}
}

// Toggle flips the enabled state.
func (s *Sibling) Toggle() {
	s.SetEnabled(!s.enabled)
}

// KeyPressed handles chat typing keys while enabled and reports whether
// the key is consumed.
func (s *Sibling) KeyPressed(ev key.Event) bool {
	if !s.enabled || s.client == nil || !s.client.ChatBoxHasFocus() || s.client.WorldMapSearchFocused() {
		return false
	}
	switch {
	case ev.IsEnter():
		s.typing = !s.typing
	case ev.IsEscape() && s.typing:
		s.typing = false
		s.client.SetTypedText("")
		s.lock()
		return true
	}
	return false
}

func (s *Sibling) tick() {
	if s.enabled || s.resetIn == 0 {
		return
	}
	s.resetIn--
	if s.resetIn == 0 {
		s.reset()
	}
}

func (s *Sibling) callback(name string) bool {
	if !s.enabled {
		return false
	}
	switch name {
	case "blockChatInput":
		return !s.typing
	case "setChatboxInput":
		if !s.typing {
			s.lock()
		}
	}
	return false
}

func (s *Sibling) lock() {
	if s.client == nil {
		return
	}
	if text, ok := s.client.ChatBoxText(); ok {
		if next, ok := chatlock.ReplaceInput(text, chatlock.Placeholder); ok {
			s.client.SetChatBoxText(next)
		}
	}
}

func (s *Sibling) reset() {
	if s.client != nil && s.client.LoggedIn() {
		s.client.rebuildChatInput()
	}
}
