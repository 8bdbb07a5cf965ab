package client

import (
	"context"

	"github.com/dshills/camerakeys/internal/host"
)

// ZoomLevel implements host.Surface.
func (c *Client) ZoomLevel() int {
	return c.ints[VarZoom]
}

// ChatBoxText implements host.Surface. The chat widgets only exist while
// logged in.
func (c *Client) ChatBoxText() (string, bool) {
	if !c.loggedIn {
		return "", false
	}
	text, ok := c.strs[VarChatInput]
	return text, ok
}

// SetChatBoxText implements host.Surface.
func (c *Client) SetChatBoxText(text string) {
	if !c.loggedIn {
		return
	}
	c.strs[VarChatInput] = text
}

// TypedText implements host.Surface.
func (c *Client) TypedText() string {
	return c.strs[VarTypedText]
}

// SetTypedText implements host.Surface.
func (c *Client) SetTypedText(text string) {
	c.strs[VarTypedText] = text
}

// ChatBoxHasFocus implements host.Surface.
func (c *Client) ChatBoxHasFocus() bool {
	return c.loggedIn && c.chatListener
}

// WorldMapSearchFocused implements host.Surface.
func (c *Client) WorldMapSearchFocused() bool {
	return c.loggedIn && c.mapSearchOpen
}

// WidgetHidden implements host.Surface.
func (c *Client) WidgetHidden(id host.WidgetID) bool {
	if !c.loggedIn {
		return true
	}
	switch id {
	case host.WidgetChatboxParent, host.WidgetChatboxInput:
		return false
	case host.WidgetChatboxMessages, host.WidgetChatboxTransparentLines:
		return c.dialogOpen
	case host.WidgetWorldMapSearch:
		return !c.mapSearchOpen
	case host.WidgetBankPinContainer:
		return !c.bankPinOpen
	}
	return true
}

// ChatBoxTransparent implements host.Surface.
func (c *Client) ChatBoxTransparent() bool {
	return c.ints[VarTransparentChat] == 1
}

// LoggedIn implements host.Surface.
func (c *Client) LoggedIn() bool {
	return c.loggedIn
}

// RunScript implements host.Surface.
func (c *Client) RunScript(id host.ScriptID, args ...int) error {
	return c.engine.Run(context.Background(), id, args...)
}

var _ host.Surface = (*Client)(nil)
