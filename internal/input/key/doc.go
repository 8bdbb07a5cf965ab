// Package key provides key event types, key specification parsing and
// keybinds for the input router.
//
//   - Key: identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: modifier keys held with the key (Ctrl, Alt, Shift, Meta)
//   - Event: a single key-down or key-up with modifiers and timestamp
//   - Code: the physical key of an event, used to suppress auto-repeat
//   - Keybind: a configured chord that events are matched against
//
// # Key Specifications
//
//   - Simple keys: "c", "N", "1", "/", "Enter", "Escape", "F5"
//   - With modifiers: "Ctrl+N", "Alt+F4", "Ctrl+Shift+P"
//   - Unset: "" or "None"
package key
