package chatlock

import "strings"

const (
	// Placeholder replaces the typed text while chat is locked.
	Placeholder = "Press Enter to Chat..."

	// Separator ends the player name in the chat input line.
	Separator = ':'

	// Cursor trails the typed text while chat is unlocked.
	Cursor = "*"

	// OpaqueColor is the typed text colour on the opaque chat background.
	OpaqueColor = "0000ff"

	// TransparentColor is the typed text colour on the transparent chat background.
	TransparentColor = "9090ff"
)

// ColorTag wraps text in a client colour tag.
func ColorTag(text, color string) string {
	return "<col=" + color + ">" + text + "</col>"
}

// TypedColor returns the typed text colour for the background mode.
func TypedColor(transparent bool) string {
	if transparent {
		return TransparentColor
	}
	return OpaqueColor
}

// InputSegment returns the input line from the first separator onward,
// e.g. ": Press Enter to Chat...". ok is false when there is no separator.
func InputSegment(text string) (segment string, ok bool) {
	idx := strings.IndexByte(text, Separator)
	if idx < 0 {
		return "", false
	}
	return text[idx:], true
}

// ReplaceInput keeps the name before the separator and replaces the rest
// with ": " + input. ok is false when text has no separator.
func ReplaceInput(text, input string) (string, bool) {
	idx := strings.IndexByte(text, Separator)
	if idx < 0 {
		return text, false
	}
	return text[:idx] + string(Separator) + " " + input, true
}

// LockedSegment is the input segment of a locked chat box.
func LockedSegment() string {
	return string(Separator) + " " + Placeholder
}

// UnlockedInput renders typed text with the cursor in the given colour.
func UnlockedInput(typed, color string) string {
	return ColorTag(typed+Cursor, color)
}

// DefaultSegment is the input segment of an empty, unlocked chat box.
func DefaultSegment(color string) string {
	return string(Separator) + " " + UnlockedInput("", color)
}

// IsLocked reports whether text shows the placeholder.
func IsLocked(text string) bool {
	seg, ok := InputSegment(text)
	return ok && seg == LockedSegment()
}
