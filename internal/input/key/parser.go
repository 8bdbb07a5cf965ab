package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into a key-down Event.
//
// Supported formats:
//   - Single character: "c", "C", "1", "/"
//   - Special keys: "Enter", "Escape", "Tab", "Backspace", "Space", "F5"
//   - With modifiers: "Ctrl+N", "Alt+F4", "Ctrl+Shift+P"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	// A lone "+" is the plus key, not a separator.
	if spec == "+" {
		return NewRuneEvent('+', ModNone), nil
	}

	if strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKey(spec, ModNone)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Event, error) {
	parts := strings.Split(spec, "+")

	// "Ctrl++" names the plus key.
	if strings.HasSuffix(spec, "++") {
		parts = append(parts[:len(parts)-2], "+")
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, strings.TrimSpace(p))
		}
		mods = mods.With(mod)
	}

	return parseKey(parts[len(parts)-1], mods)
}

// parseKey parses a key name or single character with already-known modifiers.
func parseKey(keyPart string, mods Modifier) (Event, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	lower := strings.ToLower(keyPart)
	if lower == "space" {
		return NewRuneEvent(' ', mods), nil
	}
	if k := KeyFromName(lower); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}

	r := runes[0]
	switch {
	case mods.Has(ModCtrl) || mods.Has(ModAlt):
		// Chords name the physical key.
		r = unicode.ToLower(r)
	case unicode.IsUpper(r):
		mods = mods.With(ModShift)
	}
	return NewRuneEvent(r, mods), nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}
