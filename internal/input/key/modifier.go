package key

import "strings"

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// Has returns true if m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m with mod removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String returns a representation like "Ctrl+Alt", in the same order the
// parser accepts.
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"win":     ModMeta,
	"super":   ModMeta,
}

// ModifierFromName returns the Modifier for a name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	return modifierNameMap[strings.ToLower(strings.TrimSpace(name))]
}
