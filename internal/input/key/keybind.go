package key

import "strings"

// Keybind is a configured key chord. The zero value is unset and never matches.
type Keybind struct {
	code Code
	ev   Event
	set  bool
}

// ParseKeybind parses a keybind specification. An empty spec or "None"
// yields an unset keybind.
func ParseKeybind(spec string) (Keybind, error) {
	s := strings.TrimSpace(spec)
	if s == "" || strings.EqualFold(s, "none") {
		return Keybind{}, nil
	}
	ev, err := Parse(s)
	if err != nil {
		return Keybind{}, err
	}
	return Keybind{code: ev.Code(), ev: ev, set: true}, nil
}

// MustKeybind parses a keybind and panics on error.
func MustKeybind(spec string) Keybind {
	kb, err := ParseKeybind(spec)
	if err != nil {
		panic("invalid keybind: " + spec + ": " + err.Error())
	}
	return kb
}

// IsSet reports whether a key is bound.
func (k Keybind) IsSet() bool {
	return k.set
}

// Code returns the bound key code.
func (k Keybind) Code() Code {
	return k.code
}

// Matches reports whether ev is this chord: same key code and the same
// modifiers. Shift is ignored for character keys since it only changes case.
func (k Keybind) Matches(ev Event) bool {
	if !k.set || ev.Code() != k.code {
		return false
	}
	want, got := k.ev.Modifiers, ev.Modifiers
	if ev.Key == KeyRune {
		want, got = want.Without(ModShift), got.Without(ModShift)
	}
	return want == got
}

// MatchesCode reports whether ev is on the bound key regardless of modifiers.
// Key-up events use this since modifiers may be released first.
func (k Keybind) MatchesCode(ev Event) bool {
	return k.set && ev.Code() == k.code
}

// String returns the keybind in parseable form, or "None" when unset.
func (k Keybind) String() string {
	if !k.set {
		return "None"
	}
	return k.ev.String()
}
