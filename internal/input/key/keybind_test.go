package key

import "testing"

func TestParseKeybindUnset(t *testing.T) {
	for _, spec := range []string{"", "  ", "None", "none"} {
		kb, err := ParseKeybind(spec)
		if err != nil {
			t.Errorf("ParseKeybind(%q) error = %v", spec, err)
		}
		if kb.IsSet() {
			t.Errorf("ParseKeybind(%q) is set", spec)
		}
		if kb.Matches(NewRuneEvent('n', ModNone)) {
			t.Errorf("unset keybind %q matched", spec)
		}
		if kb.String() != "None" {
			t.Errorf("unset String() = %q, want None", kb.String())
		}
	}
}

func TestParseKeybindInvalid(t *testing.T) {
	if _, err := ParseKeybind("Hyper+c"); err == nil {
		t.Error("ParseKeybind(Hyper+c) error = nil")
	}
}

func TestKeybindMatches(t *testing.T) {
	tests := []struct {
		spec  string
		event Event
		want  bool
	}{
		{"c", NewRuneEvent('c', ModNone), true},
		{"c", NewRuneEvent('C', ModShift), true},
		{"c", NewRuneEvent('c', ModCtrl), false},
		{"c", NewRuneEvent('v', ModNone), false},
		{"Ctrl+n", NewRuneEvent('n', ModCtrl), true},
		{"Ctrl+n", NewRuneEvent('n', ModNone), false},
		{"F1", NewSpecialEvent(KeyF1, ModNone), true},
		{"F1", NewSpecialEvent(KeyF1, ModShift), false},
		{"Shift+F1", NewSpecialEvent(KeyF1, ModShift), true},
	}
	for _, tt := range tests {
		kb := MustKeybind(tt.spec)
		if got := kb.Matches(tt.event); got != tt.want {
			t.Errorf("Keybind(%q).Matches(%s) = %v, want %v", tt.spec, tt.event, got, tt.want)
		}
	}
}

func TestKeybindMatchesCodeIgnoresModifiers(t *testing.T) {
	kb := MustKeybind("Ctrl+z")
	release := NewRuneEvent('z', ModNone).Released()
	if kb.Matches(release) {
		t.Error("Matches() ignored modifiers")
	}
	if !kb.MatchesCode(release) {
		t.Error("MatchesCode() = false for same key")
	}
	if (Keybind{}).MatchesCode(release) {
		t.Error("unset keybind MatchesCode() = true")
	}
}

func TestKeybindString(t *testing.T) {
	if got := MustKeybind("ctrl+N").String(); got != "Ctrl+n" {
		t.Errorf("String() = %q, want Ctrl+n", got)
	}
}
