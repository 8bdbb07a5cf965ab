package key

import "testing"

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyNone, "None"},
		{KeyEscape, "Escape"},
		{KeyEnter, "Enter"},
		{KeyBackspace, "Backspace"},
		{KeyPageDown, "PageDown"},
		{KeyF1, "F1"},
		{KeyF12, "F12"},
		{KeyRune, "Rune"},
		{Key(999), "Key(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("Key.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyClassification(t *testing.T) {
	if KeyNone.IsSpecial() || KeyRune.IsSpecial() {
		t.Error("KeyNone and KeyRune must not be special")
	}
	if !KeyEnter.IsSpecial() {
		t.Error("KeyEnter.IsSpecial() = false, want true")
	}
	if !KeyF7.IsFunctionKey() || KeyEnter.IsFunctionKey() {
		t.Error("IsFunctionKey misclassified")
	}
	if !KeyLeft.IsArrowKey() || KeyHome.IsArrowKey() {
		t.Error("IsArrowKey misclassified")
	}
}

func TestKeyFromName(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{"esc", KeyEscape},
		{" Enter ", KeyEnter},
		{"RETURN", KeyEnter},
		{"pgdn", KeyPageDown},
		{"f10", KeyF10},
		{"nothing", KeyNone},
	}
	for _, tt := range tests {
		if got := KeyFromName(tt.name); got != tt.want {
			t.Errorf("KeyFromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		mod  Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl, "Ctrl"},
		{ModCtrl | ModShift, "Ctrl+Shift"},
		{ModShift | ModAlt | ModMeta | ModCtrl, "Ctrl+Alt+Shift+Meta"},
	}
	for _, tt := range tests {
		if got := tt.mod.String(); got != tt.want {
			t.Errorf("Modifier(%d).String() = %q, want %q", tt.mod, got, tt.want)
		}
	}
}

func TestModifierWithWithout(t *testing.T) {
	m := ModNone.With(ModCtrl).With(ModAlt)
	if !m.Has(ModCtrl) || !m.Has(ModAlt) {
		t.Fatalf("With() = %v, want Ctrl+Alt", m)
	}
	m = m.Without(ModCtrl)
	if m.Has(ModCtrl) || m != ModAlt {
		t.Errorf("Without() = %v, want Alt", m)
	}
}

func TestModifierFromName(t *testing.T) {
	if got := ModifierFromName("Control"); got != ModCtrl {
		t.Errorf("ModifierFromName(Control) = %v, want Ctrl", got)
	}
	if got := ModifierFromName("cmd"); got != ModMeta {
		t.Errorf("ModifierFromName(cmd) = %v, want Meta", got)
	}
	if got := ModifierFromName("hyper"); got != ModNone {
		t.Errorf("ModifierFromName(hyper) = %v, want none", got)
	}
}
