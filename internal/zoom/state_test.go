package zoom

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Off, "Off"},
		{Zooming, "Zooming"},
		{Setting, "Setting"},
		{Resetting, "Resetting"},
		{On, "On"},
		{State(42), "State(42)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseActivationMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ActivationMode
		wantErr bool
	}{
		{"Hold", Hold, false},
		{"toggle", Toggle, false},
		{" SET ", Set, false},
		{"press", Hold, true},
	}
	for _, tt := range tests {
		got, err := ParseActivationMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseActivationMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseActivationMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, m := range []ActivationMode{Hold, Toggle, Set} {
		back, err := ParseActivationMode(m.String())
		if err != nil || back != m {
			t.Errorf("round trip of %v = %v, %v", m, back, err)
		}
	}
}
