package config

import (
	"errors"
	"testing"

	"github.com/dshills/camerakeys/internal/input/key"
	"github.com/dshills/camerakeys/internal/zoom"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if !s.ZoomKeyEnabled {
		t.Error("ZoomKeyEnabled = false, want true")
	}
	if s.Zoom != 0 {
		t.Errorf("Zoom = %d, want 0", s.Zoom)
	}
	if !s.ZoomKey.Matches(key.NewRuneEvent('c', key.ModNone)) {
		t.Errorf("ZoomKey = %v, want c", s.ZoomKey)
	}
	if s.ActivationType != zoom.Hold {
		t.Errorf("ActivationType = %v, want Hold", s.ActivationType)
	}
	if !s.ZoomIndicator || !s.CompassKeysEnabled {
		t.Error("ZoomIndicator and CompassKeysEnabled default to true")
	}
	if !s.NorthKey.Matches(key.NewRuneEvent('n', key.ModNone)) {
		t.Errorf("NorthKey = %v, want n", s.NorthKey)
	}
	for name, kb := range map[string]key.Keybind{"east": s.EastKey, "south": s.SouthKey, "west": s.WestKey} {
		if kb.IsSet() {
			t.Errorf("%s key = %v, want unset", name, kb)
		}
	}
	if s.DisableChatBlocking {
		t.Error("DisableChatBlocking = true, want false")
	}
	if s.SiblingEnabled {
		t.Error("SiblingEnabled = true, want false")
	}
}

func TestDecode(t *testing.T) {
	s, errs := Decode(map[string]string{
		KeyZoom:           "500",
		KeyActivationType: "toggle",
		KeyEastKey:        "d",
		KeySiblingEnabled: "true",
	})
	if len(errs) != 0 {
		t.Fatalf("Decode() errors = %v", errs)
	}
	if s.Zoom != 500 || s.ActivationType != zoom.Toggle || !s.EastKey.IsSet() || !s.SiblingEnabled {
		t.Errorf("Decode() = %+v", s)
	}
}

func TestDecodeFallsBack(t *testing.T) {
	s, errs := Decode(map[string]string{
		KeyZoom:           "5000",
		KeyZoomIndicator:  "maybe",
		KeyActivationType: "Press",
	})
	if len(errs) != 3 {
		t.Fatalf("Decode() errors = %v, want 3", errs)
	}
	if s.Zoom != 0 || !s.ZoomIndicator || s.ActivationType != zoom.Hold {
		t.Errorf("Decode() did not fall back to defaults: %+v", s)
	}
	for _, err := range errs {
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error %v is not ErrInvalidValue", err)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		key     string
		in      string
		want    string
		code    ValidationErrorCode
		wantErr bool
	}{
		{KeyZoom, " 1300 ", "1300", 0, false},
		{KeyZoom, "-272", "-272", 0, false},
		{KeyZoom, "-273", "", ErrCodeOutOfRange, true},
		{KeyZoom, "1301", "", ErrCodeOutOfRange, true},
		{KeyZoom, "far", "", ErrCodeTypeMismatch, true},
		{KeyZoomIndicator, "TRUE", "true", 0, false},
		{KeyZoomIndicator, "0", "false", 0, false},
		{KeyActivationType, "SET", "Set", 0, false},
		{KeyActivationType, "press", "", ErrCodeInvalidEnum, true},
		{KeyNorthKey, "Ctrl+n", "Ctrl+n", 0, false},
		{KeyNorthKey, "None", "", 0, false},
		{KeyNorthKey, "Ctrl+", "", ErrCodeInvalidKeybind, true},
	}
	for _, tt := range tests {
		d, ok := Lookup(tt.key)
		if !ok {
			t.Fatalf("Lookup(%q) failed", tt.key)
		}
		got, err := d.Normalize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s Normalize(%q) error = %v, wantErr %v", tt.key, tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Code != tt.code {
				t.Errorf("%s Normalize(%q) error = %v, want code %v", tt.key, tt.in, err, tt.code)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("%s Normalize(%q) = %q, want %q", tt.key, tt.in, got, tt.want)
		}
	}
}

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	if len(defs) != len(Defaults()) {
		t.Fatalf("Definitions() = %d entries, Defaults() = %d", len(defs), len(Defaults()))
	}
	for _, d := range defs {
		if _, err := d.Normalize(d.Default); err != nil {
			t.Errorf("default of %s does not normalize: %v", d.Key, err)
		}
	}
	defs[0].Key = "mutated"
	if _, ok := Lookup("mutated"); ok {
		t.Error("Definitions() exposed the internal table")
	}
}
