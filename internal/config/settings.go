package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/camerakeys/internal/input/key"
	"github.com/dshills/camerakeys/internal/zoom"
)

// Settings groups.
const (
	GroupCameraKeys = "camerakeys"
	GroupRuneLite   = "runelite"
)

// Setting keys.
const (
	KeyZoomKeyEnabled      = GroupCameraKeys + ".zoomKeyEnabled"
	KeyZoom                = GroupCameraKeys + ".zoom"
	KeyZoomKey             = GroupCameraKeys + ".zoomKey"
	KeyActivationType      = GroupCameraKeys + ".activationType"
	KeyZoomIndicator       = GroupCameraKeys + ".zoomIndicator"
	KeyCompassKeysEnabled  = GroupCameraKeys + ".compassKeysEnabled"
	KeyNorthKey            = GroupCameraKeys + ".northKey"
	KeyEastKey             = GroupCameraKeys + ".eastKey"
	KeySouthKey            = GroupCameraKeys + ".southKey"
	KeyWestKey             = GroupCameraKeys + ".westKey"
	KeyDisableChatBlocking = GroupCameraKeys + ".disableChatBlocking"

	// KeySiblingEnabled is the Key Remapping plugin's enabled flag.
	KeySiblingEnabled = GroupRuneLite + ".keyremappingplugin"
)

// Zoom level bounds accepted by the zoom setting.
const (
	ZoomMin = -272
	ZoomMax = 1300
)

// Kind is the value type of a setting.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindEnum
	KindKeybind
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindEnum:
		return "enum"
	case KindKeybind:
		return "keybind"
	default:
		return "unknown"
	}
}

// Definition describes one setting.
type Definition struct {
	Key         string
	Kind        Kind
	Default     string
	Description string

	// Min and Max bound KindInt values.
	Min, Max int
	// Choices lists KindEnum values.
	Choices []string
}

var definitions = []Definition{
	{Key: KeyZoomKeyEnabled, Kind: KindBool, Default: "true",
		Description: "Enable the zoom key"},
	{Key: KeyZoom, Kind: KindInt, Default: "0", Min: ZoomMin, Max: ZoomMax,
		Description: "Zoom level to change to"},
	{Key: KeyZoomKey, Kind: KindKeybind, Default: "c",
		Description: "The key that activates or toggles the zoom level"},
	{Key: KeyActivationType, Kind: KindEnum, Default: zoom.Hold.String(),
		Choices:     []string{zoom.Hold.String(), zoom.Toggle.String(), zoom.Set.String()},
		Description: "The activation type of the zoom key"},
	{Key: KeyZoomIndicator, Kind: KindBool, Default: "true",
		Description: "Display an icon while the zoom is in effect"},
	{Key: KeyCompassKeysEnabled, Kind: KindBool, Default: "true",
		Description: "Enable the compass keys"},
	{Key: KeyNorthKey, Kind: KindKeybind, Default: "n",
		Description: "The key that faces the camera north"},
	{Key: KeyEastKey, Kind: KindKeybind, Default: "",
		Description: "The key that faces the camera east"},
	{Key: KeySouthKey, Kind: KindKeybind, Default: "",
		Description: "The key that faces the camera south"},
	{Key: KeyWestKey, Kind: KindKeybind, Default: "",
		Description: "The key that faces the camera west"},
	{Key: KeyDisableChatBlocking, Kind: KindBool, Default: "false",
		Description: `Stop blocking the chat with "Press Enter to Chat..."`},
	{Key: KeySiblingEnabled, Kind: KindBool, Default: "false",
		Description: "Whether the Key Remapping plugin is enabled"},
}

var definitionIndex = func() map[string]int {
	m := make(map[string]int, len(definitions))
	for i, d := range definitions {
		m[d.Key] = i
	}
	return m
}()

// Definitions returns all setting definitions in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for key.
func Lookup(key string) (Definition, bool) {
	i, ok := definitionIndex[key]
	if !ok {
		return Definition{}, false
	}
	return definitions[i], true
}

// Defaults returns the default raw value of every setting.
func Defaults() map[string]string {
	m := make(map[string]string, len(definitions))
	for _, d := range definitions {
		m[d.Key] = d.Default
	}
	return m
}

// Normalize validates value for the setting and returns its canonical form.
func (d Definition) Normalize(value string) (string, error) {
	v := strings.TrimSpace(value)
	switch d.Kind {
	case KindBool:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return "", d.invalid(value, ErrCodeTypeMismatch, "not a boolean")
		}
		return strconv.FormatBool(b), nil

	case KindInt:
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", d.invalid(value, ErrCodeTypeMismatch, "not an integer")
		}
		if n < d.Min || n > d.Max {
			return "", d.invalid(value, ErrCodeOutOfRange, fmt.Sprintf("must be between %d and %d", d.Min, d.Max))
		}
		return strconv.Itoa(n), nil

	case KindEnum:
		for _, c := range d.Choices {
			if strings.EqualFold(c, v) {
				return c, nil
			}
		}
		return "", d.invalid(value, ErrCodeInvalidEnum, "must be one of "+strings.Join(d.Choices, ", "))

	case KindKeybind:
		kb, err := key.ParseKeybind(v)
		if err != nil {
			return "", d.invalid(value, ErrCodeInvalidKeybind, err.Error())
		}
		if !kb.IsSet() {
			return "", nil
		}
		return v, nil
	}
	return v, nil
}

func (d Definition) invalid(value string, code ValidationErrorCode, msg string) error {
	return &ValidationError{Key: d.Key, Value: value, Code: code, Message: msg}
}

// Settings is a typed snapshot of the plugin's settings.
type Settings struct {
	ZoomKeyEnabled bool
	Zoom           int
	ZoomKey        key.Keybind
	ActivationType zoom.ActivationMode
	ZoomIndicator  bool

	CompassKeysEnabled bool
	NorthKey           key.Keybind
	EastKey            key.Keybind
	SouthKey           key.Keybind
	WestKey            key.Keybind

	DisableChatBlocking bool

	// SiblingEnabled mirrors the Key Remapping plugin's enabled flag.
	SiblingEnabled bool
}

// DefaultSettings returns the settings with every value at its default.
func DefaultSettings() Settings {
	s, _ := Decode(nil)
	return s
}

// Decode builds a snapshot from raw values. Missing keys take their
// defaults; values that fail to decode also take their defaults and are
// returned as errors.
func Decode(values map[string]string) (Settings, []error) {
	var (
		s    Settings
		errs []error
	)
	get := func(k string) string {
		d, _ := Lookup(k)
		raw, ok := values[k]
		if !ok {
			return d.Default
		}
		v, err := d.Normalize(raw)
		if err != nil {
			errs = append(errs, err)
			return d.Default
		}
		return v
	}
	boolean := func(k string) bool {
		b, _ := strconv.ParseBool(get(k))
		return b
	}
	keybind := func(k string) key.Keybind {
		kb, _ := key.ParseKeybind(get(k))
		return kb
	}

	s.ZoomKeyEnabled = boolean(KeyZoomKeyEnabled)
	s.Zoom, _ = strconv.Atoi(get(KeyZoom))
	s.ZoomKey = keybind(KeyZoomKey)
	s.ActivationType, _ = zoom.ParseActivationMode(get(KeyActivationType))
	s.ZoomIndicator = boolean(KeyZoomIndicator)
	s.CompassKeysEnabled = boolean(KeyCompassKeysEnabled)
	s.NorthKey = keybind(KeyNorthKey)
	s.EastKey = keybind(KeyEastKey)
	s.SouthKey = keybind(KeySouthKey)
	s.WestKey = keybind(KeyWestKey)
	s.DisableChatBlocking = boolean(KeyDisableChatBlocking)
	s.SiblingEnabled = boolean(KeySiblingEnabled)
	return s, errs
}
