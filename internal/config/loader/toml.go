package loader

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/camerakeys/internal/config"
)

// TOMLLoader loads settings from a TOML file.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader creates a new TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   fs,
		path: path,
	}
}

// Path returns the settings file path.
func (l *TOMLLoader) Path() string {
	return l.path
}

// Name implements config.Backend.
func (l *TOMLLoader) Name() string {
	return l.path
}

// Load reads the file and flattens it to "group.name" keys with raw string
// values. A missing file yields nil, nil.
func (l *TOMLLoader) Load() (map[string]string, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // File doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading settings file %s: %w", l.path, err)
	}
	return Parse(l.path, data)
}

// Save writes values grouped into tables. Values are typed by their setting
// definition so integers and booleans stay unquoted.
func (l *TOMLLoader) Save(values map[string]string) error {
	data, err := Encode(values)
	if err != nil {
		return err
	}
	if err := l.fs.WriteFile(l.path, data); err != nil {
		return fmt.Errorf("writing settings file %s: %w", l.path, err)
	}
	return nil
}

// Parse decodes TOML settings data. source names the data in errors.
func Parse(source string, data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}

	values := make(map[string]string)
	for group, raw := range doc {
		table, ok := raw.(map[string]any)
		if !ok {
			return nil, &ParseError{Path: source, Message: fmt.Sprintf("%s: expected a [%s] table", group, group)}
		}
		for name, v := range table {
			s, err := scalar(v)
			if err != nil {
				return nil, &ParseError{Path: source, Message: fmt.Sprintf("%s.%s: %v", group, name, err)}
			}
			values[group+"."+name] = s
		}
	}
	return values, nil
}

// Encode renders values as TOML.
func Encode(values map[string]string) ([]byte, error) {
	doc := make(map[string]map[string]any)
	for k, v := range values {
		group, name, ok := strings.Cut(k, ".")
		if !ok || group == "" || name == "" {
			return nil, fmt.Errorf("%w: %q", config.ErrInvalidKey, k)
		}
		if doc[group] == nil {
			doc[group] = make(map[string]any)
		}
		doc[group][name] = typed(k, v)
	}
	return toml.Marshal(doc)
}

func scalar(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		if x != float64(int64(x)) {
			return "", fmt.Errorf("expected an integer, got %v", x)
		}
		return strconv.FormatInt(int64(x), 10), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

func typed(key, value string) any {
	d, ok := config.Lookup(key)
	if !ok {
		return value
	}
	switch d.Kind {
	case config.KindBool:
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	case config.KindInt:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return value
}

// ParseError represents an error while parsing a settings file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var _ config.Backend = (*TOMLLoader)(nil)
