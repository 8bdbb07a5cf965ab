package loader

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/camerakeys/internal/config"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) WriteFile(path string, data []byte) error {
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/settings.toml", `
[camerakeys]
zoom = 500
zoomKey = "v"
activationType = "Toggle"
zoomIndicator = false

[runelite]
keyremappingplugin = true
`)

	loader := NewTOMLLoaderWithFS(memfs, "/settings.toml")
	values, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]string{
		config.KeyZoom:           "500",
		config.KeyZoomKey:        "v",
		config.KeyActivationType: "Toggle",
		config.KeyZoomIndicator:  "false",
		config.KeySiblingEnabled: "true",
	}
	if len(values) != len(want) {
		t.Fatalf("Load() = %v, want %v", values, want)
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("%s = %q, want %q", k, values[k], v)
		}
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	loader := NewTOMLLoaderWithFS(NewMemFS(), "/nonexistent.toml")

	values, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if values != nil {
		t.Error("expected nil values for non-existent file")
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[camerakeys\nzoom = 4\n"},
		{"top level value", "zoom = 4\n"},
		{"nested table", "[camerakeys.inner]\nzoom = 4\n"},
		{"fraction", "[camerakeys]\nzoom = 4.5\n"},
		{"array", "[camerakeys]\nzoom = [1, 2]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memfs := NewMemFS()
			memfs.AddFile("/bad.toml", tt.content)

			_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Load() error = %v, want *ParseError", err)
			}
			if perr.Path != "/bad.toml" {
				t.Errorf("Path = %q", perr.Path)
			}
		})
	}
}

func TestTOMLLoader_SyntaxErrorPosition(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[camerakeys]\nzoom = = 4\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
	if !strings.Contains(perr.Error(), "line 2") {
		t.Errorf("Error() = %q, want line number", perr.Error())
	}
	if perr.Unwrap() == nil {
		t.Error("Unwrap() = nil")
	}
}

func TestTOMLLoader_SaveRoundTrip(t *testing.T) {
	memfs := NewMemFS()
	loader := NewTOMLLoaderWithFS(memfs, "/settings.toml")

	in := map[string]string{
		config.KeyZoom:           "-100",
		config.KeyEastKey:        "Ctrl+d",
		config.KeyZoomIndicator:  "false",
		config.KeySiblingEnabled: "true",
	}
	if err := loader.Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	text := string(memfs.files["/settings.toml"])
	for _, want := range []string{"[camerakeys]", "[runelite]", "zoom = -100", "zoomIndicator = false", "keyremappingplugin = true"} {
		if !strings.Contains(text, want) {
			t.Errorf("saved file missing %q:\n%s", want, text)
		}
	}

	out, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for k, v := range in {
		if out[k] != v {
			t.Errorf("%s = %q, want %q", k, out[k], v)
		}
	}
}

func TestEncode_InvalidKey(t *testing.T) {
	_, err := Encode(map[string]string{"nogroup": "1"})
	if !errors.Is(err, config.ErrInvalidKey) {
		t.Errorf("Encode() error = %v, want ErrInvalidKey", err)
	}
}

func TestTOMLLoader_StoreBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camerakeys", "settings.toml")
	loader := NewTOMLLoader(path)

	s := config.NewStore(config.WithBackend(loader), config.WithAutoSave(true))
	if err := s.Set(config.KeyZoom, "640", "test"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reloaded := config.NewStore(config.WithBackend(NewTOMLLoader(path)))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Settings().Zoom != 640 {
		t.Errorf("Zoom = %d, want 640", reloaded.Settings().Zoom)
	}
	if loader.Path() != path || loader.Name() != path {
		t.Errorf("Path() = %q, Name() = %q", loader.Path(), loader.Name())
	}
}
