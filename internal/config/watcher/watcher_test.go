package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

type collector struct {
	mu     sync.Mutex
	events []Event
	ch     chan struct{}
}

func newCollector() *collector {
	return &collector{ch: make(chan struct{}, 16)}
}

func (c *collector) handle(e Event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	c.ch <- struct{}{}
}

func (c *collector) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		in   fsnotify.Op
		want Operation
		ok   bool
	}{
		{fsnotify.Write, OpWrite, true},
		{fsnotify.Create, OpCreate, true},
		{fsnotify.Create | fsnotify.Write, OpCreate, true},
		{fsnotify.Remove, OpRemove, true},
		{fsnotify.Rename, OpRename, true},
		{fsnotify.Chmod, 0, false},
	}
	for _, tt := range tests {
		got, ok := convertOp(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("convertOp(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t)

	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch(a) error = %v", err)
	}
	if err := w.Watch(b); err != nil {
		t.Fatalf("Watch(b) error = %v", err)
	}
	if err := w.Watch(a); err != nil {
		t.Fatalf("second Watch(a) error = %v", err)
	}
	if got := w.WatchedFiles(); len(got) != 2 {
		t.Errorf("WatchedFiles() = %v, want 2 files", got)
	}
	if w.dirs[dir] != 2 {
		t.Errorf("dir refcount = %d, want 2", w.dirs[dir])
	}

	if err := w.Unwatch(a); err != nil {
		t.Fatalf("Unwatch(a) error = %v", err)
	}
	if err := w.Unwatch(b); err != nil {
		t.Fatalf("Unwatch(b) error = %v", err)
	}
	if len(w.dirs) != 0 {
		t.Errorf("dirs = %v, want none", w.dirs)
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w := newWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "missing", "a.toml")); err == nil {
		t.Error("Watch() in a missing directory succeeded")
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("[camerakeys]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newWatcher(t, WithDebounce(20*time.Millisecond))
	c := newCollector()
	w.OnChange(c.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	// Unwatched neighbours are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[camerakeys]\nzoom = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.wait(t)

	c.mu.Lock()
	defer c.mu.Unlock()
	abs, _ := filepath.Abs(path)
	for _, e := range c.events {
		if e.Path != abs {
			t.Errorf("event for %s, want only %s", e.Path, abs)
		}
	}
}

func TestWatcher_DetectsCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")

	w := newWatcher(t, WithDebounce(0))
	c := newCollector()
	w.OnChange(c.handle)
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.wait(t)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.events[0].Op != OpCreate {
		t.Errorf("first op = %v, want create", c.events[0].Op)
	}
}

func TestWatcher_Coalesce(t *testing.T) {
	w := newWatcher(t, WithDebounce(time.Hour))

	w.queue(Event{Path: "/x", Op: OpCreate, Time: time.Now()})
	w.queue(Event{Path: "/x", Op: OpWrite, Time: time.Now()})
	if w.pending["/x"].op != OpCreate {
		t.Errorf("create + write = %v, want create", w.pending["/x"].op)
	}
	w.queue(Event{Path: "/x", Op: OpRemove, Time: time.Now()})
	if w.pending["/x"].op != OpRemove {
		t.Errorf("+ remove = %v, want remove", w.pending["/x"].op)
	}
}

func TestWatcher_HandlerPanicRecovered(t *testing.T) {
	w := newWatcher(t, WithDebounce(0))
	c := newCollector()
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(c.handle)

	w.emit(Event{Path: "/x", Op: OpWrite})
	c.wait(t)
}

func TestWatcher_Close(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Watch("x.toml"); err != ErrClosed {
		t.Errorf("Watch() after Close error = %v, want ErrClosed", err)
	}
}
