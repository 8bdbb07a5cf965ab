// Package watcher reloads settings files when they change on disk.
//
// Files are watched through their parent directory so editors that save by
// writing a temporary file and renaming it over the original are seen.
// Bursts of events for one file are coalesced before handlers run.
package watcher

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/camerakeys/internal/logging"
)

// ErrClosed indicates the watcher was closed.
var ErrClosed = errors.New("watcher closed")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the last coalesced event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed away.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a watched file changes.
type Handler func(event Event)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.Mutex

	fsw *fsnotify.Watcher

	// Watched files and the reference count of their directories
	files map[string]bool
	dirs  map[string]int

	handlers []Handler

	debounce time.Duration
	pending  map[string]*pendingEvent

	logger *logging.Logger

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// pendingEvent stores a pending event with its timer for debouncing.
type pendingEvent struct {
	op    Operation
	time  time.Time
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
// Zero delivers every event immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*pendingEvent),
		logger:   logging.Null,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("watcher")

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Watch adds a file to the watch list. The file need not exist yet, but
// its directory must.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if !w.files[absPath] {
		return nil
	}
	delete(w.files, absPath)

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// WatchedFiles returns the watched files in sorted order.
func (w *Watcher) WatchedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// Close stops the watcher. Pending debounced events are dropped.
// It is safe to call Close multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	op, ok := convertOp(ev.Op)
	if !ok {
		return
	}
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	watched := w.files[path]
	w.mu.Unlock()
	if !watched {
		return
	}

	event := Event{Path: path, Op: op, Time: time.Now()}
	if w.debounce == 0 {
		w.emit(event)
		return
	}
	w.queue(event)
}

// queue coalesces events per path:
// - create + write => create
// - write + write => write
// - any + remove or rename => remove or rename
func (w *Watcher) queue(event Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	existing, ok := w.pending[event.Path]
	if !ok {
		p := &pendingEvent{op: event.Op, time: event.Time}
		path := event.Path
		p.timer = time.AfterFunc(w.debounce, func() { w.flush(path) })
		w.pending[path] = p
		return
	}

	switch event.Op {
	case OpWrite:
		// Write doesn't override create or remove
	default:
		existing.op = event.Op
	}
	existing.time = event.Time
	existing.timer.Reset(w.debounce)
}

func (w *Watcher) flush(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	w.emit(Event{Path: path, Op: p.op, Time: p.time})
}

// emit calls all handlers with the event.
func (w *Watcher) emit(event Event) {
	w.mu.Lock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	w.logger.Debug("%s %s", event.Op, event.Path)
	for _, handler := range handlers {
		w.safeCall(handler, event)
	}
}

// safeCall keeps a panicking handler from killing the watcher.
func (w *Watcher) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("handler panic for %s: %v", event.Path, r)
		}
	}()
	handler(event)
}

func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}
