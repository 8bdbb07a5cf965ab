package config

import (
	"sort"
	"sync"

	"github.com/dshills/camerakeys/internal/config/notify"
	"github.com/dshills/camerakeys/internal/logging"
)

// Backend persists raw setting values.
type Backend interface {
	// Load returns the stored values. A missing store yields nil, nil.
	Load() (map[string]string, error)
	// Save replaces the stored values.
	Save(values map[string]string) error
	// Name identifies the backend in errors and logs.
	Name() string
}

// Store is the key-value settings store. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	values   map[string]string
	settings Settings
	problems []error
	closed   bool

	notifier *notify.Notifier
	backend  Backend
	autoSave bool
	logger   *logging.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithBackend attaches a persistence backend.
func WithBackend(b Backend) StoreOption {
	return func(s *Store) {
		s.backend = b
	}
}

// WithAutoSave saves to the backend after every Set and Unset.
func WithAutoSave(enable bool) StoreOption {
	return func(s *Store) {
		s.autoSave = enable
	}
}

// WithStoreLogger sets the logger.
func WithStoreLogger(l *logging.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithValues seeds the store with raw values. Invalid values are kept and
// reported by Problems.
func WithValues(values map[string]string) StoreOption {
	return func(s *Store) {
		for k, v := range values {
			s.values[k] = v
		}
	}
}

// NewStore creates a store holding only defaults.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		values:   make(map[string]string),
		notifier: notify.New(),
		logger:   logging.Null,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("config")
	s.rebuild()
	return s
}

// Settings returns the current typed snapshot.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Problems returns the decode errors of the current values.
func (s *Store) Problems() []error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]error(nil), s.problems...)
}

// Get returns the effective raw value of key: the stored value or the
// default. ok is false for unknown keys.
func (s *Store) Get(key string) (value string, ok bool) {
	d, known := Lookup(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, set := s.values[key]; set {
		return v, true
	}
	return d.Default, known
}

// Values returns a copy of the explicitly set values.
func (s *Store) Values() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Keys returns the explicitly set keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set validates and stores a value, then notifies observers. Setting a key
// to its current value is a no-op.
func (s *Store) Set(key, value, source string) error {
	d, ok := Lookup(key)
	if !ok {
		return &ValidationError{Key: key, Value: value, Code: ErrCodeUnknownSetting, Message: "unknown setting"}
	}
	v, err := d.Normalize(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	old, had := s.values[key]
	if had && old == v {
		s.mu.Unlock()
		return nil
	}
	if !had {
		old = d.Default
	}
	s.values[key] = v
	s.rebuild()
	s.mu.Unlock()

	s.logger.Debug("%s: %q -> %q (%s)", key, old, v, source)
	s.notifier.NotifySet(key, old, v, source)
	return s.maybeSave()
}

// Unset removes a stored value so the default applies again.
func (s *Store) Unset(key, source string) error {
	if _, ok := Lookup(key); !ok {
		return &ValidationError{Key: key, Code: ErrCodeUnknownSetting, Message: "unknown setting"}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	old, had := s.values[key]
	if !had {
		s.mu.Unlock()
		return nil
	}
	delete(s.values, key)
	s.rebuild()
	s.mu.Unlock()

	s.notifier.NotifyUnset(key, old, source)
	return s.maybeSave()
}

// Load replaces the stored values with the backend's. Observers receive one
// change per key that differs, then a reload. Unknown keys are dropped.
func (s *Store) Load() error {
	if s.backend == nil {
		return nil
	}
	loaded, err := s.backend.Load()
	if err != nil {
		return &BackendError{Op: "load", Backend: s.backend.Name(), Err: err}
	}

	next := make(map[string]string, len(loaded))
	for k, v := range loaded {
		if _, ok := Lookup(k); !ok {
			s.logger.Warn("ignoring unknown setting %s from %s", k, s.backend.Name())
			continue
		}
		next[k] = v
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	prev := s.values
	s.values = next
	s.rebuild()
	problems := append([]error(nil), s.problems...)
	s.mu.Unlock()

	for _, p := range problems {
		s.logger.Warn("%v", p)
	}

	source := s.backend.Name()
	for _, k := range sortedKeys(prev, next) {
		old, had := prev[k]
		v, has := next[k]
		switch {
		case has && (!had || old != v):
			if !had {
				old, _ = defaultOf(k)
			}
			s.notifier.NotifySet(k, old, v, source)
		case had && !has:
			s.notifier.NotifyUnset(k, old, source)
		}
	}
	s.notifier.NotifyReload(source)
	return nil
}

// Save writes the stored values to the backend.
func (s *Store) Save() error {
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Save(s.Values()); err != nil {
		return &BackendError{Op: "save", Backend: s.backend.Name(), Err: err}
	}
	return nil
}

// Subscribe registers an observer for all changes.
func (s *Store) Subscribe(observer notify.Observer) *notify.Subscription {
	return s.notifier.Subscribe(observer)
}

// SubscribeGroup registers an observer for one settings group.
func (s *Store) SubscribeGroup(group string, observer notify.Observer) *notify.Subscription {
	return s.notifier.SubscribeGroup(group, observer)
}

// Close drops all subscriptions. Later writes fail with ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.notifier.Close()
}

func (s *Store) maybeSave() error {
	if !s.autoSave {
		return nil
	}
	return s.Save()
}

// rebuild must be called with mu held.
func (s *Store) rebuild() {
	s.settings, s.problems = Decode(s.values)
}

func defaultOf(key string) (string, bool) {
	d, ok := Lookup(key)
	return d.Default, ok
}

func sortedKeys(a, b map[string]string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
