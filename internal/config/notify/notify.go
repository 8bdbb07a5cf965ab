// Package notify delivers setting change notifications.
//
// Observers subscribe to every change or to a single settings group
// ("camerakeys", "runelite"). Delivery is synchronous on the goroutine that
// made the change; observers that must run elsewhere queue the change.
package notify

import (
	"strings"
	"sync"
)

// ChangeType represents the type of setting change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeUnset indicates a value was removed and reverts to its default.
	ChangeUnset

	// ChangeReload indicates all settings were reloaded from the backend.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeUnset:
		return "unset"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one setting change.
type Change struct {
	// Key is the "group.name" key. Empty for reloads.
	Key string

	// Type is the type of change.
	Type ChangeType

	// OldValue and NewValue are the raw values; empty when absent.
	OldValue string
	NewValue string

	// Source identifies where the change came from, e.g. "file" or "cli".
	Source string
}

// Group returns the settings group of the changed key.
func (c Change) Group() string {
	group, _, _ := strings.Cut(c.Key, ".")
	return group
}

// Name returns the key without its group.
func (c Change) Name() string {
	_, name, ok := strings.Cut(c.Key, ".")
	if !ok {
		return c.Key
	}
	return name
}

// Observer is called when a setting changes.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	group    string
	observer Observer
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu        sync.RWMutex
	observers map[uint64]entry
	nextID    uint64
	closed    bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{
		observers: make(map[uint64]entry),
	}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribeGroup("", observer)
}

// SubscribeGroup registers an observer for changes to keys in group.
// Reloads are delivered to every observer. An empty group matches all keys.
func (n *Notifier) SubscribeGroup(group string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = entry{group: group, observer: observer}

	return &Subscription{id: id, notifier: n}
}

// Notify sends a change to all matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	var observers []Observer
	for _, e := range n.observers {
		if e.group == "" || change.Type == ChangeReload || e.group == change.Group() {
			observers = append(observers, e.observer)
		}
	}
	n.mu.RUnlock()

	// Observers run outside the lock so they may subscribe or unsubscribe.
	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(key, oldValue, newValue, source string) {
	n.Notify(Change{
		Key:      key,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyUnset is a convenience method for unset changes.
func (n *Notifier) NotifyUnset(key, oldValue, source string) {
	n.Notify(Change{
		Key:      key,
		Type:     ChangeUnset,
		OldValue: oldValue,
		Source:   source,
	})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{
		Type:   ChangeReload,
		Source: source,
	})
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.observers)
}

// Close drops all subscriptions; later notifications are ignored.
// It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.observers = make(map[uint64]entry)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}
